package domain

import (
	"strings"

	"github.com/kapu/pokeapi-artwork-go/pkg/errors"
)

// Field paths inside a pokemon record.
const (
	NameField       = "name"
	ArtworkURLField = "sprites.other.official-artwork.front_default"
)

// PokemonInfo is the decoded body of a /pokemon/{id or name} response. It is
// passed through untouched; only the name and artwork URL are read locally.
type PokemonInfo map[string]any

// Name returns the record's display name.
func (p PokemonInfo) Name() (string, error) {
	return p.String(NameField)
}

// ArtworkURL returns the official artwork image URL.
func (p PokemonInfo) ArtworkURL() (string, error) {
	return p.String(ArtworkURLField)
}

// Lookup walks a dot-separated path through nested objects.
func (p PokemonInfo) Lookup(path string) (any, error) {
	if p == nil {
		return nil, errors.NewRecordError("record is empty", path)
	}

	var current any = map[string]any(p)
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, errors.NewRecordError("field is not an object", path)
		}
		next, exists := obj[key]
		if !exists {
			return nil, errors.NewRecordError("field not found", path)
		}
		current = next
	}
	return current, nil
}

// String looks up path and requires a non-empty string value.
func (p PokemonInfo) String(path string) (string, error) {
	value, err := p.Lookup(path)
	if err != nil {
		return "", err
	}
	s, ok := value.(string)
	if !ok || s == "" {
		return "", errors.NewRecordError("field is not a non-empty string", path)
	}
	return s, nil
}

// NamedResource is one entry of a paginated list response.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NamedResourceList is the body of a /pokemon?limit=&offset= response.
type NamedResourceList struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []NamedResource `json:"results"`
}

// Names returns the result names in response order.
func (l *NamedResourceList) Names() []string {
	if l == nil {
		return []string{}
	}
	names := make([]string, 0, len(l.Results))
	for _, r := range l.Results {
		names = append(names, r.Name)
	}
	return names
}

// ArtworkFile is an image payload bound for a destination path.
type ArtworkFile struct {
	Data []byte
	Path string
}
