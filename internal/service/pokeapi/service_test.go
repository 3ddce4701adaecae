package pokeapi

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/pokeapi-artwork-go/internal/constants"
	"github.com/kapu/pokeapi-artwork-go/internal/domain"
	"github.com/kapu/pokeapi-artwork-go/pkg/errors"
)

type fakeRequester struct {
	body   []byte
	err    error
	paths  []string
	params []url.Values
}

func (f *fakeRequester) DoRequest(_ context.Context, path string, params url.Values) ([]byte, error) {
	f.paths = append(f.paths, path)
	f.params = append(f.params, params)
	return f.body, f.err
}

type fakeCache struct {
	entries map[string]domain.PokemonInfo
	sets    int
}

func (f *fakeCache) GetPokemon(_ context.Context, identifier string) (domain.PokemonInfo, bool) {
	info, ok := f.entries[identifier]
	return info, ok
}

func (f *fakeCache) SetPokemon(_ context.Context, identifier string, info domain.PokemonInfo, _ time.Duration) {
	if f.entries == nil {
		f.entries = map[string]domain.PokemonInfo{}
	}
	f.entries[identifier] = info
	f.sets++
}

var pokedex = []string{"bulbasaur", "ivysaur", "venusaur", "charmander", "charmeleon", "charizard", "squirtle", "wartortle", "blastoise", "caterpie"}

// newPokeAPIServer serves a tiny pokedex in the shape of the public API.
func newPokeAPIServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/v2/pokemon/")
		if rest == "" {
			limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
			offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
			results := []domain.NamedResource{}
			for i := offset; i < len(pokedex) && i < offset+limit; i++ {
				results = append(results, domain.NamedResource{Name: pokedex[i], URL: fmt.Sprintf("/api/v2/pokemon/%d/", i+1)})
			}
			_ = json.NewEncoder(w).Encode(domain.NamedResourceList{Count: len(pokedex), Results: results})
			return
		}

		for i, name := range pokedex {
			if rest == name || rest == strconv.Itoa(i+1) {
				_ = json.NewEncoder(w).Encode(map[string]any{
					"id":   i + 1,
					"name": name,
					"sprites": map[string]any{
						"other": map[string]any{
							"official-artwork": map[string]any{
								"front_default": fmt.Sprintf("https://img.example/%d.png", i+1),
							},
						},
					},
				})
				return
			}
		}
		http.Error(w, "Not Found", http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newLiveService(t *testing.T, out *bytes.Buffer) *Service {
	srv := newPokeAPIServer(t)
	client := NewAPIClient(srv.Client(), ClientConfig{BaseURL: srv.URL + "/api/v2/pokemon/"}, zap.NewNop())
	return NewService(client, nil, 0, out, zap.NewNop())
}

func TestGetPokemonInfoNormalizesIdentifier(t *testing.T) {
	requester := &fakeRequester{body: []byte(`{"name":"pikachu"}`)}
	var out bytes.Buffer
	svc := NewService(requester, nil, 0, &out, zap.NewNop())

	info, err := svc.GetPokemonInfo(context.Background(), "  PiKaChu \n")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if name, _ := info.Name(); name != "pikachu" {
		t.Fatalf("unexpected name: %q", name)
	}
	if len(requester.paths) != 1 || requester.paths[0] != "pikachu" {
		t.Fatalf("expected normalized path, got %v", requester.paths)
	}
	if out.String() != "Getting information for pikachu...success\n" {
		t.Fatalf("unexpected progress output: %q", out.String())
	}
}

func TestGetPokemonInfoByID(t *testing.T) {
	var out bytes.Buffer
	svc := newLiveService(t, &out)

	info, err := svc.GetPokemonInfoByID(context.Background(), 4)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if name, _ := info.Name(); name != "charmander" {
		t.Fatalf("unexpected name: %q", name)
	}
}

func TestGetPokemonInfoIsIdempotentByName(t *testing.T) {
	var out bytes.Buffer
	svc := newLiveService(t, &out)
	ctx := context.Background()

	first, err := svc.GetPokemonInfo(ctx, "7")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	name, err := first.Name()
	if err != nil {
		t.Fatalf("expected name, got %v", err)
	}

	second, err := svc.GetPokemonInfo(ctx, name)
	if err != nil {
		t.Fatalf("expected no error on re-fetch, got %v", err)
	}
	if first["id"] != second["id"] {
		t.Fatalf("expected consistent record, got ids %v and %v", first["id"], second["id"])
	}
	secondName, _ := second.Name()
	if secondName != name {
		t.Fatalf("expected name %q, got %q", name, secondName)
	}
}

func TestGetPokemonInfoNon200ReturnsNoData(t *testing.T) {
	var out bytes.Buffer
	svc := newLiveService(t, &out)

	info, err := svc.GetPokemonInfo(context.Background(), "missingno")
	if info != nil {
		t.Fatalf("expected no data, got %v", info)
	}

	var apiErr *errors.APIError
	if !stderrors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}

	want := "Getting information for missingno...failure\nResponse code: 404 (Not Found)\n"
	if out.String() != want {
		t.Fatalf("unexpected progress output: %q", out.String())
	}
}

func TestGetPokemonInfoRejectsEmptyIdentifier(t *testing.T) {
	requester := &fakeRequester{}
	svc := NewService(requester, nil, 0, nil, zap.NewNop())

	_, err := svc.GetPokemonInfo(context.Background(), "   ")
	var valErr *errors.ValidationError
	if !stderrors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(requester.paths) != 0 {
		t.Fatalf("expected no request for empty identifier")
	}
}

func TestGetPokemonInfoMalformedBody(t *testing.T) {
	requester := &fakeRequester{body: []byte(`[1,2,3]`)}
	svc := NewService(requester, nil, 0, nil, zap.NewNop())

	info, err := svc.GetPokemonInfo(context.Background(), "pikachu")
	if info != nil {
		t.Fatalf("expected no data, got %v", info)
	}
	var recErr *errors.RecordError
	if !stderrors.As(err, &recErr) {
		t.Fatalf("expected RecordError, got %v", err)
	}
}

func TestGetPokemonInfoUsesCache(t *testing.T) {
	requester := &fakeRequester{body: []byte(`{"name":"eevee","id":133}`)}
	cache := &fakeCache{}
	svc := NewService(requester, cache, time.Minute, nil, zap.NewNop())
	ctx := context.Background()

	if _, err := svc.GetPokemonInfo(ctx, "Eevee"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := svc.GetPokemonInfo(ctx, "eevee"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(requester.paths) != 1 {
		t.Fatalf("expected second lookup to hit the cache, got %d requests", len(requester.paths))
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
}

func TestGetPokemonInfoDoesNotCacheFailures(t *testing.T) {
	requester := &fakeRequester{err: errors.NewAPIError("unexpected status: 500", 500, "Internal Server Error", nil)}
	cache := &fakeCache{}
	svc := NewService(requester, cache, time.Minute, nil, zap.NewNop())

	if _, err := svc.GetPokemonInfo(context.Background(), "mew"); err == nil {
		t.Fatalf("expected error")
	}
	if cache.sets != 0 {
		t.Fatalf("failures must not be cached")
	}
}

func TestGetPokemonNamesRespectsLimit(t *testing.T) {
	var out bytes.Buffer
	svc := newLiveService(t, &out)
	ctx := context.Background()

	for _, limit := range []int{0, 1, 3, 10, 50} {
		names, err := svc.GetPokemonNames(ctx, 0, limit)
		if err != nil {
			t.Fatalf("limit %d: expected no error, got %v", limit, err)
		}
		if len(names) > limit {
			t.Fatalf("limit %d: got %d names", limit, len(names))
		}
	}

	names, err := svc.GetPokemonNames(ctx, 3, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) != 2 || names[0] != "charmander" || names[1] != "charmeleon" {
		t.Fatalf("unexpected window: %v", names)
	}
}

func TestGetPokemonNamesSendsPaginationParams(t *testing.T) {
	requester := &fakeRequester{body: []byte(`{"count":1,"results":[{"name":"mew","url":"u"}]}`)}
	var out bytes.Buffer
	svc := NewService(requester, nil, 0, &out, zap.NewNop())

	names, err := svc.GetPokemonNames(context.Background(), 0, constants.APIConfig.DefaultListLimit)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) != 1 || names[0] != "mew" {
		t.Fatalf("unexpected names: %v", names)
	}

	params := requester.params[0]
	if params.Get("limit") != "100000" || params.Get("offset") != "0" {
		t.Fatalf("unexpected params: %v", params)
	}
	if requester.paths[0] != "" {
		t.Fatalf("list request should hit the base path, got %q", requester.paths[0])
	}
	if out.String() != "Getting list of Pokemon names...success\n" {
		t.Fatalf("unexpected progress output: %q", out.String())
	}
}

func TestGetPokemonNamesNon200ReturnsNoData(t *testing.T) {
	requester := &fakeRequester{err: errors.NewAPIError("unexpected status: 503", 503, "Service Unavailable", nil)}
	var out bytes.Buffer
	svc := NewService(requester, nil, 0, &out, zap.NewNop())

	names, err := svc.GetPokemonNames(context.Background(), 0, 10)
	if names != nil {
		t.Fatalf("expected no data, got %v", names)
	}
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(out.String(), "Response code: 503 (Service Unavailable)") {
		t.Fatalf("unexpected progress output: %q", out.String())
	}
}

func TestGetPokemonNamesRejectsNegativeWindow(t *testing.T) {
	requester := &fakeRequester{}
	svc := NewService(requester, nil, 0, nil, zap.NewNop())

	if _, err := svc.GetPokemonNames(context.Background(), -1, 10); err == nil {
		t.Fatalf("expected error for negative offset")
	}
	if _, err := svc.GetPokemonNames(context.Background(), 0, -5); err == nil {
		t.Fatalf("expected error for negative limit")
	}
	if len(requester.paths) != 0 {
		t.Fatalf("expected no requests for invalid window")
	}
}

func TestGetPokemonNamesTruncatesOversizedPage(t *testing.T) {
	// The API answers limit=0 with its default page instead of an empty one.
	requester := &fakeRequester{body: []byte(`{"count":3,"results":[{"name":"a","url":"u"},{"name":"b","url":"u"},{"name":"c","url":"u"}]}`)}
	svc := NewService(requester, nil, 0, nil, zap.NewNop())

	names, err := svc.GetPokemonNames(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names for limit 0, got %v", names)
	}

	names, err = svc.GetPokemonNames(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestGetPokemonNamesMissingResults(t *testing.T) {
	requester := &fakeRequester{body: []byte(`{"count":0}`)}
	var out bytes.Buffer
	svc := NewService(requester, nil, 0, &out, zap.NewNop())

	names, err := svc.GetPokemonNames(context.Background(), 0, 10)
	if names != nil {
		t.Fatalf("expected no data, got %v", names)
	}
	var recErr *errors.RecordError
	if !stderrors.As(err, &recErr) {
		t.Fatalf("expected RecordError, got %v", err)
	}
	if recErr.Path != "results" {
		t.Fatalf("unexpected path: %s", recErr.Path)
	}
	if !strings.HasSuffix(out.String(), "failure\n") {
		t.Fatalf("unexpected progress output: %q", out.String())
	}
}

func TestGetPokemonNamesEmptyResults(t *testing.T) {
	requester := &fakeRequester{body: []byte(`{"count":0,"results":[]}`)}
	svc := NewService(requester, nil, 0, nil, zap.NewNop())

	names, err := svc.GetPokemonNames(context.Background(), 0, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
}
