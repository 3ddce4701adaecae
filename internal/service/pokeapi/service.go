package pokeapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/pokeapi-artwork-go/internal/domain"
	"github.com/kapu/pokeapi-artwork-go/internal/util"
	"github.com/kapu/pokeapi-artwork-go/pkg/errors"
)

// PokemonCache is the optional record cache consulted before the API.
type PokemonCache interface {
	GetPokemon(ctx context.Context, identifier string) (domain.PokemonInfo, bool)
	SetPokemon(ctx context.Context, identifier string, info domain.PokemonInfo, ttl time.Duration)
}

// Service fetches pokemon records and name lists. Progress lines are written
// to out; diagnostics go to the logger.
type Service struct {
	client   Requester
	cache    PokemonCache
	cacheTTL time.Duration
	out      io.Writer
	logger   *zap.Logger
}

// NewService creates a pokemon service. cache may be nil.
func NewService(client Requester, cache PokemonCache, cacheTTL time.Duration, out io.Writer, logger *zap.Logger) *Service {
	if out == nil {
		out = io.Discard
	}
	return &Service{
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
		out:      out,
		logger:   logger,
	}
}

// GetPokemonInfo fetches the record for a pokemon name or pokedex number.
// The identifier is trimmed and lowercased before use.
func (s *Service) GetPokemonInfo(ctx context.Context, identifier string) (domain.PokemonInfo, error) {
	name := util.Normalize(identifier)
	if name == "" {
		return nil, errors.NewValidationError("pokemon name must not be empty", "identifier", identifier)
	}

	fmt.Fprintf(s.out, "Getting information for %s...", name)

	if s.cache != nil {
		if info, ok := s.cache.GetPokemon(ctx, name); ok {
			fmt.Fprintln(s.out, "success")
			s.logger.Debug("Pokemon served from cache", zap.String("identifier", name))
			return info, nil
		}
	}

	body, err := s.client.DoRequest(ctx, url.PathEscape(name), nil)
	if err != nil {
		s.reportFailure(err)
		return nil, err
	}

	var info domain.PokemonInfo
	if err := json.Unmarshal(body, &info); err != nil || info == nil {
		fmt.Fprintln(s.out, "failure")
		s.logger.Error("Failed to decode pokemon record", zap.String("identifier", name), zap.Error(err))
		return nil, errors.NewRecordError("response is not a JSON object", "").WithCause(err)
	}

	fmt.Fprintln(s.out, "success")

	if s.cache != nil {
		s.cache.SetPokemon(ctx, name, info, s.cacheTTL)
	}

	return info, nil
}

// GetPokemonInfoByID fetches a record by pokedex number.
func (s *Service) GetPokemonInfoByID(ctx context.Context, id int) (domain.PokemonInfo, error) {
	return s.GetPokemonInfo(ctx, strconv.Itoa(id))
}

// ListPokemon fetches one page of the pokemon list.
func (s *Service) ListPokemon(ctx context.Context, offset, limit int) (*domain.NamedResourceList, error) {
	if offset < 0 {
		return nil, errors.NewValidationError("offset must not be negative", "offset", offset)
	}
	if limit < 0 {
		return nil, errors.NewValidationError("limit must not be negative", "limit", limit)
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	fmt.Fprint(s.out, "Getting list of Pokemon names...")

	body, err := s.client.DoRequest(ctx, "", params)
	if err != nil {
		s.reportFailure(err)
		return nil, err
	}

	var list domain.NamedResourceList
	if err := json.Unmarshal(body, &list); err != nil {
		fmt.Fprintln(s.out, "failure")
		s.logger.Error("Failed to decode pokemon list", zap.Error(err))
		return nil, errors.NewRecordError("response is not a resource list", "results").WithCause(err)
	}
	if list.Results == nil {
		fmt.Fprintln(s.out, "failure")
		s.logger.Error("Pokemon list has no results field")
		return nil, errors.NewRecordError("field not found", "results")
	}

	fmt.Fprintln(s.out, "success")
	return &list, nil
}

// GetPokemonNames returns the names in the requested window, in API order.
func (s *Service) GetPokemonNames(ctx context.Context, offset, limit int) ([]string, error) {
	list, err := s.ListPokemon(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	// The API falls back to its default page size for limit=0.
	names := list.Names()
	if len(names) > limit {
		names = names[:limit]
	}
	s.logger.Debug("Pokemon names fetched",
		zap.Int("offset", offset),
		zap.Int("limit", limit),
		zap.Int("returned", len(names)),
		zap.Int("total", list.Count),
	)
	return names, nil
}

func (s *Service) reportFailure(err error) {
	fmt.Fprintln(s.out, "failure")

	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		fmt.Fprintf(s.out, "Response code: %d (%s)\n", apiErr.StatusCode, apiErr.Reason)
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
