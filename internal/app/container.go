package app

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/pokeapi-artwork-go/internal/config"
	"github.com/kapu/pokeapi-artwork-go/internal/constants"
	"github.com/kapu/pokeapi-artwork-go/internal/service/artwork"
	"github.com/kapu/pokeapi-artwork-go/internal/service/cache"
	"github.com/kapu/pokeapi-artwork-go/internal/service/image"
	"github.com/kapu/pokeapi-artwork-go/internal/service/pokeapi"
)

// Container bundles the assembled services used by the CLI.
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Pokemon *pokeapi.Service
	Artwork *artwork.Downloader

	closers []func()
}

// Close releases resources acquired during Build, in reverse order.
func (c *Container) Close() {
	if c == nil {
		return
	}
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build assembles the HTTP client, optional Redis cache, and the pokemon and
// artwork services. Progress text is written to out.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (_ *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	httpClient := &http.Client{Timeout: cfg.PokeAPI.Timeout}

	var pokemonCache pokeapi.PokemonCache
	if cfg.Cache.Enabled {
		cacheSvc, cacheErr := cache.NewCacheService(cache.CacheConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		c.closers = append(c.closers, func() {
			_ = cacheSvc.Close()
		})
		if err := cacheSvc.WaitUntilReady(ctx, constants.RedisConfig.ReadyTimeout); err != nil {
			return nil, fmt.Errorf("cache not ready: %w", err)
		}
		pokemonCache = cacheSvc
	}

	apiClient := pokeapi.NewAPIClient(httpClient, pokeapi.ClientConfig{
		BaseURL:       cfg.PokeAPI.BaseURL,
		UserAgent:     cfg.PokeAPI.UserAgent,
		RatePerSecond: cfg.PokeAPI.RatePerSecond,
		RateBurst:     cfg.PokeAPI.RateBurst,
	}, logger)

	c.Pokemon = pokeapi.NewService(apiClient, pokemonCache, cfg.Cache.TTL, out, logger)
	c.Artwork = artwork.NewDownloader(
		c.Pokemon,
		image.NewService(httpClient, cfg.PokeAPI.UserAgent, logger),
		logger,
	)

	logger.Debug("Services assembled",
		zap.String("base_url", cfg.PokeAPI.BaseURL),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	return c, nil
}
