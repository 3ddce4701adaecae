package artwork

import (
	"context"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/pokeapi-artwork-go/internal/domain"
	"github.com/kapu/pokeapi-artwork-go/internal/service/image"
	"github.com/kapu/pokeapi-artwork-go/internal/util"
)

// InfoFetcher looks up a pokemon record.
type InfoFetcher interface {
	GetPokemonInfo(ctx context.Context, identifier string) (domain.PokemonInfo, error)
}

type Downloader struct {
	fetcher InfoFetcher
	images  image.Handler
	logger  *zap.Logger
}

func NewDownloader(fetcher InfoFetcher, images image.Handler, logger *zap.Logger) *Downloader {
	return &Downloader{
		fetcher: fetcher,
		images:  images,
		logger:  logger,
	}
}

// DownloadPokemonArtwork saves the official artwork of a pokemon into folder
// as <name>.<ext> and returns the file path. Nothing is downloaded or written
// when the metadata lookup fails.
func (d *Downloader) DownloadPokemonArtwork(ctx context.Context, identifier, folder string) (string, error) {
	info, err := d.fetcher.GetPokemonInfo(ctx, identifier)
	if err != nil {
		return "", err
	}

	name, err := info.Name()
	if err != nil {
		return "", err
	}
	artworkURL, err := info.ArtworkURL()
	if err != nil {
		d.logger.Warn("Pokemon has no official artwork", zap.String("pokemon", name), zap.Error(err))
		return "", err
	}

	data, err := d.images.DownloadImage(ctx, artworkURL)
	if err != nil {
		return "", err
	}

	file := domain.ArtworkFile{
		Data: data,
		Path: filepath.Join(folder, FileName(name, artworkURL)),
	}
	if err := d.images.SaveImageFile(file.Data, file.Path); err != nil {
		d.logger.Error("Failed to save artwork", zap.String("path", file.Path), zap.Error(err))
		return "", err
	}

	d.logger.Info("Artwork saved",
		zap.String("pokemon", name),
		zap.String("path", file.Path),
		zap.Int("bytes", len(file.Data)),
	)
	return file.Path, nil
}

// FileName builds "<name>.<ext>" with the extension taken from the image URL.
// Path separators in the name are replaced so the file stays inside its folder.
func FileName(name, imageURL string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	ext := util.URLExtension(imageURL)
	if ext == "" {
		return safe
	}
	return safe + "." + ext
}
