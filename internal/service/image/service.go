package image

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/pokeapi-artwork-go/internal/constants"
	"github.com/kapu/pokeapi-artwork-go/pkg/errors"
)

// Handler downloads image bytes and persists them to disk.
type Handler interface {
	DownloadImage(ctx context.Context, imageURL string) ([]byte, error)
	SaveImageFile(data []byte, path string) error
}

type Service struct {
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
}

func NewService(httpClient *http.Client, userAgent string, logger *zap.Logger) *Service {
	return &Service{
		httpClient: httpClient,
		userAgent:  userAgent,
		logger:     logger,
	}
}

func (s *Service) DownloadImage(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, errors.NewAPIError("invalid image url", 0, "", map[string]any{"url": imageURL}).WithCause(err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("Image download failed", zap.String("url", imageURL), zap.Error(err))
		return nil, errors.NewAPIError("image request failed", 0, "", map[string]any{"url": imageURL}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("Image download returned unexpected status",
			zap.String("url", imageURL),
			zap.Int("status", resp.StatusCode),
		)
		return nil, errors.NewAPIError(fmt.Sprintf("unexpected status: %d", resp.StatusCode), resp.StatusCode, http.StatusText(resp.StatusCode), map[string]any{
			"url": imageURL,
		})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewAPIError("failed to read image body", resp.StatusCode, http.StatusText(resp.StatusCode), map[string]any{"url": imageURL}).WithCause(err)
	}
	if len(data) == 0 {
		return nil, errors.NewAPIError("image body is empty", resp.StatusCode, http.StatusText(resp.StatusCode), map[string]any{"url": imageURL})
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		s.logger.Warn("Unexpected image content type", zap.String("url", imageURL), zap.String("content_type", ct))
	}

	s.logger.Debug("Image downloaded", zap.String("url", imageURL), zap.Int("bytes", len(data)))
	return data, nil
}

// SaveImageFile writes data to path through a temp file and rename, creating
// the parent directory when missing. An existing file is replaced.
func (s *Service) SaveImageFile(data []byte, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.FileMode(constants.FileConfig.DirPermissions)); err != nil {
		return errors.NewStorageError("failed to create directory", "mkdir", dir, err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.NewString()))
	if err := os.WriteFile(tmp, data, os.FileMode(constants.FileConfig.FilePermissions)); err != nil {
		_ = os.Remove(tmp)
		return errors.NewStorageError("failed to write image file", "write", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return errors.NewStorageError("failed to finalize image file", "rename", path, err)
	}

	s.logger.Info("Image saved", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
