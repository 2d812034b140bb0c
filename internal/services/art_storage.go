package services

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"

	"github.com/codyseavey/deck-overlay/internal/logger"
)

// ErrInvalidCardID is returned for ids that cannot safely name a file.
var ErrInvalidCardID = errors.New("invalid card id")

var cardIDPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var artExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// ArtStorageService stores card art on disk. Files are keyed by card id
// alone, never by match-scoped state, so they survive game resets.
type ArtStorageService struct {
	storageDir string
	log        *logger.Logger
}

// NewArtStorageService creates the storage directory if needed.
func NewArtStorageService(storageDir string, log *logger.Logger) *ArtStorageService {
	if log == nil {
		log = logger.Nop()
	}
	// Log but don't fail; writes will report the real error.
	if err := os.MkdirAll(storageDir, 0755); err != nil {
		log.Warn("could not create card art directory", "dir", storageDir, "error", err)
	}
	return &ArtStorageService{storageDir: storageDir, log: log.Named("art")}
}

// SaveArt writes data as the art for cardID, replacing any previous file,
// and returns the stored file name.
func (s *ArtStorageService) SaveArt(cardID string, data []byte) (string, error) {
	if !cardIDPattern.MatchString(cardID) {
		return "", ErrInvalidCardID
	}
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	ext, ok := artExtensions[http.DetectContentType(data)]
	if !ok {
		return "", fmt.Errorf("unsupported image type %s", http.DetectContentType(data))
	}

	if err := s.DeleteArt(cardID); err != nil {
		return "", err
	}

	filename := cardID + ext
	if err := os.WriteFile(filepath.Join(s.storageDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save art: %w", err)
	}
	s.log.Debug("stored card art", "card_id", cardID, "file", filename, "bytes", len(data))
	return filename, nil
}

// ArtPath returns the path of the stored art for cardID.
func (s *ArtStorageService) ArtPath(cardID string) (string, bool) {
	if !cardIDPattern.MatchString(cardID) {
		return "", false
	}
	for _, ext := range artExtensions {
		path := filepath.Join(s.storageDir, cardID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// DeleteArt removes any stored art for cardID.
func (s *ArtStorageService) DeleteArt(cardID string) error {
	if !cardIDPattern.MatchString(cardID) {
		return ErrInvalidCardID
	}
	for _, ext := range artExtensions {
		path := filepath.Join(s.storageDir, cardID+ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete art: %w", err)
		}
	}
	return nil
}

func (s *ArtStorageService) GetStorageDir() string {
	return s.storageDir
}
