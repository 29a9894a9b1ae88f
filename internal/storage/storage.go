package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPosterName is the file written after each render
const DefaultPosterName = "out_bwf.png"

// Storage handles the local output directory
type Storage struct {
	dataDir string
}

// New creates a new Storage instance rooted at dataDir, creating it if needed
func New(dataDir string) (*Storage, error) {
	if dataDir == "" {
		dataDir = "."
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ForFile creates a Storage for the directory of path and returns the base name to write
func ForFile(path string) (*Storage, string, error) {
	if path == "" {
		path = DefaultPosterName
	}
	s, err := New(filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	return s, filepath.Base(path), nil
}

// Dir returns the resolved output directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the full path of a file in the output directory
func (s *Storage) Path(name string) string {
	if name == "" {
		name = DefaultPosterName
	}
	return filepath.Join(s.dataDir, filepath.Base(name))
}

// WritePoster writes image bytes to name, replacing any previous file. The write goes
// through a temporary file so readers never see a partial image.
func (s *Storage) WritePoster(name string, data []byte) (string, error) {
	path := s.Path(name)

	tmp, err := os.CreateTemp(s.dataDir, ".poster-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing poster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing poster: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("setting poster mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("replacing poster: %w", err)
	}

	return path, nil
}

// ReadPoster reads a previously written poster
func (s *Storage) ReadPoster(name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		return nil, fmt.Errorf("reading poster: %w", err)
	}
	return data, nil
}
