package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dtnitsch/m8pack/models"
)

type Storage struct{}

// FileStats holds metadata about a file without reading its contents.
type FileStats struct {
	SizeBytes int64
	ModTime   time.Time
}

// SaveFile writes content to filePath through a temporary file in the same
// directory and a rename, so a failed run never leaves a partial package.
// "-" writes to stdout.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	if filePath == "-" {
		if _, err := os.Stdout.Write(content); err != nil {
			return fmt.Errorf("%w: writing stdout: %v", models.ErrIO, err)
		}
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".m8pack-*")
	if err != nil {
		return fmt.Errorf("%w: error saving file: %v", models.ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: error saving file: %v", models.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: error saving file: %v", models.ErrIO, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("%w: error saving file: %v", models.ErrIO, err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("%w: error saving file: %v", models.ErrIO, err)
	}
	return nil
}

// ReadFile reads the whole file; "-" reads stdin.
func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if filePath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(filePath)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error reading file: %v", models.ErrIO, err)
	}
	return data, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func (s *Storage) HasFile(fn string) bool {
	return fileExists(fn)
}

// GetFileStats returns metadata about a file using os.Stat (no I/O overhead).
func (s *Storage) GetFileStats(filePath string) (*FileStats, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: error getting file stats: %v", models.ErrIO, err)
	}

	return &FileStats{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime(),
	}, nil
}
