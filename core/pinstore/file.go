package pinstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"greenspring/core/reconcile"

	"go.uber.org/zap"
)

// FileStore keeps both documents as JSON files in one directory. Saves write a
// temporary file and rename it over the document, so readers never see a partial one.
type FileStore struct {
	dir        string
	configPath string
	statePath  string
	logger     *zap.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on first save.
func NewFileStore(dir, configName, stateName string, logger *zap.Logger) *FileStore {
	return &FileStore{
		dir:        dir,
		configPath: filepath.Join(dir, configName),
		statePath:  filepath.Join(dir, stateName),
		logger:     logger,
	}
}

// LoadConfig reads the topology, returning an empty one when missing or invalid.
func (s *FileStore) LoadConfig(ctx context.Context) reconcile.PinConfig {
	data, ok := s.read(s.configPath)
	if !ok {
		return reconcile.EmptyConfig()
	}
	return decodeConfig(s.logger, s.configPath, data)
}

// LoadState reads the state mapping, returning an empty one when missing or invalid.
func (s *FileStore) LoadState(ctx context.Context) reconcile.PinState {
	data, ok := s.read(s.statePath)
	if !ok {
		return reconcile.PinState{}
	}
	return decodeState(s.logger, s.statePath, data)
}

// SaveConfig replaces the topology document.
func (s *FileStore) SaveConfig(ctx context.Context, cfg reconcile.PinConfig) error {
	data, err := reconcile.EncodeConfig(cfg)
	if err != nil {
		return err
	}
	return s.write(s.configPath, data)
}

// SaveState replaces the state document.
func (s *FileStore) SaveState(ctx context.Context, state reconcile.PinState) error {
	data, err := reconcile.EncodeState(state)
	if err != nil {
		return err
	}
	return s.write(s.statePath, data)
}

func (s *FileStore) read(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("Failed to read pin document", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (s *FileStore) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
