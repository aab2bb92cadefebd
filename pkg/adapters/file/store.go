package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/tauribridge/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Store implements ports.RecordStore using the local filesystem.
// Records are stored as YAML files under BasePath/drivers and BasePath/sessions.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".tauribridge".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = ".tauribridge"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) driverDir() string  { return filepath.Join(s.BasePath, "drivers") }
func (s *Store) sessionDir() string { return filepath.Join(s.BasePath, "sessions") }

// SaveDriver persists the driver record atomically.
func (s *Store) SaveDriver(ctx context.Context, rec domain.DriverRecord) error {
	if rec.Port <= 0 {
		return fmt.Errorf("driver record needs a port")
	}
	return writeYAML(s.driverDir(), strconv.Itoa(rec.Port), rec)
}

// LoadDriver reads the driver record for a port.
func (s *Store) LoadDriver(ctx context.Context, port int) (domain.DriverRecord, error) {
	var rec domain.DriverRecord
	err := readYAML(filepath.Join(s.driverDir(), strconv.Itoa(port)+".yaml"), &rec)
	return rec, err
}

// DeleteDriver removes the driver record file.
func (s *Store) DeleteDriver(ctx context.Context, port int) error {
	return remove(filepath.Join(s.driverDir(), strconv.Itoa(port)+".yaml"))
}

// ListDrivers returns all driver records, ordered by port.
func (s *Store) ListDrivers(ctx context.Context) ([]domain.DriverRecord, error) {
	var out []domain.DriverRecord
	err := each(s.driverDir(), func(path string) error {
		var rec domain.DriverRecord
		if err := readYAML(path, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Port < out[j].Port })
	return out, err
}

// SaveSession persists the session record atomically.
func (s *Store) SaveSession(ctx context.Context, rec domain.SessionRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	return writeYAML(s.sessionDir(), rec.ID, rec)
}

// DeleteSession removes the session record file.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	return remove(filepath.Join(s.sessionDir(), id+".yaml"))
}

// ListSessions returns all session records, ordered by creation time.
func (s *Store) ListSessions(ctx context.Context) ([]domain.SessionRecord, error) {
	var out []domain.SessionRecord
	err := each(s.sessionDir(), func(path string) error {
		var rec domain.SessionRecord
		if err := readYAML(path, &rec); err != nil {
			return err
		}
		out = append(out, rec)
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, err
}

// writeYAML writes v to dir/name.yaml atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func writeYAML(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to ensure record directory: %w", err)
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+name+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	destPath := filepath.Join(dir, name+".yaml")
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing record for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to record: %w", err)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.ErrRecordNotFound
		}
		return fmt.Errorf("failed to read record file: %w", err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal record %s: %w", filepath.Base(path), err)
	}
	return nil
}

func remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete record file: %w", err)
	}
	return nil
}

// each calls fn for every committed record file in dir. A missing dir yields nothing.
func each(dir string, fn func(path string) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to list records: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".yaml" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		if err := fn(filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}
