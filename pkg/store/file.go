package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Bravo-Actual/timegrid/pkg/errors"
)

// FileStore is a file-based schedule store for CLI usage.
// Each schedule is stored as a JSON file named <id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based schedule store.
// If baseDir is empty, defaults to ~/.config/timegrid/schedules/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "timegrid", "schedules")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create schedule dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) schedulePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*Schedule, error) {
	if err := errors.ValidateScheduleID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.schedulePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("read schedule file: %w", err)
	}

	var sched Schedule
	if err := json.Unmarshal(data, &sched); err != nil {
		return nil, fmt.Errorf("parse schedule %s: %w", id, err)
	}
	return &sched, nil
}

func (s *FileStore) Put(ctx context.Context, sched *Schedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var prior Schedule
	if data, err := os.ReadFile(s.schedulePath(sched.ID)); err == nil {
		_ = json.Unmarshal(data, &prior)
	}
	stamp(sched, prior.CreatedAt)

	data, err := json.MarshalIndent(sched, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	if err := os.WriteFile(s.schedulePath(sched.ID), data, 0600); err != nil {
		return fmt.Errorf("write schedule file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateScheduleID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.schedulePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove schedule file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read schedule dir: %w", err)
	}

	var out []Schedule
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		var sched Schedule
		if err := json.Unmarshal(data, &sched); err != nil {
			// Not a schedule file - skip rather than fail the listing
			continue
		}
		out = append(out, sched)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for schedule files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
