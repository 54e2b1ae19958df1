// Package audio keeps synthesized clips on local disk for a bounded time.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("audio artifact not found")

// Artifact is a clip written to the store's directory.
type Artifact struct {
	ID          uuid.UUID `json:"id"`
	Path        string    `json:"-"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store indexes artifacts by ID. Artifacts older than ttl are removed by
// Sweep; a zero ttl keeps them until Remove or Close.
type Store struct {
	dir   string
	owned bool
	ttl   time.Duration

	mu    sync.Mutex
	items map[uuid.UUID]Artifact
}

// NewStore uses dir, creating it if needed. An empty dir gets a fresh
// directory under os.TempDir that Close removes.
func NewStore(dir string, ttl time.Duration) (*Store, error) {
	owned := false
	if dir == "" {
		d, err := os.MkdirTemp("", "linguavox-audio-")
		if err != nil {
			return nil, fmt.Errorf("create audio dir: %w", err)
		}
		dir, owned = d, true
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}

	return &Store{
		dir:   dir,
		owned: owned,
		ttl:   ttl,
		items: make(map[uuid.UUID]Artifact),
	}, nil
}

func (s *Store) Dir() string { return s.dir }

// Create writes a new artifact with the given extension (".mp3"). If write
// fails the partial file is removed and nothing is registered.
func (s *Store) Create(ext, contentType string, write func(io.Writer) error) (*Artifact, error) {
	f, err := os.CreateTemp(s.dir, "tts-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create audio file: %w", err)
	}
	path := f.Name()

	err = write(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("stat audio file: %w", err)
	}

	a := Artifact{
		ID:          uuid.New(),
		Path:        path,
		ContentType: contentType,
		Size:        info.Size(),
		CreatedAt:   time.Now(),
	}

	s.mu.Lock()
	s.items[a.ID] = a
	s.mu.Unlock()

	slog.Debug("audio artifact stored", "id", a.ID, "path", path, "size", a.Size)
	return &a, nil
}

func (s *Store) Get(id uuid.UUID) (*Artifact, error) {
	s.mu.Lock()
	a, ok := s.items[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

// Open returns the artifact's file for reading. The caller closes it.
func (s *Store) Open(id uuid.UUID) (*os.File, *Artifact, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(a.Path)
	if errors.Is(err, os.ErrNotExist) {
		s.forget(id)
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open audio file: %w", err)
	}
	return f, a, nil
}

// Remove deletes the artifact's file and drops it from the index.
func (s *Store) Remove(id uuid.UUID) error {
	s.mu.Lock()
	a, ok := s.items[id]
	delete(s.items, id)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return removeFile(a.Path)
}

func (s *Store) forget(id uuid.UUID) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Sweep removes artifacts created more than ttl before now and returns how
// many were removed.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}

	var expired []Artifact
	s.mu.Lock()
	for id, a := range s.items {
		if now.Sub(a.CreatedAt) > s.ttl {
			expired = append(expired, a)
			delete(s.items, id)
		}
	}
	s.mu.Unlock()

	for _, a := range expired {
		if err := removeFile(a.Path); err != nil {
			slog.Warn("failed to remove expired audio", "id", a.ID, "error", err)
		}
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				slog.Info("expired audio removed", "count", n)
			}
		}
	}
}

// CheckWritable verifies a file can be created in the store's directory.
func (s *Store) CheckWritable() error {
	f, err := os.CreateTemp(s.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("audio dir not writable: %w", err)
	}
	f.Close()
	return os.Remove(f.Name())
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Close removes every tracked artifact, and the directory itself when the
// store created it.
func (s *Store) Close() error {
	s.mu.Lock()
	items := s.items
	s.items = make(map[uuid.UUID]Artifact)
	s.mu.Unlock()

	if s.owned {
		return os.RemoveAll(s.dir)
	}
	var errs []error
	for _, a := range items {
		errs = append(errs, removeFile(a.Path))
	}
	return errors.Join(errs...)
}

func removeFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove audio file: %w", err)
	}
	return nil
}
