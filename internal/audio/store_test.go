package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func writeString(s string) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func newStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir(), ttl)
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	return s
}

func TestStore_CreateAndOpen(t *testing.T) {
	s := newStore(t, time.Hour)

	a, err := s.Create(".mp3", "audio/mpeg", writeString("ID3fake"))
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if filepath.Dir(a.Path) != s.Dir() || !strings.HasSuffix(a.Path, ".mp3") {
		t.Errorf("Path = %q, want an .mp3 inside %q", a.Path, s.Dir())
	}
	if a.Size != 7 || a.ContentType != "audio/mpeg" {
		t.Errorf("artifact = %+v", a)
	}

	f, got, err := s.Open(a.ID)
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "ID3fake" || got.ID != a.ID {
		t.Errorf("Open() = %q, %+v", data, got)
	}
}

func TestStore_CreateFailureLeavesNoFile(t *testing.T) {
	s := newStore(t, time.Hour)

	_, err := s.Create(".mp3", "audio/mpeg", func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return errors.New("stream broke")
	})
	if err == nil || err.Error() != "stream broke" {
		t.Fatalf("Create() error = %v", err)
	}

	entries, _ := os.ReadDir(s.Dir())
	if len(entries) != 0 {
		t.Errorf("directory has %d entries after failed write", len(entries))
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_Remove(t *testing.T) {
	s := newStore(t, time.Hour)
	a, _ := s.Create(".mp3", "audio/mpeg", writeString("x"))

	if err := s.Remove(a.ID); err != nil {
		t.Fatalf("Remove() unexpected error: %v", err)
	}
	if _, err := os.Stat(a.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still exists after Remove: %v", err)
	}
	if err := s.Remove(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove() error = %v, want ErrNotFound", err)
	}
	if _, _, err := s.Open(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() after Remove error = %v, want ErrNotFound", err)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	s := newStore(t, time.Hour)
	if _, err := s.Get(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStore_OpenMissingFile(t *testing.T) {
	s := newStore(t, time.Hour)
	a, _ := s.Create(".mp3", "audio/mpeg", writeString("x"))
	os.Remove(a.Path)

	if _, _, err := s.Open(a.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open() error = %v, want ErrNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("stale entry kept in index")
	}
}

func TestStore_Sweep(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		age     time.Duration
		removed int
	}{
		{"expired", time.Minute, 2 * time.Minute, 1},
		{"fresh", time.Minute, 30 * time.Second, 0},
		{"ttl disabled", 0, 24 * time.Hour, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t, tt.ttl)
			a, _ := s.Create(".mp3", "audio/mpeg", writeString("x"))

			if got := s.Sweep(a.CreatedAt.Add(tt.age)); got != tt.removed {
				t.Fatalf("Sweep() = %d, want %d", got, tt.removed)
			}
			_, err := os.Stat(a.Path)
			if exists := err == nil; exists == (tt.removed == 1) {
				t.Errorf("file exists = %v after sweep removing %d", exists, tt.removed)
			}
		})
	}
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	s := newStore(t, time.Nanosecond)
	a, _ := s.Create(".mp3", "audio/mpeg", writeString("x"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for s.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if _, err := os.Stat(a.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("sweeper did not remove expired file")
	}
}

func TestStore_OwnedDirRemovedOnClose(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	s, err := NewStore("", 0)
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	if err := s.CheckWritable(); err != nil {
		t.Fatalf("CheckWritable() unexpected error: %v", err)
	}
	if _, err := s.Create(".wav", "audio/wav", writeString("RIFF")); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if _, err := os.Stat(s.Dir()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("owned dir still exists after Close")
	}
}

func TestStore_CloseKeepsCallerDir(t *testing.T) {
	s := newStore(t, 0)
	a, _ := s.Create(".mp3", "audio/mpeg", writeString("x"))

	if err := s.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if _, err := os.Stat(a.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("artifact still exists after Close")
	}
	if _, err := os.Stat(s.Dir()); err != nil {
		t.Errorf("caller dir removed: %v", err)
	}
}
