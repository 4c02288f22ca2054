package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const maxBackups = 5

// Store owns the canonical in-memory state and mediates all access to it.
// Reads may overlap; mutations are exclusive. The on-disk snapshot is only
// ever replaced atomically, so it is always either the previous complete
// state or the new one.
type Store struct {
	mu sync.RWMutex
	// saveMu serializes whole save cycles: two overlapping saves would
	// race on the shared staging file and could rename an older marshal
	// over a newer one.
	saveMu    sync.Mutex
	snap      *Snapshot
	path      string
	backupDir string
}

// New creates a store persisting to path, with rotating backup copies kept
// under backupDir. Call Load before serving traffic.
func New(path, backupDir string) *Store {
	return &Store{
		snap:      NewSnapshot(),
		path:      path,
		backupDir: backupDir,
	}
}

// Load reads the canonical snapshot file. A missing file starts an empty
// store. A corrupt file also starts an empty store and returns the parse
// error so the caller can log it; refusing to start would turn a
// recoverable corruption into an outage.
func (s *Store) Load() error {
	content, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		slog.Info("No existing data file found, starting fresh", "path", s.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read data file: %w", err)
	}

	snap := NewSnapshot()
	if err := json.Unmarshal(content, snap); err != nil {
		return fmt.Errorf("failed to parse data file: %w", err)
	}
	if snap.Guilds == nil {
		snap.Guilds = make(map[string]*GuildState)
	}
	for _, g := range snap.Guilds {
		if g.Users == nil {
			g.Users = make(map[string]*UserRecord)
		}
		if g.Today != nil && g.Today.Participants == nil {
			g.Today.Participants = make(map[string]string)
		}
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	return nil
}

// Read runs a read-only projection over the current state. fn must not
// retain references to the snapshot past its return.
func (s *Store) Read(fn func(*Snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.snap)
}

// Mutate runs an exclusive transformation over the state. Mutations are
// serialized with each other and exclude all readers for their duration.
// If fn returns an error it must leave the state untouched; the error is
// passed through to the caller.
func (s *Store) Mutate(fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.snap)
}

// Save serializes the full state and commits it durably: stage to a
// sibling .tmp file, flush, then atomically rename over the canonical
// file. A crash at any point leaves the canonical file complete. Save
// cycles run one at a time; concurrent callers queue.
func (s *Store) Save(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.RLock()
	data, err := json.MarshalIndent(s.snap, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write staging file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to flush staging file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to finalize atomic save: %w", err)
	}
	return nil
}

// Backup copies the canonical snapshot into the backup directory with a
// timestamped name, pruning old copies so at most maxBackups remain.
func (s *Store) Backup(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := s.pruneBackups(); err != nil {
		slog.Warn("Failed to prune old backups", "error", err)
	}

	name := fmt.Sprintf("fishing_data_%s.json", time.Now().UTC().Format("2006-01-02T15-04-05"))
	dst := filepath.Join(s.backupDir, name)
	if err := copyFile(s.path, dst); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// pruneBackups deletes the oldest backups until fewer than maxBackups
// remain, making room for the one about to be written.
func (s *Store) pruneBackups() error {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		return err
	}

	type backup struct {
		path    string
		modTime time.Time
	}
	var backups []backup
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, backup{
			path:    filepath.Join(s.backupDir, entry.Name()),
			modTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].modTime.Before(backups[j].modTime)
	})
	for len(backups) >= maxBackups {
		if err := os.Remove(backups[0].path); err != nil {
			return err
		}
		backups = backups[1:]
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
