package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// FileHistory keeps the analysis log in a single JSON file, the
// zero-infrastructure backend for local runs. Writes rewrite the whole
// file; the log is small by construction (MaxEntries).
type FileHistory struct {
	path string
	mu   sync.Mutex
}

// NewFileHistory creates a file-backed store at path (directories are
// created on first append).
func NewFileHistory(path string) *FileHistory {
	return &FileHistory{path: path}
}

// Append loads the current log, adds the entry, trims to MaxEntries and
// rewrites the file.
func (f *FileHistory) Append(ctx context.Context, entry HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	if len(entries) > MaxEntries {
		entries = entries[len(entries)-MaxEntries:]
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// Recent returns up to n entries, newest first.
func (f *FileHistory) Recent(ctx context.Context, n int) ([]HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > len(entries) {
		n = len(entries)
	}

	out := make([]HistoryEntry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// load reads the log, oldest first. A missing file is an empty log. An
// interrupted write can leave truncated JSON behind; run it through
// json-repair before giving up, so one bad shutdown does not wipe the
// history.
func (f *FileHistory) load() ([]HistoryEntry, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err == nil {
		return entries, nil
	}

	repaired, repairErr := jsonrepair.RepairJSON(string(data))
	if repairErr != nil {
		return nil, fmt.Errorf("history file %s is not valid JSON: %w", f.path, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &entries); err != nil {
		return nil, fmt.Errorf("history file %s unreadable after repair: %w", f.path, err)
	}
	return entries, nil
}
