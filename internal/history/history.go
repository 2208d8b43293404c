// Package history keeps a local transcript of finalized turns, one
// file per conversation. Ephemeral tool progress never lands here.
package history

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Filter narrows a Get query.
type Filter struct {
	Limit     int
	Search    string
	StartTime time.Time
	EndTime   time.Time
	CountOnly bool
}

// Store records and retrieves transcript lines per conversation.
type Store interface {
	Add(conversation, author, text string) error
	Get(conversation string, filter Filter) ([]string, int, error)
}

// FileStore implements Store with append-only line files under one
// base directory.
type FileStore struct {
	baseDir string
	mu      sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates baseDir if needed and returns the store.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(err, "creating history directory")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (h *FileStore) path(conversation string) string {
	// conversation ids are opaque; keep filenames flat
	safe := strings.ReplaceAll(conversation, "/", "_")
	return filepath.Join(h.baseDir, safe+".log")
}

// Add appends one transcript line as timestamp|author|text.
func (h *FileStore) Add(conversation, author, text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.OpenFile(h.path(conversation), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "opening transcript")
	}
	defer f.Close()

	line := time.Now().Format(time.RFC3339) + "|" + author + "|" + strings.ReplaceAll(text, "\n", " ") + "\n"
	if _, err := f.WriteString(line); err != nil {
		return errors.Wrap(err, "appending transcript")
	}
	return nil
}

// Get returns the most recent matching lines, oldest first, plus the
// match count. A conversation with no transcript yields an empty
// result, not an error.
func (h *FileStore) Get(conversation string, filter Filter) ([]string, int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.path(conversation))
	if os.IsNotExist(err) {
		return []string{}, 0, nil
	}
	if err != nil {
		return nil, 0, errors.Wrap(err, "opening transcript")
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "reading transcript")
	}

	var result []string
	count := 0

	// newest first so Limit keeps the most recent lines
	for i := len(lines) - 1; i >= 0; i-- {
		parts := strings.SplitN(lines[i], "|", 3)
		if len(parts) != 3 {
			continue
		}
		stamp, err := time.Parse(time.RFC3339, parts[0])
		if err != nil {
			continue
		}
		formatted := "<" + parts[1] + "> " + parts[2]

		if !filter.StartTime.IsZero() && stamp.Before(filter.StartTime) {
			continue
		}
		if !filter.EndTime.IsZero() && stamp.After(filter.EndTime) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(formatted), strings.ToLower(filter.Search)) {
			continue
		}

		count++
		if filter.CountOnly {
			continue
		}
		result = append([]string{formatted}, result...)
		if filter.Limit > 0 && len(result) >= filter.Limit {
			break
		}
	}

	return result, count, nil
}
