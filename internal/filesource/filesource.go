// Package filesource serves the lines of a text file as list items and
// watches the file so a list can refresh as it grows.
package filesource

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/xxh3"

	"github.com/charmbracelet/virtualize/internal/csync"
	"github.com/charmbracelet/virtualize/internal/virtualize"
)

// Line is one line of the file.
type Line struct {
	Number int
	Text   string
}

func (l Line) String() string {
	return l.Text
}

type Source struct {
	path  string
	lines *csync.Slice[Line]
	hash  atomic.Uint64
}

var _ virtualize.Source[Line] = (*Source)(nil)

// Open reads and indexes the file at path.
func Open(path string) (*Source, error) {
	s := &Source{path: path, lines: csync.NewSlice[Line]()}
	if _, err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Source) Path() string {
	return s.path
}

func (s *Source) Len() int {
	return s.lines.Len()
}

// Reload re-reads the file. It reports false when the content is unchanged.
func (s *Source) Reload() (bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	sum := xxh3.Hash(data)
	if s.hash.Swap(sum) == sum {
		return false, nil
	}
	s.lines.SetSlice(split(data))
	return true, nil
}

func split(data []byte) []Line {
	data = bytes.TrimSuffix(data, []byte("\n"))
	if len(data) == 0 {
		return nil
	}
	raw := bytes.Split(data, []byte("\n"))
	lines := make([]Line, len(raw))
	for i, r := range raw {
		lines[i] = Line{Number: i + 1, Text: string(bytes.TrimSuffix(r, []byte("\r")))}
	}
	return lines
}

// Fetch implements virtualize.Source.
func (s *Source) Fetch(ctx context.Context, req virtualize.Request) (virtualize.Result[Line], error) {
	if err := ctx.Err(); err != nil {
		return virtualize.Result[Line]{}, err
	}
	items, total := s.lines.Window(req.Start, req.Start+req.Count)
	return virtualize.Result[Line]{Items: items, TotalCount: total}, nil
}

// Watch calls onChange after each write that changes the file's content. It
// blocks until ctx is done. The parent directory is watched so editors that
// replace the file on save are followed.
func (s *Source) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", s.path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	slog.Debug("Watching file", "path", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			changed, err := s.Reload()
			if err != nil {
				slog.Warn("Failed to reload watched file", "path", abs, "error", err)
				continue
			}
			if changed {
				slog.Debug("Watched file changed", "path", abs, "lines", s.Len())
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)
		}
	}
}
