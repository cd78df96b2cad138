package write

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"
	"sync"
	"time"
)

// SkipIfExistsWriter never replaces a file that is already on disk. The
// engine selects it for artifacts when skipping existing files is enabled.
type SkipIfExistsWriter struct {
	baseWriter Writer
}

func NewSkipIfExistsWriter(baseWriter Writer) *SkipIfExistsWriter {
	if baseWriter == nil {
		baseWriter = NewBaseWriter()
	}
	return &SkipIfExistsWriter{
		baseWriter: baseWriter,
	}
}

func (siw *SkipIfExistsWriter) Write(path string, content []byte, options WriteOptions) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return siw.baseWriter.Write(path, content, options)
}

func (siw *SkipIfExistsWriter) CanWrite(path string) bool {
	if _, err := os.Stat(path); err == nil {
		return false
	}
	return siw.baseWriter.CanWrite(path)
}

func (siw *SkipIfExistsWriter) NeedsWrite(path string, content []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return siw.baseWriter.NeedsWrite(path, content)
}

// DryRunWriter records what would be written without touching the file
// system. It is safe for concurrent use.
type DryRunWriter struct {
	mu      sync.Mutex
	changes []Change
}

type Change struct {
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	Size      int       `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionUnchanged = "unchanged"
)

func NewDryRunWriter() *DryRunWriter {
	return &DryRunWriter{
		changes: make([]Change, 0),
	}
}

func (drw *DryRunWriter) Write(path string, content []byte, options WriteOptions) error {
	action := ActionCreate
	if existing, err := os.ReadFile(path); err == nil {
		action = ActionUpdate
		if string(existing) == string(content) {
			action = ActionUnchanged
		}
	}

	drw.mu.Lock()
	defer drw.mu.Unlock()
	drw.changes = append(drw.changes, Change{
		Path:      path,
		Action:    action,
		Size:      len(content),
		Timestamp: time.Now(),
	})
	return nil
}

func (drw *DryRunWriter) CanWrite(path string) bool {
	return true
}

func (drw *DryRunWriter) NeedsWrite(path string, content []byte) (bool, error) {
	return true, nil
}

// GetChanges returns the recorded changes sorted by path.
func (drw *DryRunWriter) GetChanges() []Change {
	drw.mu.Lock()
	defer drw.mu.Unlock()

	changes := slices.Clone(drw.changes)
	slices.SortStableFunc(changes, func(a, b Change) int {
		return strings.Compare(a.Path, b.Path)
	})
	return changes
}

func (drw *DryRunWriter) Reset() {
	drw.mu.Lock()
	defer drw.mu.Unlock()
	drw.changes = make([]Change, 0)
}

type LoggingWriter struct {
	baseWriter Writer
	logger     *slog.Logger
}

func NewLoggingWriter(baseWriter Writer, logger *slog.Logger) *LoggingWriter {
	if baseWriter == nil {
		baseWriter = NewBaseWriter()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingWriter{
		baseWriter: baseWriter,
		logger:     logger,
	}
}

func (lw *LoggingWriter) Write(path string, content []byte, options WriteOptions) error {
	start := time.Now()
	err := lw.baseWriter.Write(path, content, options)
	duration := time.Since(start)

	if err != nil {
		lw.logger.Error("write failed", "path", path, "error", err, "duration", duration)
	} else {
		lw.logger.Debug("wrote file", "path", path, "bytes", len(content), "duration", duration)
	}

	return err
}

func (lw *LoggingWriter) CanWrite(path string) bool {
	return lw.baseWriter.CanWrite(path)
}

func (lw *LoggingWriter) NeedsWrite(path string, content []byte) (bool, error) {
	needs, err := lw.baseWriter.NeedsWrite(path, content)
	if err != nil {
		lw.logger.LogAttrs(context.Background(), slog.LevelWarn, "cannot compare with existing file",
			slog.String("path", path), slog.Any("error", err))
	}
	return needs, err
}
