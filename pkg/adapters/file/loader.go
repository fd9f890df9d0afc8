// Package file loads a questionnaire from a single JSON, YAML or TOML document
// and keeps sessions as JSON files on disk.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/maturity/internal/compiler"
	"github.com/aretw0/maturity/internal/logging"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// Loader reads and compiles a questionnaire document from disk on every Load.
type Loader struct {
	path     string
	format   compiler.Format
	parser   *compiler.Parser
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithDebounce overrides the watch debounce window.
func WithDebounce(d time.Duration) Option {
	return func(l *Loader) {
		l.debounce = d
	}
}

// WithLogger sets the logger used for watch errors.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a loader for path. The format is inferred from the extension.
func New(path string, opts ...Option) (*Loader, error) {
	format, err := compiler.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	l := &Loader{
		path:     abs,
		format:   format,
		parser:   compiler.NewParser(),
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the absolute document path.
func (l *Loader) Path() string {
	return l.path
}

// Load implements ports.QuestionnaireLoader.
func (l *Loader) Load(ctx context.Context) (*domain.Questionnaire, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire: %w", err)
	}
	q, err := l.parser.Parse(data, l.format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(l.path), err)
	}
	return q, nil
}

// Watch implements ports.Watchable. The parent directory is watched so
// atomic rename-on-save still reports the document.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(l.path), err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		defer watcher.Close()

		timer := time.NewTimer(l.debounce)
		timer.Stop()
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != l.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				timer.Reset(l.debounce)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				l.logger.Warn("questionnaire watch error", "path", l.path, "err", err)
			case <-timer.C:
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}
