package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/maturity/internal/compiler"
	"github.com/aretw0/maturity/pkg/domain"
)

// Loader adapts a Loam repository to the QuestionnaireLoader interface.
type Loader struct {
	Repo   *loam.TypedRepository[DocumentMetadata]
	parser *compiler.Parser
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DocumentMetadata]) *Loader {
	return &Loader{
		Repo:   repo,
		parser: compiler.NewParser(),
	}
}

// Load assembles the manifest and every question document into one
// questionnaire and compiles it.
func (l *Loader) Load(ctx context.Context) (*domain.Questionnaire, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	var (
		manifest     *DocumentMetadata
		manifestPath string
	)
	questions := make(map[string]any)
	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		meta := doc.Data
		if meta.isManifest() {
			if manifest != nil {
				return nil, fmt.Errorf("collision detected: manifest defined in both '%s' and '%s'", manifestPath, doc.ID)
			}
			m := meta
			manifest, manifestPath = &m, doc.ID
			continue
		}

		rawID := meta.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		// Collision Detection
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)

		// List returns frontmatter only; the body needs a full read.
		content := doc.Content
		if meta.Text == "" && content == "" {
			full, err := l.Repo.Get(ctx, doc.ID)
			if err != nil {
				return nil, fmt.Errorf("loam get failed for %s: %w", doc.ID, err)
			}
			content = full.Content
		}
		questions[id] = questionData(meta, content)
	}

	if manifest == nil {
		return nil, fmt.Errorf("%w: no document with kind %q", domain.ErrQuestionnaireInvalid, KindQuestionnaire)
	}

	raw := map[string]any{
		"metadata":  manifest.Metadata,
		"pillars":   manifest.Pillars,
		"questions": questions,
		"levels":    manifest.Levels,
	}
	if manifest.Recommendations != nil {
		raw["recommendations"] = manifest.Recommendations
	}

	order := manifest.Order
	if len(order) == 0 {
		sort.Strings(ids)
		order = ids
	}
	return l.parser.Compile(raw, order)
}

func questionData(meta DocumentMetadata, content string) map[string]any {
	text := meta.Text
	if text == "" {
		text = strings.TrimSpace(content)
	}
	data := map[string]any{
		"text":      text,
		"pillar_id": meta.PillarID,
		"options":   meta.Options,
	}
	if meta.Help != "" {
		data["help"] = meta.Help
	}
	return data
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: a pending signal already means "reload".
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return ch, nil
}
