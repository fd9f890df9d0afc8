package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/maturity/pkg/adapters/file"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
metadata:
  entry_question_id: q1
pillars:
  - { id: GOV, name: Governance }
questions:
  q1:
    text: Is there a policy?
    pillar_id: GOV
    options:
      - { id: a, label: Yes, score: 4 }
levels:
  pillar:
    - { id: low, min_score: 0, max_score: 100 }
  global:
    - { id: beginner, min_score: 0, max_score: 100 }
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Contract(t *testing.T) {
	loader, err := file.New(write(t, "q.yaml", doc))
	require.NoError(t, err)
	ports.RunLoaderContract(t, loader, "q1", 1)
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	_, err := file.New("questionnaire.xml")
	assert.Error(t, err)
}

func TestLoader_InvalidDocument(t *testing.T) {
	loader, err := file.New(write(t, "q.yaml", "metadata: {}\n"))
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrQuestionnaireInvalid)
}

func TestLoader_MissingFile(t *testing.T) {
	loader, err := file.New(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	assert.Error(t, err)
}

func TestLoader_WatchSignalsChanges(t *testing.T) {
	path := write(t, "q.yaml", doc)
	loader, err := file.New(path, file.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := loader.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(doc+"\n"), 0o644))

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	cancel()
	// The channel closes once the watcher stops.
	for range ch {
	}
}
