package loam

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/maturity/internal/testutils"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `---
kind: questionnaire
metadata:
  entry_question_id: q1
  title: Directory questionnaire
pillars:
  - id: STRAT
    name: Strategy
  - id: DATA
    name: Data
    weight: 2
levels:
  pillar:
    - { id: low, min_score: 0, max_score: 49 }
    - { id: high, min_score: 50, max_score: 100 }
  global:
    - { id: beginner, min_score: 0, max_score: 49 }
    - { id: advanced, min_score: 50, max_score: 100 }
order: [q1, q2]
---
`

const q1 = `---
id: q1
pillar_id: STRAT
help: Think about the last year.
options:
  - { id: none, label: None, score: 0, next_question_id: q2 }
  - { id: full, label: Full, score: 4, tags: [STRAT_roadmap], next_question_id: q2 }
---
Does the organization have a strategy?
`

const q2 = `---
pillar_id: DATA
options:
  - { id: uncatalogued, label: Not at all, score: 0 }
  - { id: catalogued, label: Fully, score: 4 }
---
Is data catalogued?
`

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	dir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, dir, files)
	return New(loam.NewTypedRepository[DocumentMetadata](repo))
}

func TestLoader_Contract(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"questionnaire.md": manifest,
		"q1.md":            q1,
		"q2.md":            q2,
	})
	ports.RunLoaderContract(t, loader, "q1", 2)
}

func TestLoader_AssemblesDocuments(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"questionnaire.md": manifest,
		"q1.md":            q1,
		"q2.md":            q2,
	})

	q, err := loader.Load(context.Background())
	require.NoError(t, err)

	// 1. Frontmatter and body are merged
	first, ok := q.Question("q1")
	require.True(t, ok)
	assert.Equal(t, "Does the organization have a strategy?", first.Text)
	assert.Equal(t, "Think about the last year.", first.Help)
	full, ok := first.Option("full")
	require.True(t, ok)
	assert.Equal(t, domain.QuestionID("q2"), full.NextQuestionID)
	assert.Equal(t, []string{"STRAT_roadmap"}, full.Tags)

	// 2. ID is implied from the filename
	second, ok := q.Question("q2")
	require.True(t, ok)
	assert.Equal(t, domain.PillarID("DATA"), second.PillarID)

	// 3. Manifest tables reach the questionnaire
	assert.Equal(t, []domain.QuestionID{"q1", "q2"}, q.Order)
	data, _ := q.Pillar("DATA")
	strat, _ := q.Pillar("STRAT")
	assert.Equal(t, 2.0, data.Weight)
	assert.Equal(t, 1.0, strat.Weight)
}

func TestLoader_MissingManifest(t *testing.T) {
	loader := newLoader(t, map[string]string{"q1.md": q1})

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQuestionnaireInvalid)
}

func TestLoader_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"questionnaire.md": manifest,
		"q1.md":            q1,
		"other.md":         "---\nid: q1\npillar_id: STRAT\noptions:\n  - { id: a, label: A, score: 1 }\n---\nDuplicate",
	})

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "q1")
}

func TestLoader_InvalidReference(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"questionnaire.md": manifest,
		"q1.md":            q1,
		"q2.md":            "---\npillar_id: NOPE\noptions:\n  - { id: a, label: A, score: 1 }\n---\nOrphan pillar",
	})

	_, err := loader.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQuestionnaireInvalid)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestLoader_ShippedExample(t *testing.T) {
	src := filepath.Join("..", "..", "..", "examples", "ai-maturity-dir")
	entries, err := os.ReadDir(src)
	require.NoError(t, err)

	files := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name()))
		require.NoError(t, err)
		files[e.Name()] = string(data)
	}
	loader := newLoader(t, files)

	q, err := loader.Load(context.Background())
	require.NoError(t, err)

	// Every question takes its text from the document body
	assert.Equal(t, []domain.QuestionID{"policy", "catalog"}, q.Order)
	policy, ok := q.Question("policy")
	require.True(t, ok)
	assert.Equal(t, "Is there an approved policy for the use of AI?", policy.Text)
	catalog, ok := q.Question("catalog")
	require.True(t, ok)
	assert.Equal(t, "Is critical data catalogued with clear owners?", catalog.Text)
}
