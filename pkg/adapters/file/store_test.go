package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/maturity/pkg/adapters/file"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.NewStore(t.TempDir()))
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	state := domain.NewState("resume-me", "gov_1")
	state.Answers["gov_1"] = domain.AnswerRecord{QuestionID: "gov_1", OptionID: "formal", Score: 4, PillarID: "GOV"}
	require.NoError(t, file.NewStore(dir).Save(ctx, "resume-me", state))

	loaded, err := file.NewStore(dir).Load(ctx, "resume-me")
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Answers["gov_1"].Score)

	// No temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "resume-me.json", entries[0].Name())
}

func TestStore_ListIgnoresForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := file.NewStore(dir)

	require.NoError(t, store.Save(ctx, "b", domain.NewState("b", "q1")))
	require.NoError(t, store.Save(ctx, "a", domain.NewState("a", "q1")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-c-123"), []byte("{}"), 0o644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestStore_EmptyDirectory(t *testing.T) {
	ids, err := file.NewStore(filepath.Join(t.TempDir(), "missing")).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_RejectsPathLikeIDs(t *testing.T) {
	ctx := context.Background()
	store := file.NewStore(t.TempDir())

	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		assert.Error(t, store.Save(ctx, id, domain.NewState(id, "q1")), id)
		_, err := store.Load(ctx, id)
		assert.Error(t, err, id)
	}
}
