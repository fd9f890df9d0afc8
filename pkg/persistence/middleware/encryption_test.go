package middleware_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/aretw0/maturity/pkg/adapters/memory"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/persistence/middleware"
	"github.com/aretw0/maturity/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, middleware.KeySize)
	_, err := rand.Read(k)
	require.NoError(t, err)
	return k
}

func answeredState() *domain.State {
	s := domain.NewState("s1", "gov_1")
	s.Answers["gov_1"] = domain.AnswerRecord{QuestionID: "gov_1", OptionID: "none", Score: 0, Tags: []string{"GOV_no_policy"}, PillarID: "GOV"}
	s.History = append(s.History, "data_1")
	s.CurrentQuestionID = "data_1"
	return s
}

func sealedStore(t *testing.T, inner ports.StateStore, cfg middleware.EncryptionConfig) ports.StateStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return middleware.Chain(inner, mw)
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := sealedStore(t, inner, middleware.EncryptionConfig{ActiveKey: generateKey(t)})

	require.NoError(t, store.Save(ctx, "s1", answeredState()))

	// 1. The wrapped store only sees the envelope
	raw, err := inner.Load(ctx, "s1")
	require.NoError(t, err)
	assert.NotEmpty(t, raw.Sealed)
	assert.Empty(t, raw.Answers)
	assert.Empty(t, raw.History)
	assert.Equal(t, domain.StatusActive, raw.Status)

	// 2. Loading through the middleware restores the state
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionID("data_1"), loaded.CurrentQuestionID)
	assert.Equal(t, []domain.QuestionID{"gov_1", "data_1"}, loaded.History)
	assert.Equal(t, []string{"GOV_no_policy"}, loaded.Answers["gov_1"].Tags)
	assert.Nil(t, loaded.Sealed)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	oldStore := sealedStore(t, inner, middleware.EncryptionConfig{ActiveKey: oldKey})
	require.NoError(t, oldStore.Save(ctx, "s1", answeredState()))

	// 1. The new key opens old sessions through the fallback
	newStore := sealedStore(t, inner, middleware.EncryptionConfig{ActiveKey: newKey, FallbackKeys: [][]byte{oldKey}})
	loaded, err := newStore.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.QuestionID("data_1"), loaded.CurrentQuestionID)

	// 2. Saving re-seals with the new key, which the old key cannot open
	require.NoError(t, newStore.Save(ctx, "s1", loaded))
	_, err = oldStore.Load(ctx, "s1")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainSessions(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	require.NoError(t, inner.Save(ctx, "s1", answeredState()))

	store := sealedStore(t, inner, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKeys(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	assert.Error(t, err)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    generateKey(t),
		FallbackKeys: [][]byte{[]byte("short")},
	})
	assert.Error(t, err)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	require.NoError(t, err)
	ports.RunStateStoreContract(t, mw(memory.NewStore()))
}

func TestParseKey(t *testing.T) {
	key := generateKey(t)

	fromHex, err := middleware.ParseKey(hex.EncodeToString(key))
	require.NoError(t, err)
	assert.Equal(t, key, fromHex)

	_, err = middleware.ParseKey("too-short")
	assert.Error(t, err)
}
