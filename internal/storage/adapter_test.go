package storage

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vvf-listone/internal/model"
)

const testNamespace = "vvfm_prototipo_v1"

type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}
func (failingStore) Set(context.Context, string, string) error { return ErrUnavailable }
func (failingStore) Delete(context.Context, ...string) error   { return ErrUnavailable }

func newTestAdapter(t *testing.T) (*Adapter, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return NewAdapter(store, testNamespace, nil), store
}

func TestKeys_Versioned(t *testing.T) {
	k := NewKeys(testNamespace)
	assert.Equal(t, "vvfm_prototipo_v1:events", k.Events)
	assert.Equal(t, "vvfm_prototipo_v1:operators", k.Operators)
	assert.Equal(t, "vvfm_prototipo_v1:session", k.Session)
	assert.Equal(t, "vvfm_prototipo_v1:selectedDate", k.SelectedDate)
	assert.Len(t, k.All(), 4)
}

func TestAdapter_LoadMissingReturnsFallback(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	events := model.SeedEvents()
	operators := model.SeedOperators()

	assert.Equal(t, events, a.LoadEvents(ctx, events))
	assert.Equal(t, operators, a.LoadOperators(ctx, operators))
	assert.Equal(t, "2026-02-17", a.LoadSelectedDate(ctx, "2026-02-17"))
	assert.Nil(t, a.LoadSession(ctx))
}

func TestAdapter_RoundTrip(t *testing.T) {
	a, _ := newTestAdapter(t)
	ctx := context.Background()

	events := model.SeedEvents()
	a.SaveEvents(ctx, events)
	assert.Equal(t, events, a.LoadEvents(ctx, nil))

	operators := model.SeedOperators()
	a.SaveOperators(ctx, operators)
	assert.Equal(t, operators, a.LoadOperators(ctx, nil))

	a.SaveSelectedDate(ctx, "2026-03-01")
	assert.Equal(t, "2026-03-01", a.LoadSelectedDate(ctx, "2026-02-17"))

	at := time.Date(2026, 2, 17, 8, 30, 0, 0, time.UTC)
	a.SaveSession(ctx, model.SessionData{Role: model.RoleCompilatoreB, AuthenticatedAt: at})
	s := a.LoadSession(ctx)
	require.NotNil(t, s)
	assert.Equal(t, model.RoleCompilatoreB, s.Role)
	assert.True(t, at.Equal(s.AuthenticatedAt))
}

func TestAdapter_EmptyCollectionRoundTrip(t *testing.T) {
	a, store := newTestAdapter(t)
	ctx := context.Background()

	a.SaveEvents(ctx, nil)
	raw, found, _ := store.Get(ctx, a.Keys().Events)
	require.True(t, found)
	assert.Equal(t, "[]", raw)
	assert.Empty(t, a.LoadEvents(ctx, model.SeedEvents()))
}

func TestAdapter_CorruptValuesFallBack(t *testing.T) {
	a, store := newTestAdapter(t)
	ctx := context.Background()
	fallback := model.SeedEvents()

	cases := map[string]string{
		"invalid json":  "{not json",
		"object":        `{"id":"x"}`,
		"null":          "null",
		"number":        "42",
		"wrong element": `[{"id":1}]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, a.Keys().Events, raw))
			assert.Equal(t, fallback, a.LoadEvents(ctx, fallback))
		})
	}

	require.NoError(t, store.Set(ctx, a.Keys().Session, `{"role":"ADMIN","authenticatedAt":"2026-02-17T08:00:00Z"}`))
	assert.Nil(t, a.LoadSession(ctx), "unknown role must read as absent")

	require.NoError(t, store.Set(ctx, a.Keys().Session, `garbage`))
	assert.Nil(t, a.LoadSession(ctx))

	require.NoError(t, store.Set(ctx, a.Keys().SelectedDate, "yesterday"))
	assert.Equal(t, "2026-02-17", a.LoadSelectedDate(ctx, "2026-02-17"))

	require.NoError(t, store.Set(ctx, a.Keys().SelectedDate, `"2026-04-02"`))
	assert.Equal(t, "2026-04-02", a.LoadSelectedDate(ctx, "2026-02-17"))
}

func TestAdapter_UnserializableSaveKeepsPreviousValue(t *testing.T) {
	a, store := newTestAdapter(t)
	ctx := context.Background()

	good := model.SeedEvents()
	a.SaveEvents(ctx, good)
	before, _, _ := store.Get(ctx, a.Keys().Events)

	bad := []model.OperationalEvent{{ID: "x", Date: "2026-02-17", Extra: map[string]any{"score": math.Inf(1)}}}
	assert.NotPanics(t, func() { a.SaveEvents(ctx, bad) })

	after, _, _ := store.Get(ctx, a.Keys().Events)
	assert.Equal(t, before, after)
	assert.Equal(t, good, a.LoadEvents(ctx, nil))

	ops := []model.Operator{{ID: "op", Name: "n", Extra: map[string]any{"ch": make(chan int)}}}
	a.SaveOperators(ctx, ops)
	_, found, _ := store.Get(ctx, a.Keys().Operators)
	assert.False(t, found)
}

func TestAdapter_UnavailableStore(t *testing.T) {
	ctx := context.Background()
	fallback := model.SeedOperators()

	for name, a := range map[string]*Adapter{
		"nil store":     NewAdapter(nil, testNamespace, nil),
		"failing store": NewAdapter(failingStore{}, testNamespace, nil),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				a.SaveOperators(ctx, fallback)
				a.SaveSelectedDate(ctx, "2026-02-18")
				a.ClearSession(ctx)
				a.ClearAll(ctx)
			})
			assert.Equal(t, fallback, a.LoadOperators(ctx, fallback))
			assert.Equal(t, "2026-02-17", a.LoadSelectedDate(ctx, "2026-02-17"))
			assert.Nil(t, a.LoadSession(ctx))
		})
	}
}

func TestAdapter_ClearSessionAndClearAll(t *testing.T) {
	a, store := newTestAdapter(t)
	ctx := context.Background()

	a.SaveEvents(ctx, model.SeedEvents())
	a.SaveOperators(ctx, model.SeedOperators())
	a.SaveSelectedDate(ctx, "2026-02-17")
	a.SaveSession(ctx, model.SessionData{Role: model.RoleCompilatoreA, AuthenticatedAt: time.Now()})
	require.NoError(t, store.Set(ctx, "other:key", "kept"))

	a.ClearSession(ctx)
	assert.Nil(t, a.LoadSession(ctx))
	assert.Equal(t, 4, store.Len())

	a.ClearAll(ctx)
	assert.Equal(t, 1, store.Len())
	v, found, _ := store.Get(ctx, "other:key")
	assert.True(t, found)
	assert.Equal(t, "kept", v)
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, found, err := s.Get(context.Background(), "nope")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.False(t, errors.Is(err, ErrUnavailable))
}
