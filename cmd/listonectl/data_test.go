package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vvf-listone/internal/model"
	"vvf-listone/internal/storage"
)

func newTestAdapter() (*storage.Adapter, *storage.MemoryStore) {
	mem := storage.NewMemoryStore()
	return storage.NewAdapter(mem, "vvfm_prototipo_v1", zap.NewNop()), mem
}

func TestRunEventsList(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter()

	var out bytes.Buffer
	require.NoError(t, runEventsList(ctx, a, "", &out))
	assert.Contains(t, out.String(), "seed roster in use")

	events := append([]model.OperationalEvent{{ID: "ev-new", Date: "2026-02-18", Extra: map[string]any{"title": "Nuovo"}}}, model.SeedEvents()...)
	a.SaveEvents(ctx, events)

	out.Reset()
	require.NoError(t, runEventsList(ctx, a, "", &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "ev-new"), "newest first")
	assert.Equal(t, "3 events", lines[4])

	out.Reset()
	require.NoError(t, runEventsList(ctx, a, model.SeedDate, &out))
	assert.NotContains(t, out.String(), "ev-new")
	assert.Contains(t, out.String(), "2 events")
}

func TestRunSessionShow(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAdapter()

	var out bytes.Buffer
	require.NoError(t, runSessionShow(ctx, a, &out))
	assert.Equal(t, "no active session\n", out.String())

	a.SaveSession(ctx, model.SessionData{Role: model.RoleCompilatoreB, AuthenticatedAt: time.Date(2026, 2, 17, 8, 0, 0, 0, time.UTC)})
	out.Reset()
	require.NoError(t, runSessionShow(ctx, a, &out))
	assert.Contains(t, out.String(), "role: COMPILATORE_B")
	assert.Contains(t, out.String(), "2026-02-17T08:00:00Z")
}

func TestRunClearAndKeys(t *testing.T) {
	ctx := context.Background()
	a, mem := newTestAdapter()
	a.SaveSelectedDate(ctx, "2026-02-17")
	a.SaveOperators(ctx, model.SeedOperators())

	var out bytes.Buffer
	require.NoError(t, runKeys(ctx, mem, a.Keys(), &out))
	assert.Contains(t, out.String(), "vvfm_prototipo_v1:selectedDate  10")
	assert.Contains(t, out.String(), "vvfm_prototipo_v1:events")

	out.Reset()
	require.NoError(t, runClear(ctx, a, &out))
	assert.Equal(t, "cleared 4 keys\n", out.String())
	assert.Zero(t, mem.Len())
}
