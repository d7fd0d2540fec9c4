package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"vvf-listone/internal/model"
)

// Keys versioned keys of the four record kinds, fixed at startup
type Keys struct {
	Events       string
	Operators    string
	Session      string
	SelectedDate string
}

// NewKeys derives "<namespace>:<record-kind>" keys
func NewKeys(namespace string) Keys {
	return Keys{
		Events:       namespace + ":events",
		Operators:    namespace + ":operators",
		Session:      namespace + ":session",
		SelectedDate: namespace + ":selectedDate",
	}
}

// All every key owned by the adapter
func (k Keys) All() []string {
	return []string{k.Events, k.Operators, k.Session, k.SelectedDate}
}

// Adapter typed load/save over a Store.
//
// Loads never fail: a nil or failing store, a missing key, or a value that
// does not decode into the expected shape all yield the caller's fallback.
// Saves never fail either: a value that cannot be encoded, or a store write
// error, leaves the previously stored value in place. Every such case is
// logged for diagnostics only.
type Adapter struct {
	store  Store
	keys   Keys
	logger *zap.Logger
}

// NewAdapter creates an Adapter; store may be nil (no persistence available)
func NewAdapter(store Store, namespace string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{store: store, keys: NewKeys(namespace), logger: logger}
}

// Keys returns the keys the adapter reads and writes
func (a *Adapter) Keys() Keys { return a.keys }

// ── events ──

// LoadEvents returns the stored events, or fallback
func (a *Adapter) LoadEvents(ctx context.Context, fallback []model.OperationalEvent) []model.OperationalEvent {
	var events []model.OperationalEvent
	if !a.loadArray(ctx, a.keys.Events, &events) {
		return fallback
	}
	return events
}

// SaveEvents stores the whole events collection
func (a *Adapter) SaveEvents(ctx context.Context, events []model.OperationalEvent) {
	a.saveJSON(ctx, a.keys.Events, nonNil(events))
}

// ── operators ──

// LoadOperators returns the stored roster, or fallback
func (a *Adapter) LoadOperators(ctx context.Context, fallback []model.Operator) []model.Operator {
	var operators []model.Operator
	if !a.loadArray(ctx, a.keys.Operators, &operators) {
		return fallback
	}
	return operators
}

// SaveOperators stores the whole roster
func (a *Adapter) SaveOperators(ctx context.Context, operators []model.Operator) {
	a.saveJSON(ctx, a.keys.Operators, nonNil(operators))
}

// ── session ──

// LoadSession returns the current session, nil when absent or unusable
func (a *Adapter) LoadSession(ctx context.Context) *model.SessionData {
	raw, ok := a.read(ctx, a.keys.Session)
	if !ok {
		return nil
	}
	var s model.SessionData
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		a.logger.Warn("stored session is not valid JSON, ignoring", zap.String("key", a.keys.Session), zap.Error(err))
		return nil
	}
	if !s.Valid() {
		a.logger.Warn("stored session has an unexpected shape, ignoring", zap.String("key", a.keys.Session))
		return nil
	}
	return &s
}

// SaveSession stores the session
func (a *Adapter) SaveSession(ctx context.Context, s model.SessionData) {
	a.saveJSON(ctx, a.keys.Session, s)
}

// ClearSession removes the session key
func (a *Adapter) ClearSession(ctx context.Context) {
	a.remove(ctx, a.keys.Session)
}

// ── selected date ──

// LoadSelectedDate returns the stored cursor, or fallback when absent or not an ISO date.
// The value is stored as bare text; a JSON-quoted string is accepted too.
func (a *Adapter) LoadSelectedDate(ctx context.Context, fallback string) string {
	raw, ok := a.read(ctx, a.keys.SelectedDate)
	if !ok {
		return fallback
	}
	date := strings.TrimSpace(raw)
	if strings.HasPrefix(date, `"`) {
		var s string
		if err := json.Unmarshal([]byte(date), &s); err == nil {
			date = s
		}
	}
	if !model.IsISODate(date) {
		a.logger.Warn("stored selected date is not an ISO date, ignoring", zap.String("value", raw))
		return fallback
	}
	return date
}

// SaveSelectedDate stores the cursor
func (a *Adapter) SaveSelectedDate(ctx context.Context, date string) {
	a.write(ctx, a.keys.SelectedDate, date)
}

// ClearAll removes every key owned by the adapter
func (a *Adapter) ClearAll(ctx context.Context) {
	a.remove(ctx, a.keys.All()...)
}

// ── helpers ──

func (a *Adapter) read(ctx context.Context, key string) (string, bool) {
	if a.store == nil {
		return "", false
	}
	raw, found, err := a.store.Get(ctx, key)
	if err != nil {
		a.logger.Warn("storage read failed, using fallback", zap.String("key", key), zap.Error(err))
		return "", false
	}
	if !found || raw == "" {
		return "", false
	}
	return raw, true
}

// loadArray decodes key into dst and reports whether it held a JSON array
func (a *Adapter) loadArray(ctx context.Context, key string, dst any) bool {
	raw, ok := a.read(ctx, key)
	if !ok {
		return false
	}
	if !bytes.HasPrefix(bytes.TrimSpace([]byte(raw)), []byte("[")) {
		a.logger.Warn("stored value is not an array, using fallback", zap.String("key", key))
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.Warn("stored value does not decode, using fallback", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (a *Adapter) saveJSON(ctx context.Context, key string, v any) {
	if a.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		a.logger.Warn("value is not serializable, write skipped", zap.String("key", key), zap.Error(err))
		return
	}
	a.write(ctx, key, string(data))
}

func (a *Adapter) write(ctx context.Context, key, value string) {
	if a.store == nil {
		return
	}
	if err := a.store.Set(ctx, key, value); err != nil {
		a.logger.Warn("storage write failed, write skipped", zap.String("key", key), zap.Error(err))
	}
}

func (a *Adapter) remove(ctx context.Context, keys ...string) {
	if a.store == nil {
		return
	}
	if err := a.store.Delete(ctx, keys...); err != nil {
		a.logger.Warn("storage delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// nonNil keeps an empty collection encoded as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
