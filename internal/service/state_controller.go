package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vvf-listone/internal/model"
	"vvf-listone/internal/storage"
)

// ── state errors ──

var (
	ErrInvalidDate   = errors.New("date must be YYYY-MM-DD")
	ErrInvalidScreen = errors.New("unknown screen")
	ErrInvalidEvent  = errors.New("invalid event")
	ErrInvalidRoster = errors.New("invalid operator roster")
	ErrEventNotFound = errors.New("event not found")
)

// StateSnapshot read-only copy of the controller state
type StateSnapshot struct {
	Events        []model.OperationalEvent
	Operators     []model.Operator
	SelectedDate  string
	EditingEvent  *model.OperationalEvent
	Screen        model.ScreenType
	Role          model.UserRole
	Session       *model.SessionData
	Authenticated bool
}

// StateService the actions the HTTP layer drives; implemented by *StateController
type StateService interface {
	Snapshot(ctx context.Context) StateSnapshot
	Events() []model.OperationalEvent
	EventsForDate(date string) []model.OperationalEvent
	EventByID(id string) (model.OperationalEvent, error)
	Operators() []model.Operator
	SelectedDate() string

	SaveEvent(ctx context.Context, ev model.OperationalEvent) (model.OperationalEvent, error)
	SetEvents(ctx context.Context, events []model.OperationalEvent) error
	StartEdit(ev model.OperationalEvent)
	CancelEdit()
	SetScreen(screen model.ScreenType) error
	SetOperators(ctx context.Context, operators []model.Operator) error
	SetSelectedDate(ctx context.Context, date string) error

	Login(ctx context.Context, role model.UserRole) (model.SessionData, error)
	Logout(ctx context.Context)
	SetRole(ctx context.Context, role model.UserRole) (model.SessionData, error)

	ResetData(ctx context.Context)
}

var _ StateService = (*StateController)(nil)

// StateController owns the roster state and is the only writer to the storage adapter.
//
// Events, operators and the selected date are persisted as whole snapshots on
// every change. The editing cursor and the active screen live in memory only.
// Each action holds the lock for its whole duration, so concurrent requests
// observe it as a single step.
type StateController struct {
	mu sync.Mutex

	store    *storage.Adapter
	sessions SessionService
	logger   *zap.Logger
	now      func() time.Time

	events       []model.OperationalEvent
	operators    []model.Operator
	selectedDate string
	editing      *model.OperationalEvent
	screen       model.ScreenType
	role         model.UserRole
}

// NewStateController creates the controller and restores persisted state
func NewStateController(ctx context.Context, store *storage.Adapter, sessions SessionService, logger *zap.Logger) *StateController {
	c := &StateController{
		store:    store,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
	c.Restore(ctx)
	return c
}

// Restore reloads everything from storage, falling back to the seed roster
func (c *StateController) Restore(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restoreLocked(ctx)
}

func (c *StateController) restoreLocked(ctx context.Context) {
	c.events = c.store.LoadEvents(ctx, model.SeedEvents())
	c.operators = c.store.LoadOperators(ctx, model.SeedOperators())
	c.selectedDate = c.store.LoadSelectedDate(ctx, c.defaultDateLocked())
	c.editing = nil
	c.screen = model.ScreenDashboard
	c.role = model.DefaultRole
	if sess := c.sessions.LoadSession(ctx); sess != nil {
		c.role = sess.Role
	}

	c.logger.Info("roster state restored",
		zap.Int("events", len(c.events)),
		zap.Int("operators", len(c.operators)),
		zap.String("selected_date", c.selectedDate),
	)
}

// defaultDateLocked first known event's date, otherwise today
func (c *StateController) defaultDateLocked() string {
	for _, e := range c.events {
		if model.IsISODate(e.Date) {
			return e.Date
		}
	}
	return c.now().Format(model.ISODate)
}

// ── reads ──

// Snapshot returns a copy of the whole state
func (c *StateController) Snapshot(ctx context.Context) StateSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := StateSnapshot{
		Events:       model.CloneEvents(c.events),
		Operators:    model.CloneOperators(c.operators),
		SelectedDate: c.selectedDate,
		Screen:       c.screen,
		Role:         c.role,
	}
	if c.editing != nil {
		ev := c.editing.Clone()
		snap.EditingEvent = &ev
	}
	snap.Session = c.sessions.LoadSession(ctx)
	snap.Authenticated = snap.Session != nil
	return snap
}

// Events returns a copy of the events, newest first
func (c *StateController) Events() []model.OperationalEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneEvents(c.events)
}

// EventsForDate dashboard filter on one calendar day
func (c *StateController) EventsForDate(date string) []model.OperationalEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.FilterByDate(c.events, date)
}

// EventByID finds an event of the collection
func (c *StateController) EventByID(id string) (model.OperationalEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e.ID == id {
			return e.Clone(), nil
		}
	}
	return model.OperationalEvent{}, ErrEventNotFound
}

// Operators returns a copy of the roster
func (c *StateController) Operators() []model.Operator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.CloneOperators(c.operators)
}

// SelectedDate the dashboard cursor
func (c *StateController) SelectedDate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedDate
}

// ── events ──

// SaveEvent stores the event coming back from the creation screen.
//
// With an edit in progress the event replaces the element with the same id
// (an empty id inherits the edited event's id); otherwise it is prepended, so
// the newest event is always at index 0. The selected date follows the saved
// event, the view returns to the dashboard and the editing cursor is cleared.
func (c *StateController) SaveEvent(ctx context.Context, ev model.OperationalEvent) (model.OperationalEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !model.IsISODate(ev.Date) {
		return model.OperationalEvent{}, fmt.Errorf("%w: %w", ErrInvalidEvent, ErrInvalidDate)
	}
	ev = ev.Clone()

	if c.editing != nil {
		if ev.ID == "" {
			ev.ID = c.editing.ID
		}
		replaced := false
		next := make([]model.OperationalEvent, len(c.events))
		for i, existing := range c.events {
			if existing.ID == ev.ID {
				next[i] = ev
				replaced = true
				continue
			}
			next[i] = existing
		}
		if !replaced {
			c.logger.Warn("edited event no longer in collection, nothing replaced", zap.String("event_id", ev.ID))
		}
		c.events = next
	} else {
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		c.events = append([]model.OperationalEvent{ev}, c.events...)
	}
	c.store.SaveEvents(ctx, c.events)

	c.setSelectedDateLocked(ctx, ev.Date)
	c.screen = model.ScreenDashboard
	c.editing = nil

	return ev.Clone(), nil
}

// SetEvents replaces the whole collection (dashboard bulk edits)
func (c *StateController) SetEvents(ctx context.Context, events []model.OperationalEvent) error {
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if e.ID == "" || seen[e.ID] || !model.IsISODate(e.Date) {
			return fmt.Errorf("%w: id %q date %q", ErrInvalidEvent, e.ID, e.Date)
		}
		seen[e.ID] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = model.CloneEvents(events)
	c.store.SaveEvents(ctx, c.events)
	return nil
}

// ── editing cursor ──

// StartEdit opens ev in the creation screen
func (c *StateController) StartEdit(ev model.OperationalEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ev = ev.Clone()
	c.editing = &ev
	c.screen = model.ScreenCreazione
}

// CancelEdit drops the editing cursor without touching the collections
func (c *StateController) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.screen = model.ScreenDashboard
}

// NavigateToCreate opens an empty creation screen
func (c *StateController) NavigateToCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = nil
	c.screen = model.ScreenCreazione
}

// SetScreen switches view; the creation screen always starts empty
func (c *StateController) SetScreen(screen model.ScreenType) error {
	if !screen.Valid() {
		return ErrInvalidScreen
	}
	if screen == model.ScreenCreazione {
		c.NavigateToCreate()
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen = screen
	return nil
}

// ── operators ──

// SetOperators replaces the whole roster
func (c *StateController) SetOperators(ctx context.Context, operators []model.Operator) error {
	seen := make(map[string]bool, len(operators))
	for _, o := range operators {
		if o.ID == "" || seen[o.ID] {
			return fmt.Errorf("%w: id %q", ErrInvalidRoster, o.ID)
		}
		seen[o.ID] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.operators = model.CloneOperators(operators)
	c.store.SaveOperators(ctx, c.operators)
	return nil
}

// ── selected date ──

// SetSelectedDate moves the dashboard cursor
func (c *StateController) SetSelectedDate(ctx context.Context, date string) error {
	if !model.IsISODate(date) {
		return ErrInvalidDate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setSelectedDateLocked(ctx, date)
	return nil
}

func (c *StateController) setSelectedDateLocked(ctx context.Context, date string) {
	c.selectedDate = date
	c.store.SaveSelectedDate(ctx, date)
}

// ── session ──

// Login sets the role, persists the session and shows the dashboard
func (c *StateController) Login(ctx context.Context, role model.UserRole) (model.SessionData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.sessions.SaveSession(ctx, role)
	if err != nil {
		return model.SessionData{}, err
	}
	c.role = role
	c.screen = model.ScreenDashboard

	c.logger.Info("login", zap.String("role", string(role)))
	return sess, nil
}

// Logout clears the session, shows the dashboard and drops any edit in progress
func (c *StateController) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions.ClearSession(ctx)
	c.screen = model.ScreenDashboard
	c.editing = nil

	c.logger.Info("logout", zap.String("role", string(c.role)))
}

// SetRole switches role within an active session; the session is re-stamped
func (c *StateController) SetRole(ctx context.Context, role model.UserRole) (model.SessionData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessions.LoadSession(ctx) == nil {
		return model.SessionData{}, ErrNotAuthenticated
	}
	sess, err := c.sessions.SaveSession(ctx, role)
	if err != nil {
		return model.SessionData{}, err
	}
	c.role = role
	return sess, nil
}

// IsAuthenticated derived from session presence
func (c *StateController) IsAuthenticated(ctx context.Context) bool {
	return c.sessions.IsAuthenticated(ctx)
}

// ── maintenance ──

// ResetData wipes every stored key and reloads the seed roster
func (c *StateController) ResetData(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.ClearAll(ctx)
	c.restoreLocked(ctx)
}
