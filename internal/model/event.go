package model

import "strings"

// OperationalEvent a duty/shift record shown on the dashboard and printed on the Listone.
// Only ID and Date are interpreted by the backend; every other key is opaque.
type OperationalEvent struct {
	ID    string
	Date  string
	Extra map[string]any
}

// MarshalJSON flattens Extra next to id/date
func (e OperationalEvent) MarshalJSON() ([]byte, error) {
	return joinRecord(e.Extra, map[string]string{"id": e.ID, "date": e.Date})
}

// UnmarshalJSON keeps unknown keys in Extra
func (e *OperationalEvent) UnmarshalJSON(data []byte) error {
	var ev OperationalEvent
	extra, err := splitRecord(data, map[string]*string{"id": &ev.ID, "date": &ev.Date})
	if err != nil {
		return err
	}
	ev.Extra = extra
	*e = ev
	return nil
}

// Field returns a free-form field rendered as text, "" when absent
func (e OperationalEvent) Field(key string) string {
	return extraString(e.Extra, key)
}

// Clone returns a copy whose Extra map can be mutated independently
func (e OperationalEvent) Clone() OperationalEvent {
	e.Extra = cloneExtra(e.Extra)
	return e
}

// Operator a staff member of the roster
type Operator struct {
	ID    string
	Name  string
	Extra map[string]any
}

// MarshalJSON flattens Extra next to id/name
func (o Operator) MarshalJSON() ([]byte, error) {
	return joinRecord(o.Extra, map[string]string{"id": o.ID, "name": o.Name})
}

// UnmarshalJSON keeps unknown keys in Extra
func (o *Operator) UnmarshalJSON(data []byte) error {
	var op Operator
	extra, err := splitRecord(data, map[string]*string{"id": &op.ID, "name": &op.Name})
	if err != nil {
		return err
	}
	op.Extra = extra
	*o = op
	return nil
}

// Field returns a free-form field rendered as text, "" when absent
func (o Operator) Field(key string) string {
	return extraString(o.Extra, key)
}

// CloneEvents copies a collection so callers cannot alias controller state
func CloneEvents(events []OperationalEvent) []OperationalEvent {
	out := make([]OperationalEvent, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	return out
}

// CloneOperators copies a collection so callers cannot alias controller state
func CloneOperators(operators []Operator) []Operator {
	out := make([]Operator, len(operators))
	for i, o := range operators {
		o.Extra = cloneExtra(o.Extra)
		out[i] = o
	}
	return out
}

// FilterByDate returns the events scheduled on date, preserving order
func FilterByDate(events []OperationalEvent, date string) []OperationalEvent {
	out := make([]OperationalEvent, 0)
	for _, e := range events {
		if strings.EqualFold(e.Date, date) {
			out = append(out, e.Clone())
		}
	}
	return out
}
