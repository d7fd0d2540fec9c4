package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ISODate layout of every calendar-day string (selected date, event date)
const ISODate = "2006-01-02"

// IsISODate reports whether s is a valid YYYY-MM-DD calendar day
func IsISODate(s string) bool {
	_, err := time.Parse(ISODate, s)
	return err == nil
}

// BaseModel audit columns shared by persisted rows
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ── free-form records ──
//
// Events and operators carry a few fields the backend relies on plus whatever
// the UI and the Listone template put next to them. Unknown keys live in an
// Extra map so that a load/save cycle never drops them.

// splitRecord decodes a JSON object, moving the named string fields into dst
// and every other key into the returned map.
func splitRecord(data []byte, dst map[string]*string) (map[string]any, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("record is not a JSON object")
	}
	for key, ptr := range dst {
		v, ok := raw[key]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("field %q: expected string, got %T", key, v)
		}
		*ptr = s
		delete(raw, key)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// joinRecord is the inverse of splitRecord; known fields win over Extra keys.
func joinRecord(extra map[string]any, known map[string]string) ([]byte, error) {
	out := make(map[string]any, len(extra)+len(known))
	for k, v := range extra {
		out[k] = v
	}
	for k, v := range known {
		out[k] = v
	}
	return json.Marshal(out)
}

func extraString(extra map[string]any, key string) string {
	if v, ok := extra[key]; ok {
		switch t := v.(type) {
		case string:
			return t
		case nil:
			return ""
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}

func cloneExtra(extra map[string]any) map[string]any {
	if extra == nil {
		return nil
	}
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}
