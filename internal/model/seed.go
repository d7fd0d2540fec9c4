package model

// SeedDate the day the bundled demo roster refers to
const SeedDate = "2026-02-17"

// SeedEvents demo events used when nothing has been stored yet.
// A fresh slice is returned on every call.
func SeedEvents() []OperationalEvent {
	return []OperationalEvent{
		{
			ID:   "ev-001",
			Date: SeedDate,
			Extra: map[string]any{
				"title":     "Turno A - Sede centrale",
				"type":      "TURNO",
				"shift":     "08:00-20:00",
				"location":  "Sede Centrale",
				"operators": []any{"op-001", "op-002"},
			},
		},
		{
			ID:   "ev-002",
			Date: SeedDate,
			Extra: map[string]any{
				"title":     "Servizio di vigilanza - Teatro",
				"type":      "VIGILANZA",
				"shift":     "19:00-24:00",
				"location":  "Teatro alla Scala",
				"operators": []any{"op-003"},
			},
		},
	}
}

// SeedOperators demo roster used when nothing has been stored yet
func SeedOperators() []Operator {
	return []Operator{
		{ID: "op-001", Name: "Rossi Mario", Extra: map[string]any{"qualification": "CS", "squad": "A"}},
		{ID: "op-002", Name: "Bianchi Luca", Extra: map[string]any{"qualification": "VP", "squad": "A"}},
		{ID: "op-003", Name: "Verdi Giulia", Extra: map[string]any{"qualification": "VF", "squad": "B"}},
	}
}
