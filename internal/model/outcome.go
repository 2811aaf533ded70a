package model

// Outcome is the result of validating one CleanRecord: either Valid (no
// reasons) or Invalid (one or more reasons, in rule order).
type Outcome struct {
	Record  CleanRecord
	Reasons []Reason
}

// Valid reports whether the record passed every rule.
func (o Outcome) Valid() bool {
	return len(o.Reasons) == 0
}

// Kind tags a valid record as new or already known to the reference system.
type Kind string

// Classification tags.
const (
	KindNew      Kind = "I"
	KindExisting Kind = "A"
)

// ClassifiedRecord is a valid record with its classification tag.
type ClassifiedRecord struct {
	Record CleanRecord
	Kind   Kind
}

// Summary holds end-of-run counts. Neither counts raw rows that produced no
// outcome (collapsed duplicates and blank rows).
type Summary struct {
	Total    int            `json:"total"`
	Valid    int            `json:"valid"`
	Invalid  int            `json:"invalid"`
	Neither  int            `json:"neither"`
	New      int            `json:"new"`
	Existing int            `json:"existing"`
	Reasons  map[Reason]int `json:"-"`
}
