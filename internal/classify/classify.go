// Package classify tags valid records as new or existing by looking their CPF
// up in the reference system's CPF list.
package classify

import (
	"strings"

	"github.com/sells-group/roster-cli/internal/cpf"
	"github.com/sells-group/roster-cli/internal/model"
)

// ReferenceSet is the set of CPFs already known to the reference system. It
// is read-only after construction and safe for concurrent use.
type ReferenceSet struct {
	cpfs map[string]struct{}
}

// NewReferenceSet normalizes every value with cpf.Digits. Blank values are
// ignored.
func NewReferenceSet(values []string) ReferenceSet {
	s := ReferenceSet{cpfs: make(map[string]struct{}, len(values))}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		s.cpfs[cpf.Digits(v)] = struct{}{}
	}
	return s
}

// Contains reports whether the normalized form of v is in the set.
func (s ReferenceSet) Contains(v string) bool {
	_, ok := s.cpfs[cpf.Digits(v)]
	return ok
}

// Len returns the number of distinct CPFs.
func (s ReferenceSet) Len() int {
	return len(s.cpfs)
}

// Kind returns KindExisting when the CPF is in the set and KindNew otherwise.
func (s ReferenceSet) Kind(v string) model.Kind {
	if s.Contains(v) {
		return model.KindExisting
	}
	return model.KindNew
}

// Classify tags each record, preserving order.
func Classify(recs []model.CleanRecord, ref ReferenceSet) []model.ClassifiedRecord {
	out := make([]model.ClassifiedRecord, len(recs))
	for i, r := range recs {
		out[i] = model.ClassifiedRecord{Record: r, Kind: ref.Kind(r.CPF)}
	}
	return out
}
