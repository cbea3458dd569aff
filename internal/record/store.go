package record

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Store is the in-memory arena of ingested records, keyed by stable ID and
// iterated in ingestion order.
type Store struct {
	byID      map[string]*Record
	order     []string
	openLimit int
}

// NewStore creates an empty store. openLimit is the raw alternative count
// above which a question is treated as open-ended.
func NewStore(openLimit int) *Store {
	return &Store{
		byID:      make(map[string]*Record),
		openLimit: openLimit,
	}
}

// Add validates and normalizes a raw record, assigns it a fresh ID and stores
// it. Malformed records are rejected with a reason and never coerced.
func (s *Store) Add(raw RawRecord) (*Record, error) {
	if strings.TrimSpace(raw.QuestionText) == "" {
		return nil, fmt.Errorf("malformed record (variable %q, wave %d): empty question text", raw.Variable, raw.Wave)
	}
	if strings.TrimSpace(raw.Variable) == "" {
		return nil, fmt.Errorf("malformed record (wave %d): empty variable name", raw.Wave)
	}
	if raw.Wave <= 0 {
		return nil, fmt.Errorf("malformed record (variable %q): missing wave", raw.Variable)
	}

	kind := raw.Kind
	if kind == "" {
		kind = KindQuestion
	}
	if kind != KindQuestion && kind != KindBattery {
		return nil, fmt.Errorf("malformed record (variable %q, wave %d): unknown kind %q", raw.Variable, raw.Wave, raw.Kind)
	}

	rec := &Record{
		ID:             uuid.NewString(),
		Wave:           raw.Wave,
		Variable:       strings.TrimSpace(raw.Variable),
		Kind:           kind,
		RawText:        strings.TrimSpace(raw.QuestionText),
		NormalizedText: NormalizeText(raw.QuestionText),
		Alternatives:   NormalizeAlternatives(raw.Alternatives, s.openLimit),
	}
	if rec.NormalizedText == "" {
		return nil, fmt.Errorf("malformed record (variable %q, wave %d): text empty after normalization", raw.Variable, raw.Wave)
	}
	if kind == KindBattery {
		rec.SubItems = NormalizeSubItems(raw.SubItems)
		rec.StemVariable = Stem(rec.Variable)
	}

	s.insert(rec)
	return rec, nil
}

// Put inserts an already-materialized record, preserving its ID. Used when
// reloading from the durable records table.
func (s *Store) Put(rec *Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record without ID (variable %q, wave %d)", rec.Variable, rec.Wave)
	}
	if _, exists := s.byID[rec.ID]; exists {
		return fmt.Errorf("duplicate record ID %s", rec.ID)
	}
	s.insert(rec)
	return nil
}

func (s *Store) insert(rec *Record) {
	s.byID[rec.ID] = rec
	s.order = append(s.order, rec.ID)
}

// Get returns the record with the given ID, or nil.
func (s *Store) Get(id string) *Record {
	return s.byID[id]
}

// Records returns all records in ingestion order.
func (s *Store) Records() []*Record {
	out := make([]*Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Questions returns the question-kind records in ingestion order.
func (s *Store) Questions() []*Record {
	var out []*Record
	for _, id := range s.order {
		if rec := s.byID[id]; rec.Kind == KindQuestion {
			out = append(out, rec)
		}
	}
	return out
}

// Batteries returns the battery-kind records in ingestion order.
func (s *Store) Batteries() []*Record {
	var out []*Record
	for _, id := range s.order {
		if rec := s.byID[id]; rec.Kind == KindBattery {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.order)
}
