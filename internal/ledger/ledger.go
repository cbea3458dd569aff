// Package ledger persists candidate edges and their merge decisions. The
// decision log is append-style: re-deciding an edge adds a new decision that
// supersedes the old verdict, and history stays queryable for audit.
// Resolution always uses only the most recent verdict per edge.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"somlib/kanon/internal/db"
	"somlib/kanon/internal/match"
)

// Verdict is the reviewed outcome of a candidate edge.
type Verdict string

const (
	VerdictAccept Verdict = "accept"
	VerdictReject Verdict = "reject"
)

// Source identifies where a verdict came from: a human reviewer, or "none"
// for rule-supplied verdicts (the disjoint-waves auto-accept).
type Source string

const (
	SourceHuman Source = "human"
	SourceNone  Source = "none"
)

// Decision is one recorded verdict for an edge. Decisions are immutable.
type Decision struct {
	ID        string  `json:"id"`
	EdgeID    string  `json:"edge_id"`
	Verdict   Verdict `json:"verdict"`
	Source    Source  `json:"source"`
	CreatedAt int64   `json:"created_at"`
}

// Ledger reads and appends candidate edges and decisions.
type Ledger struct {
	db *db.DB
}

// New wraps a database handle.
func New(database *db.DB) *Ledger {
	return &Ledger{db: database}
}

// RecordEdges stores proposed candidate edges. Existing edges are left
// untouched, so re-running the matcher never disturbs recorded decisions.
// Returns the number of newly recorded edges.
func (l *Ledger) RecordEdges(edges []match.CandidateEdge) (int, error) {
	added := 0
	now := time.Now().UnixMilli()
	for _, e := range edges {
		res, err := l.db.Conn().Exec(`
			INSERT OR IGNORE INTO candidate_edges
				(id, record_id_a, record_id_b, similarity, partition_label, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, e.ID, e.RepA, e.RepB, e.Similarity, string(e.Label), now)
		if err != nil {
			return added, fmt.Errorf("recording edge %s: %w", e.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return added, err
		}
		added += int(n)
	}
	return added, nil
}

// Edges returns all recorded candidate edges, ordered by descending
// similarity then edge ID — the reproducible review ordering.
func (l *Ledger) Edges() ([]match.CandidateEdge, error) {
	return l.queryEdges(`
		SELECT id, record_id_a, record_id_b, similarity, partition_label
		FROM candidate_edges
		ORDER BY similarity DESC, id
	`)
}

// Proposed returns recorded edges with no decision yet, optionally filtered
// by partition label. An undecided overlapping-waves edge stays proposed
// indefinitely and is excluded from merging — "not yet known to be the same
// question" is a first-class outcome, not an error.
func (l *Ledger) Proposed(label match.PartitionLabel) ([]match.CandidateEdge, error) {
	q := `
		SELECT e.id, e.record_id_a, e.record_id_b, e.similarity, e.partition_label
		FROM candidate_edges e
		WHERE NOT EXISTS (SELECT 1 FROM merge_decisions d WHERE d.edge_id = e.id)
	`
	args := []any{}
	if label != "" {
		q += ` AND e.partition_label = ?`
		args = append(args, string(label))
	}
	q += ` ORDER BY e.similarity DESC, e.id`
	return l.queryEdges(q, args...)
}

func (l *Ledger) queryEdges(query string, args ...any) ([]match.CandidateEdge, error) {
	rows, err := l.db.Conn().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []match.CandidateEdge
	for rows.Next() {
		var e match.CandidateEdge
		var label string
		if err := rows.Scan(&e.ID, &e.RepA, &e.RepB, &e.Similarity, &label); err != nil {
			return nil, err
		}
		e.Label = match.PartitionLabel(label)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// GetEdge returns one edge by ID, or nil when unknown.
func (l *Ledger) GetEdge(edgeID string) (*match.CandidateEdge, error) {
	edges, err := l.queryEdges(`
		SELECT id, record_id_a, record_id_b, similarity, partition_label
		FROM candidate_edges WHERE id = ?
	`, edgeID)
	if err != nil {
		return nil, err
	}
	if len(edges) == 0 {
		return nil, nil
	}
	return &edges[0], nil
}

// Decide appends a verdict for an edge. The edge must be recorded. A later
// decision supersedes earlier ones for the same edge.
func (l *Ledger) Decide(edgeID string, verdict Verdict, source Source) (*Decision, error) {
	if verdict != VerdictAccept && verdict != VerdictReject {
		return nil, fmt.Errorf("invalid verdict %q", verdict)
	}
	edge, err := l.GetEdge(edgeID)
	if err != nil {
		return nil, err
	}
	if edge == nil {
		return nil, fmt.Errorf("unknown candidate edge %s", edgeID)
	}

	d := &Decision{
		ID:        uuid.NewString(),
		EdgeID:    edgeID,
		Verdict:   verdict,
		Source:    source,
		CreatedAt: time.Now().UnixMilli(),
	}
	_, err = l.db.Conn().Exec(`
		INSERT INTO merge_decisions (id, edge_id, verdict, source, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, d.ID, d.EdgeID, string(d.Verdict), string(d.Source), d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("recording decision for edge %s: %w", edgeID, err)
	}
	return d, nil
}

// LatestVerdicts returns the most recent decision per edge. History is
// retained in the table; only the last word counts for resolution.
func (l *Ledger) LatestVerdicts() (map[string]Decision, error) {
	rows, err := l.db.Conn().Query(`
		SELECT id, edge_id, verdict, source, created_at
		FROM merge_decisions
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make(map[string]Decision)
	for rows.Next() {
		var d Decision
		var verdict, source string
		if err := rows.Scan(&d.ID, &d.EdgeID, &verdict, &source, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Verdict = Verdict(verdict)
		d.Source = Source(source)
		latest[d.EdgeID] = d
	}
	return latest, rows.Err()
}

// History returns every decision ever recorded for an edge, oldest first.
func (l *Ledger) History(edgeID string) ([]Decision, error) {
	rows, err := l.db.Conn().Query(`
		SELECT id, edge_id, verdict, source, created_at
		FROM merge_decisions WHERE edge_id = ?
		ORDER BY created_at, rowid
	`, edgeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []Decision
	for rows.Next() {
		var d Decision
		var verdict, source string
		if err := rows.Scan(&d.ID, &d.EdgeID, &verdict, &source, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Verdict = Verdict(verdict)
		d.Source = Source(source)
		history = append(history, d)
	}
	return history, rows.Err()
}

// AcceptedEdges resolves the edges whose most recent verdict is accept, as
// input for the union merge.
func (l *Ledger) AcceptedEdges() ([]match.AcceptedEdge, error) {
	edges, err := l.Edges()
	if err != nil {
		return nil, err
	}
	latest, err := l.LatestVerdicts()
	if err != nil {
		return nil, err
	}

	var accepted []match.AcceptedEdge
	for _, e := range edges {
		if d, ok := latest[e.ID]; ok && d.Verdict == VerdictAccept {
			accepted = append(accepted, match.AcceptedEdge{RepA: e.RepA, RepB: e.RepB})
		}
	}
	return accepted, nil
}

// AutoAccept appends rule-supplied accepts for undecided disjoint-waves edges
// at or above the configured threshold. Overlapping-waves edges are never
// auto-accepted regardless of score: two identities sharing a wave is the
// high-risk case and always takes an explicit human verdict. Returns the
// number of edges accepted.
func (l *Ledger) AutoAccept(cfg match.Config) (int, error) {
	if cfg.AutoAcceptThreshold <= 0 {
		return 0, nil
	}

	proposed, err := l.Proposed(match.LabelDisjointWaves)
	if err != nil {
		return 0, err
	}

	accepted := 0
	for _, e := range proposed {
		if e.Similarity < cfg.AutoAcceptThreshold {
			continue
		}
		if _, err := l.Decide(e.ID, VerdictAccept, SourceNone); err != nil {
			return accepted, err
		}
		accepted++
	}
	return accepted, nil
}
