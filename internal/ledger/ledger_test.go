package ledger

import (
	"strings"
	"testing"

	"somlib/kanon/internal/db"
	"somlib/kanon/internal/match"
)

func setupLedger(t *testing.T) *Ledger {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database)
}

func edge(a, b string, sim float64, label match.PartitionLabel) match.CandidateEdge {
	return match.CandidateEdge{
		ID:         match.EdgeID(a, b),
		RepA:       a,
		RepB:       b,
		Similarity: sim,
		Label:      label,
	}
}

func TestRecordEdges_Idempotent(t *testing.T) {
	led := setupLedger(t)
	edges := []match.CandidateEdge{
		edge("r1", "r2", 0.9, match.LabelDisjointWaves),
		edge("r2", "r3", 0.88, match.LabelOverlappingWaves),
	}

	added, err := led.RecordEdges(edges)
	if err != nil {
		t.Fatal(err)
	}
	if added != 2 {
		t.Errorf("first run should add 2 edges, got %d", added)
	}

	added, err = led.RecordEdges(edges)
	if err != nil {
		t.Fatal(err)
	}
	if added != 0 {
		t.Errorf("re-running the matcher must not re-add edges, got %d", added)
	}
}

func TestDecide_UnknownEdge(t *testing.T) {
	led := setupLedger(t)
	if _, err := led.Decide("nope", VerdictAccept, SourceHuman); err == nil {
		t.Error("deciding an unrecorded edge should fail")
	} else if !strings.Contains(err.Error(), "unknown candidate edge") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecide_InvalidVerdict(t *testing.T) {
	led := setupLedger(t)
	if _, err := led.Decide("r1|r2", "maybe", SourceHuman); err == nil {
		t.Error("invalid verdict should fail")
	}
}

func TestDecide_LaterVerdictSupersedes(t *testing.T) {
	led := setupLedger(t)
	e := edge("r1", "r2", 0.9, match.LabelDisjointWaves)
	if _, err := led.RecordEdges([]match.CandidateEdge{e}); err != nil {
		t.Fatal(err)
	}

	if _, err := led.Decide(e.ID, VerdictAccept, SourceHuman); err != nil {
		t.Fatal(err)
	}
	if _, err := led.Decide(e.ID, VerdictReject, SourceHuman); err != nil {
		t.Fatal(err)
	}

	latest, err := led.LatestVerdicts()
	if err != nil {
		t.Fatal(err)
	}
	if latest[e.ID].Verdict != VerdictReject {
		t.Errorf("re-review must supersede: want reject, got %s", latest[e.ID].Verdict)
	}

	// History keeps both for audit.
	history, err := led.History(e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 recorded decisions, got %d", len(history))
	}

	accepted, err := led.AcceptedEdges()
	if err != nil {
		t.Fatal(err)
	}
	if len(accepted) != 0 {
		t.Errorf("superseded accept must not resolve, got %v", accepted)
	}
}

func TestProposed_ExcludesDecided(t *testing.T) {
	led := setupLedger(t)
	e1 := edge("r1", "r2", 0.9, match.LabelDisjointWaves)
	e2 := edge("r3", "r4", 0.95, match.LabelOverlappingWaves)
	if _, err := led.RecordEdges([]match.CandidateEdge{e1, e2}); err != nil {
		t.Fatal(err)
	}
	if _, err := led.Decide(e1.ID, VerdictAccept, SourceHuman); err != nil {
		t.Fatal(err)
	}

	proposed, err := led.Proposed("")
	if err != nil {
		t.Fatal(err)
	}
	if len(proposed) != 1 || proposed[0].ID != e2.ID {
		t.Errorf("only the undecided edge should be proposed, got %v", proposed)
	}

	overlapping, err := led.Proposed(match.LabelOverlappingWaves)
	if err != nil {
		t.Fatal(err)
	}
	if len(overlapping) != 1 {
		t.Errorf("label filter should keep the overlapping edge, got %d", len(overlapping))
	}
	disjoint, err := led.Proposed(match.LabelDisjointWaves)
	if err != nil {
		t.Fatal(err)
	}
	if len(disjoint) != 0 {
		t.Errorf("decided disjoint edge should not be proposed, got %d", len(disjoint))
	}
}

func TestAutoAccept_DisjointOnly(t *testing.T) {
	led := setupLedger(t)
	edges := []match.CandidateEdge{
		edge("r1", "r2", 0.97, match.LabelDisjointWaves),
		edge("r3", "r4", 0.90, match.LabelDisjointWaves),
		// Overlapping at perfect similarity: must never be auto-accepted.
		edge("r5", "r6", 1.0, match.LabelOverlappingWaves),
	}
	if _, err := led.RecordEdges(edges); err != nil {
		t.Fatal(err)
	}

	accepted, err := led.AutoAccept(match.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if accepted != 1 {
		t.Fatalf("only the disjoint edge above 0.95 should auto-accept, got %d", accepted)
	}

	latest, err := led.LatestVerdicts()
	if err != nil {
		t.Fatal(err)
	}
	d, ok := latest[match.EdgeID("r1", "r2")]
	if !ok || d.Verdict != VerdictAccept || d.Source != SourceNone {
		t.Errorf("auto-accept should record a rule-supplied accept, got %+v", d)
	}
	if _, decided := latest[match.EdgeID("r5", "r6")]; decided {
		t.Error("overlapping-waves edge must stay undecided")
	}
}

func TestAutoAccept_Disabled(t *testing.T) {
	led := setupLedger(t)
	if _, err := led.RecordEdges([]match.CandidateEdge{
		edge("r1", "r2", 1.0, match.LabelDisjointWaves),
	}); err != nil {
		t.Fatal(err)
	}

	cfg := match.DefaultConfig()
	cfg.AutoAcceptThreshold = 0
	accepted, err := led.AutoAccept(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if accepted != 0 {
		t.Errorf("auto-accept disabled should accept nothing, got %d", accepted)
	}
}

func TestAutoAccept_DoesNotRedecide(t *testing.T) {
	led := setupLedger(t)
	e := edge("r1", "r2", 0.99, match.LabelDisjointWaves)
	if _, err := led.RecordEdges([]match.CandidateEdge{e}); err != nil {
		t.Fatal(err)
	}
	if _, err := led.Decide(e.ID, VerdictReject, SourceHuman); err != nil {
		t.Fatal(err)
	}

	accepted, err := led.AutoAccept(match.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if accepted != 0 {
		t.Error("a human reject must not be overridden by the auto-accept rule")
	}
}

func TestEdges_ReviewOrdering(t *testing.T) {
	led := setupLedger(t)
	if _, err := led.RecordEdges([]match.CandidateEdge{
		edge("r1", "r2", 0.86, match.LabelDisjointWaves),
		edge("r3", "r4", 0.99, match.LabelDisjointWaves),
		edge("r5", "r6", 0.92, match.LabelOverlappingWaves),
	}); err != nil {
		t.Fatal(err)
	}

	edges, err := led.Edges()
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	if edges[0].Similarity < edges[1].Similarity || edges[1].Similarity < edges[2].Similarity {
		t.Errorf("edges should come back in descending similarity: %v", edges)
	}
}
