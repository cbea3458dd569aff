package match

import "sort"

// CanonicalGroup is one equivalence class of records judged to be the same
// question: the union-find component over accepted candidate edges plus the
// exact-key partitions it connects.
type CanonicalGroup struct {
	// Partitions are the merged exact-key clusters, ordered by
	// representative ID.
	Partitions []*Partition

	// MemberIDs are all record IDs in the group, sorted.
	MemberIDs []string
}

// AcceptedEdge is an accepted pair of partition representatives, as resolved
// from the decision ledger's most recent verdicts.
type AcceptedEdge struct {
	RepA string
	RepB string
}

// Merge applies accepted edges over the exact partitions and returns the
// final canonical groups. The result is a deterministic function of the
// partition set and the edge set: unions commute, so replaying decisions in
// a different order across runs cannot change the outcome.
//
// Edges referencing unknown representatives (e.g. ledger entries from a
// superseded ingestion) are skipped; a stale ledger never fails the build.
// Consistency between manual decisions is not checked here — an accept that
// a reviewer would contradict is visible only in the resulting group.
func Merge(partitions []*Partition, accepted []AcceptedEdge) []CanonicalGroup {
	byRep := make(map[string]*Partition, len(partitions))
	reps := make([]string, 0, len(partitions))
	for _, p := range partitions {
		byRep[p.RepID()] = p
		reps = append(reps, p.RepID())
	}

	uf := NewUnionFind(reps)
	for _, e := range accepted {
		if !uf.Contains(e.RepA) || !uf.Contains(e.RepB) {
			continue
		}
		uf.Union(e.RepA, e.RepB)
	}

	var groups []CanonicalGroup
	for _, component := range uf.Components() {
		var g CanonicalGroup
		for _, rep := range component {
			part := byRep[rep]
			g.Partitions = append(g.Partitions, part)
			g.MemberIDs = append(g.MemberIDs, part.MemberIDs()...)
		}
		sort.Strings(g.MemberIDs)
		groups = append(groups, g)
	}
	return groups
}
