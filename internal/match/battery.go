package match

import (
	"sort"

	"somlib/kanon/internal/record"
)

// BatteryCluster groups battery records sharing a stem variable across waves.
// Unlike questions, batteries are identified structurally by naming
// convention, so the stem variable is part of the cluster key; the normalized
// stem text acts as a consistency check that splits false structural matches.
type BatteryCluster struct {
	Stem           string
	NormalizedText string
	Members        []*record.Record

	// SubItems is the canonical superset of member sub-items in
	// first-seen-across-waves order. Each wave keeps its own ordering in the
	// per-wave detail.
	SubItems []string
}

// ResolveBatteries clusters battery records by stem variable and normalized
// stem text. Members are ordered by wave, then variable; clusters by stem,
// then text.
func ResolveBatteries(batteries []*record.Record) []*BatteryCluster {
	type clusterKey struct {
		stem string
		text string
	}

	index := make(map[clusterKey]*BatteryCluster)
	var clusters []*BatteryCluster

	for _, rec := range batteries {
		key := clusterKey{stem: rec.StemVariable, text: rec.NormalizedText}
		c, ok := index[key]
		if !ok {
			c = &BatteryCluster{
				Stem:           rec.StemVariable,
				NormalizedText: rec.NormalizedText,
			}
			index[key] = c
			clusters = append(clusters, c)
		}
		c.Members = append(c.Members, rec)
	}

	for _, c := range clusters {
		sort.SliceStable(c.Members, func(i, j int) bool {
			if c.Members[i].Wave != c.Members[j].Wave {
				return c.Members[i].Wave < c.Members[j].Wave
			}
			return c.Members[i].Variable < c.Members[j].Variable
		})

		seen := make(map[string]bool)
		for _, m := range c.Members {
			for _, item := range m.SubItems {
				if seen[item] {
					continue
				}
				seen[item] = true
				c.SubItems = append(c.SubItems, item)
			}
		}
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Stem != clusters[j].Stem {
			return clusters[i].Stem < clusters[j].Stem
		}
		return clusters[i].NormalizedText < clusters[j].NormalizedText
	})
	return clusters
}
