package mesh

import (
	"sort"

	"github.com/imamik/gvpc/internal/provisioning"
)

// Pair is an unordered pair of regional networks. A is the requester, B
// the accepter.
type Pair struct {
	A provisioning.NetworkRecord
	B provisioning.NetworkRecord
}

// Name returns "<a>-<b>".
func (p Pair) Name() string {
	return p.A.Region + "-" + p.B.Region
}

// Pairs returns every unordered pair of records exactly once.
//
// Zero-value records are skipped. Records are ordered by region, and pair
// (i, j) is emitted for every i < j, so a, b, c yields (a,b), (a,c), (b,c).
// N records yield N*(N-1)/2 pairs.
func Pairs(records []provisioning.NetworkRecord) []Pair {
	nodes := make([]provisioning.NetworkRecord, 0, len(records))
	for _, r := range records {
		if !r.IsZero() {
			nodes = append(nodes, r)
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Region < nodes[j].Region })

	pairs := make([]Pair, 0, len(nodes)*(len(nodes)-1)/2)
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			pairs = append(pairs, Pair{A: nodes[i], B: nodes[j]})
		}
	}
	return pairs
}
