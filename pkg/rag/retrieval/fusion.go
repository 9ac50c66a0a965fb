package retrieval

import "sort"

// DefaultRRFConstant is the k in the reciprocal rank formula 1/(k+r+1).
const DefaultRRFConstant = 3

// FuseRanked combines ranked result lists with Reciprocal Rank Fusion.
//
// Each item at 0-based rank r in a list contributes 1/(k+r+1) to the
// summed score of its document id. A document appearing in several lists
// accumulates one contribution per list, so it always scores strictly
// higher than the same document in a single list. The returned slice is
// deduplicated by document id, keeps the payload of the first occurrence
// in list-supply order, and is sorted descending by fused score with a
// stable sort, so ties keep first-seen order. The result is not
// truncated; callers apply their limit after fusion.
func FuseRanked(k int, lists ...[]Document) []FusedDocument {
	if k <= 0 {
		k = DefaultRRFConstant
	}

	scores := make(map[string]float64)
	order := make([]string, 0)
	payloads := make(map[string]Document)

	for _, list := range lists {
		for rank, doc := range list {
			if _, seen := scores[doc.ID]; !seen {
				order = append(order, doc.ID)
				payloads[doc.ID] = doc
			}
			scores[doc.ID] += 1.0 / float64(k+rank+1)
		}
	}

	fused := make([]FusedDocument, 0, len(order))
	for _, id := range order {
		fused = append(fused, FusedDocument{
			Document:   payloads[id],
			FusedScore: scores[id],
		})
	}

	sort.SliceStable(fused, func(i, j int) bool {
		return fused[i].FusedScore > fused[j].FusedScore
	})

	return fused
}
