package retrieval

import (
	"sort"

	"github.com/docquery/pdfrag/internal/storage"
)

// sortByScore orders results score-descending. Ties break on filename
// then chunk index so output is deterministic for a given result set.
func sortByScore(results []storage.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Filename != results[j].Filename {
			return results[i].Filename < results[j].Filename
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})
}

// balance caps each document's share of the result set so one verbose
// document cannot crowd the others out. With d documents represented,
// each keeps its top max(1, limit/d) hits; slots left unfilled by the
// quotas are refilled from the remaining hits in global score order.
// Only activates when the merged list exceeds limit; results must
// already be score-sorted.
func balance(results []storage.SearchResult, limit int) []storage.SearchResult {
	if len(results) <= limit {
		return results
	}

	grouped := make(map[string][]storage.SearchResult)
	var order []string
	for _, r := range results {
		if _, seen := grouped[r.Filename]; !seen {
			order = append(order, r.Filename)
		}
		grouped[r.Filename] = append(grouped[r.Filename], r)
	}

	quota := max(1, limit/len(order))

	var taken, leftover []storage.SearchResult
	for _, filename := range order {
		hits := grouped[filename]
		n := min(quota, len(hits))
		taken = append(taken, hits[:n]...)
		leftover = append(leftover, hits[n:]...)
	}

	if len(taken) < limit {
		sortByScore(leftover)
		need := min(limit-len(taken), len(leftover))
		taken = append(taken, leftover[:need]...)
	}

	sortByScore(taken)
	if len(taken) > limit {
		taken = taken[:limit]
	}
	return taken
}
