package zscore

import (
	"math"
	"sort"
	"strings"
)

// Rankings and percentiles are derived, never persisted state: each call
// recomputes fully from the score columns, so they are safe to invoke
// repeatedly with different keys without re-running CalculateZScores.

// OverallRankings returns the records sorted by composite score, best
// first, with a 1-based overall_rank assigned. Ties keep input order.
func (c *Calculator) OverallRankings(records []Record) []Record {
	return rankBy(records, TotalScoreKey, "overall_rank")
}

// CategoryRankings ranks by a single category's z-score into
// <category>_rank.
func (c *Calculator) CategoryRankings(records []Record, category string) []Record {
	return rankBy(records, ScoreKey(category), category+"_rank")
}

// PositionRankings filters to records whose position matches
// (case-insensitively), then ranks that subset by composite score into
// <position>_rank (lowercased).
func (c *Calculator) PositionRankings(records []Record, position string) []Record {
	var subset []Record
	for _, r := range records {
		if strings.EqualFold(r.Position, position) {
			subset = append(subset, r)
		}
	}
	if len(subset) == 0 {
		return nil
	}
	return rankBy(subset, TotalScoreKey, strings.ToLower(position)+"_rank")
}

func rankBy(records []Record, scoreKey, rankField string) []Record {
	if len(records) == 0 {
		return nil
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score(scoreKey) > sorted[j].Score(scoreKey)
	})
	for i := range sorted {
		ranks := make(map[string]int, len(sorted[i].Ranks)+1)
		for k, v := range sorted[i].Ranks {
			ranks[k] = v
		}
		ranks[rankField] = i + 1
		sorted[i].Ranks = ranks
	}
	return sorted
}

// CalculatePercentiles derives each player's percentile (0–100, one
// decimal) within the batch for every scored category and for the
// composite, using fractional average ranking: tied values share the mean
// of the positions they span.
func (c *Calculator) CalculatePercentiles(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		pct := make(map[string]float64, len(c.cfg.Categories)+1)
		for k, v := range records[i].Percentiles {
			pct[k] = v
		}
		out[i].Percentiles = pct
	}

	for _, cat := range c.cfg.Categories {
		key := ScoreKey(cat)
		if _, ok := out[0].Scores[key]; !ok {
			continue
		}
		assignPercentiles(out, key, cat+"_percentile")
	}
	if _, ok := out[0].Scores[TotalScoreKey]; ok {
		assignPercentiles(out, TotalScoreKey, "overall_percentile")
	}
	return out
}

// assignPercentiles rounds half away from zero (math.Round), not to even:
// the lowest of 16 distinct scores sits at exactly 6.25 and rounds to 6.3,
// where round-to-even would give 6.2. Stored values depend on this, so
// keep math.Round.
func assignPercentiles(out []Record, scoreKey, field string) {
	n := len(out)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return out[order[a]].Score(scoreKey) < out[order[b]].Score(scoreKey)
	})

	for start := 0; start < n; {
		end := start
		for end+1 < n && out[order[end+1]].Score(scoreKey) == out[order[start]].Score(scoreKey) {
			end++
		}
		// 1-based positions start+1..end+1 averaged across the tie run.
		avgRank := float64(start+end+2) / 2
		pct := math.Round(avgRank/float64(n)*1000) / 10
		for k := start; k <= end; k++ {
			out[order[k]].Percentiles[field] = pct
		}
		start = end + 1
	}
}
