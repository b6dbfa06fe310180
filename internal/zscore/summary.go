package zscore

// CategorySummary describes the distribution of one raw category across a
// batch. Missing values count as 0, matching the scoring pass.
type CategorySummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// CompositeSummary describes the distribution of the composite score.
type CompositeSummary struct {
	Mean           float64 `json:"mean"`
	StdDev         float64 `json:"std"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	Top10Threshold float64 `json:"top_10_threshold"`
}

// Summary is a statistical overview of a batch, useful for sanity-checking
// a season before or after scoring.
type Summary struct {
	TotalPlayers int                        `json:"total_players"`
	Categories   map[string]CategorySummary `json:"categories"`
	Composite    *CompositeSummary          `json:"zscore_summary,omitempty"`
}

// Summarize computes per-category distribution stats and, if the batch has
// been scored, a composite-score summary with the top-10% threshold.
func (c *Calculator) Summarize(records []Record) Summary {
	s := Summary{Categories: make(map[string]CategorySummary)}
	if len(records) == 0 {
		return s
	}
	s.TotalPlayers = len(records)

	for _, cat := range c.cfg.Categories {
		if !fieldPresent(records, cat) {
			continue
		}
		values := make([]float64, len(records))
		for i := range records {
			if v, ok := records[i].Stats[cat]; ok {
				values[i] = v
			}
		}
		mean, std := MeanStdDev(values)
		s.Categories[cat] = CategorySummary{
			Mean:   mean,
			StdDev: std,
			Min:    minOf(values),
			Max:    maxOf(values),
			Median: Quantile(values, 0.5),
		}
	}

	if _, ok := records[0].Scores[TotalScoreKey]; ok {
		totals := make([]float64, len(records))
		for i := range records {
			totals[i] = records[i].Score(TotalScoreKey)
		}
		mean, std := MeanStdDev(totals)
		s.Composite = &CompositeSummary{
			Mean:           mean,
			StdDev:         std,
			Min:            minOf(totals),
			Max:            maxOf(totals),
			Top10Threshold: Quantile(totals, 0.9),
		}
	}
	return s
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
