// Package zscore converts raw per-player box-score statistics into
// normalized, weighted, composite fantasy-value scores and rankings.
//
// A batch is a homogeneous set of player records for one season and one
// stat mode (per-game, per-36, or totals). The calculator estimates each
// category's mean and standard deviation from an elite reference
// population (the top/bottom 40% of the batch) rather than the full
// batch, so replacement-level players do not compress the scale.
// Shooting percentages are impact-weighted by attempt volume before
// normalizing.
package zscore

import (
	"log/slog"
	"math"
)

// TotalScoreKey is the derived-field name of the weighted composite score.
const TotalScoreKey = "zscore_total"

// ScoreKey returns the derived-field name for a category's z-score.
func ScoreKey(category string) string {
	return "zscore_" + category
}

// Config is the calculator's static configuration. It is read-only after
// construction; there is no module-level state.
type Config struct {
	// Categories is the ordered set of stat fields to score.
	Categories []string

	// NegativeCategories are scored with a lower-is-better orientation
	// (reference population drawn from the bottom quantile) and their
	// finished score column is flipped so every score reads
	// higher-is-better.
	NegativeCategories []string

	// Weights drive composite aggregation. The sign documents direction;
	// only the absolute value is used.
	Weights map[string]float64

	// RateStats maps a percentage category to its paired attempts field.
	// These categories are impact-weighted instead of scored on the raw
	// percentage.
	RateStats map[string]string

	// MinSampleSize is the smallest batch worth scoring. Smaller batches
	// are returned unchanged with a warning: a quantile-based reference
	// population is statistically meaningless below this size.
	MinSampleSize int
}

// DefaultConfig returns the standard nine-category fantasy configuration.
func DefaultConfig() Config {
	return Config{
		Categories: []string{
			"points",
			"total_rebounds",
			"assists",
			"steals",
			"blocks",
			"turnovers",
			"field_goal_percentage",
			"free_throw_percentage",
			"three_pointers_made",
		},
		NegativeCategories: []string{"turnovers"},
		Weights: map[string]float64{
			"points":                1.0,
			"total_rebounds":        1.0,
			"assists":               1.0,
			"steals":                1.0,
			"blocks":                1.0,
			"turnovers":             -1.0,
			"field_goal_percentage": 0.5,
			"free_throw_percentage": 0.3,
			"three_pointers_made":   0.8,
		},
		RateStats: map[string]string{
			"field_goal_percentage": "field_goals_attempted",
			"free_throw_percentage": "free_throws_attempted",
		},
		MinSampleSize: 20,
	}
}

func (c Config) isNegative(category string) bool {
	for _, n := range c.NegativeCategories {
		if n == category {
			return true
		}
	}
	return false
}

// Record is one player's raw statistic line for a single season and stat
// mode, plus the derived fields the calculator adds. Raw fields live in
// Stats; an absent key is a missing value. The calculator never drops a
// record and never writes into Stats.
type Record struct {
	PlayerID int
	Name     string
	Team     string
	Position string
	Season   string

	// Stats holds the raw stat fields keyed by field name.
	Stats map[string]float64

	// Scores holds zscore_<category> fields and zscore_total.
	Scores map[string]float64

	// Ranks holds overall_rank, <category>_rank, and <position>_rank.
	Ranks map[string]int

	// Percentiles holds <category>_percentile and overall_percentile.
	Percentiles map[string]float64
}

// Stat returns a raw stat value and whether it is present.
func (r Record) Stat(field string) (float64, bool) {
	v, ok := r.Stats[field]
	return v, ok
}

// Score returns a derived score, or 0 if the record has not been scored
// for that key.
func (r Record) Score(key string) float64 {
	return r.Scores[key]
}

// Calculator computes z-scores and derived rankings for record batches.
// It is stateless between calls and safe for concurrent use on
// independent batches.
type Calculator struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Calculator with the given configuration. A nil logger
// falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{cfg: cfg, logger: logger}
}

// CalculateZScores scores a batch, returning records augmented with one
// zscore_<category> field per configured category plus zscore_total. The
// player set is unchanged; all derived values are finite. Batches smaller
// than MinSampleSize are returned as-is with a warning — a silent no-op,
// not an error.
func (c *Calculator) CalculateZScores(records []Record) []Record {
	if len(records) < c.cfg.MinSampleSize {
		c.logger.Warn("sample size below minimum, returning unscored",
			"size", len(records), "min", c.cfg.MinSampleSize)
		return records
	}

	out := make([]Record, len(records))
	copy(out, records)
	for i := range out {
		scores := make(map[string]float64, len(c.cfg.Categories)+1)
		for k, v := range records[i].Scores {
			scores[k] = v
		}
		out[i].Scores = scores
	}

	for _, cat := range c.cfg.Categories {
		if !fieldPresent(out, cat) {
			c.logger.Warn("category not found in batch", "category", cat)
			continue
		}
		if attemptsField, ok := c.cfg.RateStats[cat]; ok {
			c.scoreRateCategory(out, cat, attemptsField)
		} else {
			c.scoreCountingCategory(out, cat)
		}
	}

	// Lower-is-better categories keep their raw orientation through the
	// category pass; the finished column is flipped here, on top of the
	// bottom-quantile reference population already applied above. Exact
	// zeros stay zero.
	for _, cat := range c.cfg.NegativeCategories {
		key := ScoreKey(cat)
		for i := range out {
			if z, ok := out[i].Scores[key]; ok && z != 0 {
				out[i].Scores[key] = -z
			}
		}
	}

	c.compositeScores(out)

	c.logger.Info("calculated z-scores", "players", len(out))
	return out
}

// scoreCountingCategory scores a non-rate category against an elite
// reference population. Missing values count as 0.
func (c *Calculator) scoreCountingCategory(out []Record, category string) {
	values := make([]float64, len(out))
	for i := range out {
		if v, ok := out[i].Stats[category]; ok {
			values[i] = v
		}
	}

	var ref []float64
	if c.cfg.isNegative(category) {
		// Lower is better: the elite subset is the bottom 40%.
		cutoff := Quantile(values, 0.4)
		for _, v := range values {
			if v <= cutoff {
				ref = append(ref, v)
			}
		}
	} else {
		cutoff := Quantile(values, 0.6)
		for _, v := range values {
			if v >= cutoff {
				ref = append(ref, v)
			}
		}
	}

	// A reference subset of size 0 or 1 cannot estimate a standard
	// deviation; fall back to the full batch.
	var mean, std float64
	if len(ref) > 1 {
		mean, std = MeanStdDev(ref)
	} else {
		mean, std = MeanStdDev(values)
	}

	key := ScoreKey(category)
	if std == 0 {
		c.logger.Warn("zero standard deviation, z-scores set to 0", "category", category)
		for i := range out {
			out[i].Scores[key] = 0
		}
		return
	}

	for i := range out {
		out[i].Scores[key] = (values[i] - mean) / std
	}
}

// scoreRateCategory impact-weights a shooting percentage: a player's
// deviation from the league mean percentage is scaled by attempt volume
// before normalizing, so 50% on 15 attempts outranks 60% on 2. Players
// without a positive percentage and attempts value are invalid for the
// category and score 0.
func (c *Calculator) scoreRateCategory(out []Record, category, attemptsField string) {
	key := ScoreKey(category)
	for i := range out {
		out[i].Scores[key] = 0
	}

	var valid []int
	var pctSum float64
	for i := range out {
		pct, okPct := out[i].Stats[category]
		att, okAtt := out[i].Stats[attemptsField]
		if okPct && okAtt && pct > 0 && att > 0 {
			valid = append(valid, i)
			pctSum += pct
		}
	}
	if len(valid) == 0 {
		c.logger.Warn("no valid players for rate category", "category", category)
		return
	}

	meanPct := pctSum / float64(len(valid))
	impacts := make([]float64, len(valid))
	for j, i := range valid {
		impacts[j] = (out[i].Stats[category] - meanPct) * out[i].Stats[attemptsField]
	}

	meanImpact, stdImpact := MeanStdDev(impacts)
	if stdImpact == 0 {
		c.logger.Warn("zero impact deviation, z-scores set to 0", "category", category)
		return
	}

	for j, i := range valid {
		out[i].Scores[key] = (impacts[j] - meanImpact) / stdImpact
	}
}

// compositeScores writes the |weight|-normalized aggregate into
// zscore_total. Only categories that were scored in this batch and carry
// a configured weight participate. A total weight of 0 yields 0.
func (c *Calculator) compositeScores(out []Record) {
	type weighted struct {
		key    string
		weight float64
	}
	var active []weighted
	var totalWeight float64
	for _, cat := range c.cfg.Categories {
		w, ok := c.cfg.Weights[cat]
		if !ok {
			continue
		}
		key := ScoreKey(cat)
		if _, scored := out[0].Scores[key]; !scored {
			continue
		}
		active = append(active, weighted{key: key, weight: math.Abs(w)})
		totalWeight += math.Abs(w)
	}

	for i := range out {
		if totalWeight == 0 {
			out[i].Scores[TotalScoreKey] = 0
			continue
		}
		var sum float64
		for _, a := range active {
			sum += out[i].Scores[a.key] * a.weight
		}
		out[i].Scores[TotalScoreKey] = sum / totalWeight
	}
}

// fieldPresent reports whether any record in the batch carries the field.
func fieldPresent(records []Record, field string) bool {
	for i := range records {
		if _, ok := records[i].Stats[field]; ok {
			return true
		}
	}
	return false
}
