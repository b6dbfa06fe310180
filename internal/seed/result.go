// Package seed orchestrates the ingest pipeline: collect season stats,
// score them, and upsert the results into Postgres.
package seed

import (
	"fmt"
	"sort"
)

// Result tracks counts and errors from a seeding operation.
type Result struct {
	PlayersUpserted int
	StatsUpserted   map[string]int // rows written, keyed by stat table
	RanksUpdated    int
	Errors          []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.PlayersUpserted += other.PlayersUpserted
	for table, n := range other.StatsUpserted {
		r.addStats(table, n)
	}
	r.RanksUpdated += other.RanksUpdated
	r.Errors = append(r.Errors, other.Errors...)
}

// AddError records an error message.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) addStats(table string, n int) {
	if r.StatsUpserted == nil {
		r.StatsUpserted = make(map[string]int)
	}
	r.StatsUpserted[table] += n
}

// Summary returns a human-readable summary of the seed operation.
func (r *Result) Summary() string {
	tables := make([]string, 0, len(r.StatsUpserted))
	for table := range r.StatsUpserted {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	s := fmt.Sprintf("players=%d", r.PlayersUpserted)
	for _, table := range tables {
		s += fmt.Sprintf(" %s=%d", table, r.StatsUpserted[table])
	}
	s += fmt.Sprintf(" ranks=%d errors=%d", r.RanksUpdated, len(r.Errors))
	return s
}
