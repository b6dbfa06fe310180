// Package csvio reads and writes scored season stats as CSV, the exchange
// format for backfills and offline analysis. A blank cell is a missing
// value, never a zero.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rosterguru/rosterguru-data/internal/provider"
	"github.com/rosterguru/rosterguru-data/internal/seed"
	"github.com/rosterguru/rosterguru-data/internal/zscore"
)

// identity columns precede the stat and score columns in every file.
var identityColumns = []string{"player_id", "player_name", "team_abbreviation", "position", "season"}

// Header returns the full CSV column layout.
func Header() []string {
	header := make([]string, 0, len(identityColumns)+len(provider.StatFields)+len(seed.ScoreColumns)+2)
	header = append(header, identityColumns...)
	header = append(header, provider.StatFields...)
	for _, sc := range seed.ScoreColumns {
		header = append(header, sc.Column)
	}
	return append(header, "overall_rank", "overall_percentile")
}

// Export writes records to w in the canonical column layout.
func Export(w io.Writer, records []zscore.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(Header()))
	for _, rec := range records {
		row = row[:0]
		row = append(row,
			strconv.Itoa(rec.PlayerID), rec.Name, rec.Team, rec.Position, rec.Season)
		for _, field := range provider.StatFields {
			row = append(row, formatCell(rec.Stats, field))
		}
		for _, sc := range seed.ScoreColumns {
			row = append(row, formatCell(rec.Scores, sc.Key))
		}
		row = append(row, formatRank(rec.Ranks, "overall_rank"))
		row = append(row, formatCell(rec.Percentiles, "overall_percentile"))

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for player %d: %w", rec.PlayerID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Import reads a CSV produced by Export back into engine records. Columns
// are matched by header name, so column order and extra columns are
// tolerated.
func Import(r io.Reader) ([]zscore.Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"player_id", "season"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	scoreKeyByColumn := make(map[string]string, len(seed.ScoreColumns))
	for _, sc := range seed.ScoreColumns {
		scoreKeyByColumn[sc.Column] = sc.Key
	}

	var records []zscore.Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		cell := func(name string) string {
			if i, ok := col[name]; ok && i < len(row) {
				return row[i]
			}
			return ""
		}

		playerID, err := strconv.Atoi(cell("player_id"))
		if err != nil {
			return nil, fmt.Errorf("line %d: bad player_id %q", line, cell("player_id"))
		}

		rec := zscore.Record{
			PlayerID: playerID,
			Name:     cell("player_name"),
			Team:     cell("team_abbreviation"),
			Position: cell("position"),
			Season:   cell("season"),
			Stats:    make(map[string]float64),
		}
		for _, field := range provider.StatFields {
			if v, ok, err := parseCell(cell(field)); err != nil {
				return nil, fmt.Errorf("line %d: bad %s %q", line, field, cell(field))
			} else if ok {
				rec.Stats[field] = v
			}
		}
		for _, sc := range seed.ScoreColumns {
			if v, ok, err := parseCell(cell(sc.Column)); err != nil {
				return nil, fmt.Errorf("line %d: bad %s %q", line, sc.Column, cell(sc.Column))
			} else if ok {
				if rec.Scores == nil {
					rec.Scores = make(map[string]float64)
				}
				rec.Scores[scoreKeyByColumn[sc.Column]] = v
			}
		}
		if raw := cell("overall_rank"); raw != "" {
			rank, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad overall_rank %q", line, raw)
			}
			rec.Ranks = map[string]int{"overall_rank": rank}
		}
		if v, ok, err := parseCell(cell("overall_percentile")); err != nil {
			return nil, fmt.Errorf("line %d: bad overall_percentile", line)
		} else if ok {
			rec.Percentiles = map[string]float64{"overall_percentile": v}
		}

		records = append(records, rec)
	}
	return records, nil
}

func formatCell(m map[string]float64, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatRank(m map[string]int, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m[key]
	if !ok {
		return ""
	}
	return strconv.Itoa(v)
}

func parseCell(s string) (float64, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
