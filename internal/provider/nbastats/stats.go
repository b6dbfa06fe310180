package nbastats

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rosterguru/rosterguru-data/internal/provider"
)

// Per-mode values accepted by leaguedashplayerstats.
const (
	PerModeGame   = "PerGame"
	PerModePer36  = "Per36"
	PerModeTotals = "Totals"
)

// Filters drops marginal players before scoring: a ten-minute bench cameo
// distorts the reference population far more than it informs it.
type Filters struct {
	MinGamesPlayed    float64
	MinMinutesPerGame float64
}

// statColumns maps canonical stat fields to leaguedashplayerstats Base
// measure headers.
var statColumns = []struct {
	field  string
	header string
}{
	{"games_played", "GP"},
	{"games_started", "GS"},
	{"minutes_per_game", "MIN"},
	{"field_goals_made", "FGM"},
	{"field_goals_attempted", "FGA"},
	{"field_goal_percentage", "FG_PCT"},
	{"three_pointers_made", "FG3M"},
	{"three_pointers_attempted", "FG3A"},
	{"three_point_percentage", "FG3_PCT"},
	{"free_throws_made", "FTM"},
	{"free_throws_attempted", "FTA"},
	{"free_throw_percentage", "FT_PCT"},
	{"offensive_rebounds", "OREB"},
	{"defensive_rebounds", "DREB"},
	{"total_rebounds", "REB"},
	{"assists", "AST"},
	{"steals", "STL"},
	{"blocks", "BLK"},
	{"turnovers", "TOV"},
	{"personal_fouls", "PF"},
	{"points", "PTS"},
	{"plus_minus", "PLUS_MINUS"},
}

// SeasonStats fetches the Base measure of leaguedashplayerstats for one
// season and per-mode. A nil Filters keeps every player.
func (c *Client) SeasonStats(ctx context.Context, season, perMode, seasonType string, filters *Filters) ([]provider.SeasonStats, error) {
	params := dashboardParams(season, perMode, seasonType, "Base")

	resp, err := c.get(ctx, "leaguedashplayerstats", params)
	if err != nil {
		return nil, fmt.Errorf("fetch season stats: %w", err)
	}

	var stats []provider.SeasonStats
	for _, r := range resp.ResultSets[0].rows() {
		if filters != nil {
			gp, _ := r.float("GP")
			min, _ := r.float("MIN")
			if gp < filters.MinGamesPlayed || min < filters.MinMinutesPerGame {
				continue
			}
		}

		playerID, ok := r.int("PLAYER_ID")
		if !ok {
			continue
		}

		line := provider.SeasonStats{
			NBAPlayerID: playerID,
			Name:        r.string("PLAYER_NAME"),
			Team:        r.string("TEAM_ABBREVIATION"),
			Stats:       make(map[string]float64, len(statColumns)),
		}
		for _, col := range statColumns {
			if v, ok := r.float(col.header); ok {
				line.Stats[col.field] = v
			}
		}
		stats = append(stats, line)
	}

	c.logger.Info("retrieved season stats",
		"season", season, "per_mode", perMode, "players", len(stats))
	return stats, nil
}

// AdvancedStats holds the Advanced measure fields merged into per-game
// records.
type AdvancedStats struct {
	TrueShootingPct float64
	UsagePct        float64
}

// AdvancedStats fetches the Advanced measure and returns it keyed by NBA
// player ID.
func (c *Client) AdvancedStats(ctx context.Context, season, perMode, seasonType string) (map[int]AdvancedStats, error) {
	params := dashboardParams(season, perMode, seasonType, "Advanced")

	resp, err := c.get(ctx, "leaguedashplayerstats", params)
	if err != nil {
		return nil, fmt.Errorf("fetch advanced stats: %w", err)
	}

	advanced := make(map[int]AdvancedStats)
	for _, r := range resp.ResultSets[0].rows() {
		playerID, ok := r.int("PLAYER_ID")
		if !ok {
			continue
		}
		ts, _ := r.float("TS_PCT")
		usg, _ := r.float("USG_PCT")
		advanced[playerID] = AdvancedStats{TrueShootingPct: ts, UsagePct: usg}
	}

	c.logger.Info("retrieved advanced stats", "season", season, "players", len(advanced))
	return advanced, nil
}

// dashboardParams builds the full leaguedashplayerstats parameter set.
// The endpoint requires every key to be present, even when empty.
func dashboardParams(season, perMode, seasonType, measureType string) url.Values {
	return url.Values{
		"College":          {""},
		"Conference":       {""},
		"Country":          {""},
		"DateFrom":         {""},
		"DateTo":           {""},
		"Division":         {""},
		"DraftPick":        {""},
		"DraftYear":        {""},
		"GameScope":        {""},
		"GameSegment":      {""},
		"Height":           {""},
		"LastNGames":       {"0"},
		"LeagueID":         {"00"},
		"Location":         {""},
		"MeasureType":      {measureType},
		"Month":            {"0"},
		"OpponentTeamID":   {"0"},
		"Outcome":          {""},
		"PORound":          {"0"},
		"PaceAdjust":       {"N"},
		"PerMode":          {perMode},
		"Period":           {"0"},
		"PlayerExperience": {""},
		"PlayerPosition":   {""},
		"PlusMinus":        {"N"},
		"Rank":             {"N"},
		"Season":           {season},
		"SeasonSegment":    {""},
		"SeasonType":       {seasonType},
		"ShotClockRange":   {""},
		"StarterBench":     {""},
		"TeamID":           {"0"},
		"TwoWay":           {"0"},
		"VsConference":     {""},
		"VsDivision":       {""},
		"Weight":           {""},
	}
}
