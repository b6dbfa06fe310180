// Package provider defines canonical data types that all collectors
// normalize into. These structs are the contract between API clients and
// the load/scoring pipeline — collectors output these, the seed layer
// scores them and writes them to Postgres.
//
// Adding a new data source means implementing functions that return these
// types; the pipeline and schema never change.
package provider

// PlayerProfile is the canonical player identity shape written to the
// players table. NBA and ESPN collectors each fill the fields they know;
// the pipeline merges them by player name.
type PlayerProfile struct {
	NBAPlayerID  int      `json:"nba_player_id,omitempty"`
	ESPNPlayerID string   `json:"espn_player_id,omitempty"`
	Name         string   `json:"player_name"`
	FirstName    string   `json:"first_name,omitempty"`
	LastName     string   `json:"last_name,omitempty"`
	Team         string   `json:"team_abbreviation,omitempty"`
	Positions    []string `json:"positions,omitempty"`
	IsActive     bool     `json:"is_active"`
	InjuryStatus string   `json:"injury_status,omitempty"`
}

// SeasonStats is the canonical shape for one player's season statistic
// line in a single stat mode. Stats is a flat map of field name → numeric
// value; an absent key is a value the source did not report.
type SeasonStats struct {
	NBAPlayerID int                `json:"nba_player_id"`
	Name        string             `json:"player_name"`
	Team        string             `json:"team_abbreviation"`
	Stats       map[string]float64 `json:"stats"`
}

// StatFields is the ordered list of raw stat fields carried by every stat
// table and CSV layout. Collectors populate the subset their source
// reports; the rest persist as NULL / blank.
var StatFields = []string{
	"games_played",
	"games_started",
	"minutes_per_game",
	"field_goals_made",
	"field_goals_attempted",
	"field_goal_percentage",
	"three_pointers_made",
	"three_pointers_attempted",
	"three_point_percentage",
	"free_throws_made",
	"free_throws_attempted",
	"free_throw_percentage",
	"offensive_rebounds",
	"defensive_rebounds",
	"total_rebounds",
	"assists",
	"steals",
	"blocks",
	"turnovers",
	"personal_fouls",
	"points",
	"plus_minus",
	"true_shooting_percentage",
	"usage_percentage",
}
