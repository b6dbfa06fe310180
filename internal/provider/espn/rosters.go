package espn

import (
	"context"
	"fmt"

	"github.com/rosterguru/rosterguru-data/internal/provider"
)

type teamsResponse struct {
	Sports []struct {
		Leagues []struct {
			Teams []struct {
				Team struct {
					ID           string `json:"id"`
					Abbreviation string `json:"abbreviation"`
				} `json:"team"`
			} `json:"teams"`
		} `json:"leagues"`
	} `json:"sports"`
}

type rosterResponse struct {
	Athletes []struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Active      bool   `json:"active"`
		Position    struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"position"`
		Status struct {
			Type string `json:"type"`
		} `json:"status"`
	} `json:"athletes"`
}

// fantasyPositions maps ESPN roster position abbreviations to the fantasy
// position slots a player is eligible for.
var fantasyPositions = map[string][]string{
	"PG": {"PG"},
	"SG": {"SG"},
	"SF": {"SF"},
	"PF": {"PF"},
	"C":  {"C"},
	"G":  {"PG", "SG"},
	"F":  {"SF", "PF"},
	"GF": {"SG", "SF"},
	"FC": {"PF", "C"},
}

// PlayersWithPositions walks every NBA team roster and returns the
// players ESPN lists, with their fantasy position eligibility. A failed
// roster fetch skips that team rather than aborting the sweep.
func (c *Client) PlayersWithPositions(ctx context.Context) ([]provider.PlayerProfile, error) {
	var teams teamsResponse
	if err := c.get(ctx, "/teams", &teams); err != nil {
		return nil, fmt.Errorf("fetch NBA teams: %w", err)
	}
	if len(teams.Sports) == 0 || len(teams.Sports[0].Leagues) == 0 {
		return nil, fmt.Errorf("unexpected teams response shape")
	}

	var players []provider.PlayerProfile
	for _, entry := range teams.Sports[0].Leagues[0].Teams {
		team := entry.Team
		if team.ID == "" {
			continue
		}

		var roster rosterResponse
		if err := c.get(ctx, "/teams/"+team.ID+"/roster", &roster); err != nil {
			c.logger.Warn("skipping team roster", "team", team.Abbreviation, "error", err)
			continue
		}

		for _, athlete := range roster.Athletes {
			if athlete.DisplayName == "" || athlete.Position.Abbreviation == "" {
				continue
			}
			positions, ok := fantasyPositions[athlete.Position.Abbreviation]
			if !ok {
				positions = []string{athlete.Position.Abbreviation}
			}
			players = append(players, provider.PlayerProfile{
				ESPNPlayerID: athlete.ID,
				Name:         athlete.DisplayName,
				FirstName:    athlete.FirstName,
				LastName:     athlete.LastName,
				Team:         team.Abbreviation,
				Positions:    positions,
				IsActive:     athlete.Active,
				InjuryStatus: athlete.Status.Type,
			})
		}
		c.logger.Debug("fetched team roster", "team", team.Abbreviation)
	}

	c.logger.Info("retrieved players with positions", "players", len(players))
	return players, nil
}
