package nbastats

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rosterguru/rosterguru-data/internal/provider"
)

// Players fetches the full player list for a season, including players no
// longer on a roster.
func (c *Client) Players(ctx context.Context, season string) ([]provider.PlayerProfile, error) {
	params := url.Values{
		"LeagueID":            {"00"},
		"Season":              {season},
		"IsOnlyCurrentSeason": {"0"},
	}

	resp, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, fmt.Errorf("fetch players list: %w", err)
	}

	var players []provider.PlayerProfile
	for _, r := range resp.ResultSets[0].rows() {
		id, ok := r.int("PERSON_ID")
		if !ok {
			continue
		}
		active := true
		if v, ok := r.float("IS_ACTIVE"); ok {
			active = v != 0
		}
		players = append(players, provider.PlayerProfile{
			NBAPlayerID: id,
			Name:        r.string("DISPLAY_FIRST_LAST"),
			Team:        r.string("TEAM_ABBREVIATION"),
			IsActive:    active,
		})
	}

	c.logger.Info("retrieved players list", "season", season, "players", len(players))
	return players, nil
}
