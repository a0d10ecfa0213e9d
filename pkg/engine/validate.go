package engine

import (
	"fmt"

	dm "github.com/hooplytics/traderadar/pkg/model"
)

// Validate rejects malformed proposals before they reach evaluation. It
// returns a *model.InvalidProposalError when a player or asset appears on
// both sides of the trade, or when a side gives up nothing.
func Validate(p *dm.TradeProposal) error {
	if p == nil || len(p.Sides) < 2 {
		return &dm.InvalidProposalError{Reason: "a trade needs at least two sides"}
	}

	givenBy := map[string]string{}    // asset id -> team giving it
	receivedBy := map[string]string{} // asset id -> team receiving it

	for _, side := range p.Sides {
		if side.Team == "" {
			return &dm.InvalidProposalError{Reason: "every side must name a team"}
		}
		if len(side.PlayersGiven) == 0 && len(side.DraftAssets) == 0 {
			return &dm.InvalidProposalError{Reason: fmt.Sprintf("side %s has zero assets", side.Team)}
		}

		sideGiven := map[string]bool{}
		for _, pl := range side.PlayersGiven {
			key := playerKey(pl.ID)
			if prev, ok := givenBy[key]; ok {
				if prev == side.Team {
					return &dm.InvalidProposalError{
						Reason: fmt.Sprintf("player %d is listed twice by %s", pl.ID, side.Team),
					}
				}
				return &dm.InvalidProposalError{
					Reason: fmt.Sprintf("player %d appears on both sides (%s and %s)", pl.ID, prev, side.Team),
				}
			}
			givenBy[key] = side.Team
			sideGiven[key] = true
		}
		for _, a := range side.DraftAssets {
			key := assetKey(a.ID)
			if prev, ok := givenBy[key]; ok {
				if prev == side.Team {
					return &dm.InvalidProposalError{
						Reason: fmt.Sprintf("draft asset %s is listed twice by %s", a.ID, side.Team),
					}
				}
				return &dm.InvalidProposalError{
					Reason: fmt.Sprintf("draft asset %s appears on both sides (%s and %s)", a.ID, prev, side.Team),
				}
			}
			givenBy[key] = side.Team
		}

		for _, pl := range side.PlayersReceived {
			key := playerKey(pl.ID)
			if sideGiven[key] {
				return &dm.InvalidProposalError{
					Reason: fmt.Sprintf("player %d is both given and received by %s", pl.ID, side.Team),
				}
			}
			if prev, ok := receivedBy[key]; ok {
				return &dm.InvalidProposalError{
					Reason: fmt.Sprintf("player %d is received by both %s and %s", pl.ID, prev, side.Team),
				}
			}
			receivedBy[key] = side.Team
		}
	}

	// Every received player must be given somewhere.
	for key, team := range receivedBy {
		if giver, ok := givenBy[key]; !ok {
			return &dm.InvalidProposalError{
				Reason: fmt.Sprintf("%s receives %s which no side gives", team, key),
			}
		} else if giver == team {
			return &dm.InvalidProposalError{
				Reason: fmt.Sprintf("player %s is both given and received by %s", key, team),
			}
		}
	}

	return nil
}

// Normalize fills in the received ledgers of a two-team proposal written in
// the shorthand "A gives X, B gives Y" form.
func Normalize(p *dm.TradeProposal) {
	if len(p.Sides) != 2 {
		return
	}
	for _, side := range p.Sides {
		if len(side.PlayersReceived) > 0 {
			return
		}
	}
	p.Sides[0].PlayersReceived = append([]dm.Player(nil), p.Sides[1].PlayersGiven...)
	p.Sides[1].PlayersReceived = append([]dm.Player(nil), p.Sides[0].PlayersGiven...)
}

func playerKey(id int64) string { return fmt.Sprintf("player:%d", id) }
func assetKey(id string) string { return "asset:" + id }
