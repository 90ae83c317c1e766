// Package bot implements the computer opponent. The policy is a greedy
// one-ply search: because the reducer is pure, every candidate action
// can be scored by applying it to the current state and evaluating the
// result, without ever touching the live game.
package bot

import (
	"github.com/ashtagame/ashta-server-go/internal/game"
)

// Brain is the interface all bot strategies implement. NextAction
// returns the next action the bot wants to dispatch for the current
// player; ok is false when the bot has nothing to do (not its turn, or
// the game is over).
type Brain interface {
	NextAction(s *game.GameState) (game.Action, bool)
}

// StandardBot is the default greedy strategy. It is deterministic:
// the same state always produces the same action, which keeps bot
// games replayable.
type StandardBot struct{}

// New returns the default strategy.
func New() *StandardBot {
	return &StandardBot{}
}

// Evaluation weights. Progress is measured in path indices, so the
// weights put a capture roughly on par with a five-cell advance.
const (
	winScore          = 100000
	heroFinishedScore = 90000
	heroProgressUnit  = 12
	enemyHeroUnit     = 9
	supportFieldBonus = 30
	supportUnit       = 4
	portalBonus       = 25
	heroHomePenalty   = 60
)

// NextAction picks the highest scoring legal action for the current
// player. The turn is driven one action at a time; the caller loops
// until the turn passes to another player.
func (b *StandardBot) NextAction(s *game.GameState) (game.Action, bool) {
	if s == nil || s.Phase == game.PhaseGameOver || len(s.Players) == 0 {
		return game.Action{}, false
	}
	player := s.CurrentPlayer()
	if !s.TurnReady {
		return game.Action{Type: game.ActionStartTurn, PlayerID: player.ID}, true
	}

	switch s.Phase {
	case game.PhaseSelectCard:
		return b.pickCard(s)
	case game.PhaseSelectAction:
		return b.pickAction(s)
	case game.PhasePortalChoice:
		return b.pickPortalChoice(s)
	case game.PhaseSelectPushTarget:
		return b.pickPushTarget(s)
	}
	return game.Action{}, false
}

// pickCard scores every held card by the best follow-up action it
// enables. A card with no legal follow-up scores as a refresh.
func (b *StandardBot) pickCard(s *game.GameState) (game.Action, bool) {
	player := s.CurrentPlayer()
	hand := s.Hands[player.ID]

	// A free push first, if one is clearly profitable.
	if push, ok := b.profitablePush(s); ok {
		return push, true
	}

	best := game.Action{Type: game.ActionRefreshHand, PlayerID: player.ID}
	bestScore := evaluate(s, player.ID) // refresh keeps the board as is
	found := false
	for _, card := range hand.Held {
		selected := game.Reduce(s, game.Action{
			Type: game.ActionSelectCard, PlayerID: player.ID, CardID: card.ID,
		})
		if selected == s {
			continue
		}
		if _, score, ok := b.bestFollowUp(selected); ok && (!found || score > bestScore) {
			best = game.Action{Type: game.ActionSelectCard, PlayerID: player.ID, CardID: card.ID}
			bestScore = score
			found = true
		}
	}
	return best, true
}

// pickAction chooses among the card-consuming actions for the already
// selected card. If the selection turned out to be dead, the card is
// unselected so pickCard can recover with a refresh.
func (b *StandardBot) pickAction(s *game.GameState) (game.Action, bool) {
	player := s.CurrentPlayer()
	if action, _, ok := b.bestFollowUp(s); ok {
		return action, true
	}
	return game.Action{Type: game.ActionUnselectCard, PlayerID: player.ID}, true
}

// bestFollowUp enumerates the card-consuming actions legal in the
// given select_action state and returns the best by resulting score.
func (b *StandardBot) bestFollowUp(s *game.GameState) (game.Action, int, bool) {
	player := s.CurrentPlayer()
	var candidates []game.Action

	candidates = append(candidates,
		game.Action{Type: game.ActionEnterPiece, PlayerID: player.ID},
		game.Action{Type: game.ActionEnterPiece, PlayerID: player.ID, ViaPortal: true},
	)
	for _, p := range s.Pieces {
		if p.PlayerID == player.ID && !p.Finished && p.Pos != nil {
			candidates = append(candidates,
				game.Action{Type: game.ActionMovePiece, PlayerID: player.ID, PieceID: p.ID})
		}
	}
	for _, st := range game.SupportTypes {
		candidates = append(candidates,
			game.Action{Type: game.ActionSummonSupport, PlayerID: player.ID, Support: st},
			game.Action{Type: game.ActionSummonSupport, PlayerID: player.ID, Support: st, ViaPortal: true},
		)
	}
	for _, cell := range game.StealablePortals(s) {
		candidates = append(candidates,
			game.Action{Type: game.ActionStealPortal, PlayerID: player.ID, Cell: cell})
	}

	var best game.Action
	bestScore, found := 0, false
	for _, a := range candidates {
		next := game.Reduce(s, a)
		if next == s {
			continue
		}
		score := evaluate(next, player.ID)
		if !found || score > bestScore {
			best, bestScore, found = a, score, true
		}
	}
	return best, bestScore, found
}

func (b *StandardBot) pickPortalChoice(s *game.GameState) (game.Action, bool) {
	player := s.CurrentPlayer()
	claim := game.Reduce(s, game.Action{Type: game.ActionClaimPortal, PlayerID: player.ID})
	skip := game.Reduce(s, game.Action{Type: game.ActionSkipPortal, PlayerID: player.ID})
	if claim == s {
		return game.Action{Type: game.ActionSkipPortal, PlayerID: player.ID}, skip != s
	}
	if skip == s || evaluate(claim, player.ID) >= evaluate(skip, player.ID) {
		return game.Action{Type: game.ActionClaimPortal, PlayerID: player.ID}, true
	}
	return game.Action{Type: game.ActionSkipPortal, PlayerID: player.ID}, true
}

func (b *StandardBot) pickPushTarget(s *game.GameState) (game.Action, bool) {
	player := s.CurrentPlayer()
	base := evaluate(s, player.ID)
	var best game.Action
	bestScore, found := 0, false
	for _, id := range game.PushTargets(s, s.AbilityPiece) {
		a := game.Action{Type: game.ActionExecutePush, PlayerID: player.ID, PieceID: id}
		next := game.Reduce(s, a)
		if next == s {
			continue
		}
		score := evaluate(next, player.ID)
		if !found || score > bestScore {
			best, bestScore, found = a, score, true
		}
	}
	if !found || bestScore <= base {
		return game.Action{Type: game.ActionCancelAbility, PlayerID: player.ID}, true
	}
	return best, true
}

// profitablePush checks whether activating an idle Pusher leads to a
// push that strictly improves the position. It activates only then;
// the targeting phase re-scores and can still cancel.
func (b *StandardBot) profitablePush(s *game.GameState) (game.Action, bool) {
	if s.PusherUsed {
		return game.Action{}, false
	}
	player := s.CurrentPlayer()
	base := evaluate(s, player.ID)
	roster := s.Rosters[player.ID]
	if roster == nil {
		return game.Action{}, false
	}
	for _, id := range roster.OnField {
		piece, ok := s.PieceByID(id)
		if !ok || piece.Support != game.SupportPusher {
			continue
		}
		activate := game.Action{Type: game.ActionActivatePusher, PlayerID: player.ID, PieceID: id}
		armed := game.Reduce(s, activate)
		if armed == s {
			continue
		}
		for _, target := range game.PushTargets(armed, id) {
			pushed := game.Reduce(armed, game.Action{
				Type: game.ActionExecutePush, PlayerID: player.ID, PieceID: target,
			})
			if pushed != armed && evaluate(pushed, player.ID) > base {
				return activate, true
			}
		}
	}
	return game.Action{}, false
}

// evaluate scores a state from one player's perspective. Higher is
// better for that player.
func evaluate(s *game.GameState, playerID string) int {
	if s.Winner != "" {
		if s.Winner == playerID {
			return winScore
		}
		return -winScore
	}

	score := 0
	for _, p := range s.Pieces {
		mine := p.PlayerID == playerID
		switch {
		case p.Kind == game.KindHero && p.Finished:
			if mine {
				score += heroFinishedScore
			} else {
				score -= heroFinishedScore
			}
		case p.Kind == game.KindHero && p.Pos != nil:
			if mine {
				score += (p.PathIndex + 1) * heroProgressUnit
			} else {
				score -= (p.PathIndex + 1) * enemyHeroUnit
			}
		case p.Kind == game.KindHero:
			// at home
			if mine {
				score -= heroHomePenalty
			} else {
				score += heroHomePenalty
			}
		case p.Pos != nil:
			if mine {
				score += supportFieldBonus + p.PathIndex*supportUnit
			} else {
				score -= supportFieldBonus + p.PathIndex*supportUnit
			}
		}
	}

	for _, player := range s.Players {
		if _, claimed := s.Portals[player.Color]; claimed {
			if player.ID == playerID {
				score += portalBonus
			} else {
				score -= portalBonus
			}
		}
	}
	return score
}
