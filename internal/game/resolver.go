package game

import (
	"fmt"

	"github.com/ashtagame/ashta-server-go/internal/game/board"
)

// assassinBonus is the flat step bonus an Assassin support receives.
const assassinBonus = 2

// effectiveSteps computes the modified step count for a mover: the base
// card value, +1 per own Escort adjacent to a hero mover (uncapped),
// +2 flat for an Assassin mover.
func (s *GameState) effectiveSteps(p *Piece, base int) int {
	steps := base
	if p.Kind == KindHero && p.Pos != nil {
		for _, other := range s.Pieces {
			if other.PlayerID != p.PlayerID || other.Kind != KindSupport {
				continue
			}
			if other.Support != SupportEscort || other.Pos == nil || other.Finished {
				continue
			}
			if board.Adjacent(*p.Pos, *other.Pos) {
				steps++
			}
		}
	}
	if p.Kind == KindSupport && p.Support == SupportAssassin {
		steps += assassinBonus
	}
	return steps
}

// moveOutcome describes a fully validated move before it is applied.
type moveOutcome struct {
	destIndex   int
	dest        board.Position
	intercepted bool
	interceptAt board.Position
	blockerID   string
	captureID   string // occupant captured on landing, empty when none
}

// resolveMove validates a path move of steps cells and computes its
// outcome without mutating anything. Interception along intermediate
// cells pre-empts the destination entirely.
func (s *GameState) resolveMove(p *Piece, steps int) (moveOutcome, bool) {
	if p == nil || p.Finished || p.PathIndex < 0 || steps <= 0 {
		return moveOutcome{}, false
	}
	destIndex := p.PathIndex + steps
	// center must be reached by exact count
	if destIndex > board.CenterIndex {
		return moveOutcome{}, false
	}

	// Intermediate cells only: not the start, not the destination.
	for i := p.PathIndex + 1; i < destIndex; i++ {
		cell, ok := board.PathCell(p.Color, i)
		if !ok {
			return moveOutcome{}, false
		}
		for _, occ := range s.PiecesAt(cell) {
			if occ.PlayerID != p.PlayerID && occ.Kind == KindSupport && occ.Support == SupportBlocker {
				return moveOutcome{
					destIndex:   destIndex,
					intercepted: true,
					interceptAt: cell,
					blockerID:   occ.ID,
				}, true
			}
		}
	}

	dest, ok := board.PathCell(p.Color, destIndex)
	if !ok {
		return moveOutcome{}, false
	}
	captureID, ok := s.checkLanding(p, dest)
	if !ok {
		return moveOutcome{}, false
	}
	return moveOutcome{destIndex: destIndex, dest: dest, captureID: captureID}, true
}

// resolvePlacement validates placing p directly onto the cell at
// destIndex of its own path, applying the landing rules but no path
// walk. Used for entering from home.
func (s *GameState) resolvePlacement(p *Piece, destIndex int) (moveOutcome, bool) {
	dest, ok := board.PathCell(p.Color, destIndex)
	if !ok {
		return moveOutcome{}, false
	}
	captureID, ok := s.checkLanding(p, dest)
	if !ok {
		return moveOutcome{}, false
	}
	return moveOutcome{destIndex: destIndex, dest: dest, captureID: captureID}, true
}

// checkLanding applies the landing-cell conflict rules: the 2-per-cell
// cap, no stacking own pieces via movement, and capture-or-coexist for
// an opposing occupant. Safe cells protect heroes only.
func (s *GameState) checkLanding(p *Piece, dest board.Position) (captureID string, ok bool) {
	occupants := s.PiecesAt(dest)
	if len(occupants) >= 2 {
		return "", false
	}
	for _, occ := range occupants {
		if occ.PlayerID == p.PlayerID {
			return "", false
		}
		if occ.Kind == KindHero && board.IsSafe(dest) {
			continue // coexist within the cap
		}
		captureID = occ.ID
	}
	return captureID, true
}

// applyMove mutates the state with a resolved move outcome. The mover
// may itself be captured (interception), capture an occupant, die after
// capturing (Assassin), be removed on reaching center (supports), or
// finish (hero on center).
func (s *GameState) applyMove(p *Piece, out moveOutcome, actionName string, cardValue int) {
	actor, _ := s.PlayerByID(p.PlayerID)

	if out.intercepted {
		blocker, _ := s.PieceByID(out.blockerID)
		target := ""
		if blocker != nil {
			if owner, ok := s.PlayerByID(blocker.PlayerID); ok {
				target = owner.Name
			}
		}
		s.appendLog(p.PlayerID, actionName, cardValue, target,
			fmt.Sprintf("%s's %s was intercepted by a blocker at %s",
				actor.Name, pieceLabel(p), out.interceptAt))
		s.capturePiece(p)
		return
	}

	captured := false
	if out.captureID != "" {
		if victim, ok := s.PieceByID(out.captureID); ok {
			owner, _ := s.PlayerByID(victim.PlayerID)
			s.appendLog(p.PlayerID, actionName, cardValue, owner.Name,
				fmt.Sprintf("%s's %s captured %s's %s at %s",
					actor.Name, pieceLabel(p), owner.Name, pieceLabel(victim), out.dest))
			s.capturePiece(victim)
			captured = true
		}
	}

	pos := out.dest
	p.Pos = &pos
	p.PathIndex = out.destIndex

	if out.destIndex == board.CenterIndex {
		if p.Kind == KindHero {
			p.Finished = true
			s.appendLog(p.PlayerID, actionName, cardValue, "",
				fmt.Sprintf("%s's hero reached the center", actor.Name))
		} else {
			// supports cannot win or occupy center
			s.appendLog(p.PlayerID, actionName, cardValue, "",
				fmt.Sprintf("%s's %s reached the center and was returned", actor.Name, pieceLabel(p)))
			s.returnSupport(p)
		}
		return
	}

	if captured && p.Kind == KindSupport && p.Support == SupportAssassin {
		s.appendLog(p.PlayerID, actionName, cardValue, "",
			fmt.Sprintf("%s's assassin fell after striking", actor.Name))
		s.returnSupport(p)
	}
}

// capturePiece resolves a capture: a hero resets to home, a support is
// removed and its type returned to the owner's pool.
func (s *GameState) capturePiece(victim *Piece) {
	if victim.Kind == KindHero {
		victim.Pos = nil
		victim.PathIndex = -1
		return
	}
	s.returnSupport(victim)
}

// returnSupport removes a support piece from the board and returns its
// type to the owner's available pool.
func (s *GameState) returnSupport(p *Piece) {
	if roster, ok := s.Rosters[p.PlayerID]; ok {
		roster.removeDeployed(p.ID)
		roster.Available = append(roster.Available, p.Support)
	}
	s.removePiece(p.ID)
}

func pieceLabel(p *Piece) string {
	if p.Kind == KindHero {
		return "hero"
	}
	switch p.Support {
	case SupportEscort:
		return "escort"
	case SupportBlocker:
		return "blocker"
	case SupportAssassin:
		return "assassin"
	case SupportPusher:
		return "pusher"
	}
	return "support"
}
