package game

import "github.com/ashtagame/ashta-server-go/internal/game/board"

// Read-only query helpers for UI and AI consumers. None of these
// mutate state; callers use them to probe legality before dispatching.

// EffectiveSteps returns the modified step count a piece would move
// with a card of the given base value, including the escort and
// assassin bonuses.
func EffectiveSteps(s *GameState, pieceID string, base int) (int, bool) {
	if s == nil {
		return 0, false
	}
	piece, ok := s.PieceByID(pieceID)
	if !ok {
		return 0, false
	}
	return s.effectiveSteps(piece, base), true
}

// CanMovePiece reports whether the piece has a legal move (or entry,
// for a home hero) with the currently selected card.
func CanMovePiece(s *GameState, pieceID string) bool {
	_, ok := LegalDestination(s, pieceID)
	return ok
}

// LegalDestination computes where the piece would land with the
// currently selected card. Interception still counts as a legal move;
// the reported destination is then the interception cell.
func LegalDestination(s *GameState, pieceID string) (board.Position, bool) {
	if s == nil || s.Phase != PhaseSelectAction || s.SelectedCard == "" {
		return board.Position{}, false
	}
	player := s.CurrentPlayer()
	piece, ok := s.PieceByID(pieceID)
	if !ok || piece.PlayerID != player.ID || piece.Finished {
		return board.Position{}, false
	}
	card, ok := s.Hands[player.ID].Find(s.SelectedCard)
	if !ok {
		return board.Position{}, false
	}
	if piece.AtHome() {
		if piece.Kind != KindHero {
			return board.Position{}, false
		}
		out, ok := s.resolvePlacement(piece, 0)
		return out.dest, ok
	}
	out, ok := s.resolveMove(piece, s.effectiveSteps(piece, card.Value))
	if !ok {
		return board.Position{}, false
	}
	if out.intercepted {
		return out.interceptAt, true
	}
	return out.dest, true
}

// StealablePortals lists the claimed portal cells the current player
// could steal: owned by another color and occupied by a piece whose
// color differs from the owner's.
func StealablePortals(s *GameState) []board.Position {
	if s == nil || len(s.Players) == 0 {
		return nil
	}
	player := s.CurrentPlayer()
	var out []board.Position
	for _, owner := range board.Colors {
		cell, claimed := s.Portals[owner]
		if !claimed || owner == player.Color {
			continue
		}
		for _, occ := range s.PiecesAt(cell) {
			if occ.Color != owner {
				out = append(out, cell)
				break
			}
		}
	}
	return out
}

// RosterFor returns a copy of a player's support roster.
func RosterFor(s *GameState, playerID string) (SupportRoster, bool) {
	if s == nil {
		return SupportRoster{}, false
	}
	r, ok := s.Rosters[playerID]
	if !ok {
		return SupportRoster{}, false
	}
	return SupportRoster{
		Available: append([]SupportType(nil), r.Available...),
		OnField:   append([]string(nil), r.OnField...),
	}, true
}

// PushTargets lists the piece ids a given Pusher could legally push:
// any non-finished piece, of any owner, adjacent to the Pusher with an
// on-board push destination.
func PushTargets(s *GameState, pusherID string) []string {
	if s == nil {
		return nil
	}
	pusher, ok := s.PieceByID(pusherID)
	if !ok || pusher.Kind != KindSupport || pusher.Support != SupportPusher || pusher.Pos == nil {
		return nil
	}
	var out []string
	for _, p := range s.Pieces {
		if p.ID == pusher.ID || p.Finished || p.Pos == nil {
			continue
		}
		if !board.Adjacent(*pusher.Pos, *p.Pos) {
			continue
		}
		if _, ok := board.PushDestination(*pusher.Pos, *p.Pos); ok {
			out = append(out, p.ID)
		}
	}
	return out
}

// CanSummon reports whether the current player could summon the given
// support type with the currently selected card.
func CanSummon(s *GameState, t SupportType, viaPortal bool) bool {
	if s == nil || s.Phase != PhaseSelectAction || s.SelectedCard == "" {
		return false
	}
	player := s.CurrentPlayer()
	roster := s.Rosters[player.ID]
	if roster == nil || !roster.hasAvailable(t) || len(roster.OnField) >= MaxSupportsOnField {
		return false
	}
	if viaPortal {
		card, ok := s.Hands[player.ID].Find(s.SelectedCard)
		if !ok || card.Value < portalMinCardValue {
			return false
		}
		if _, claimed := s.Portals[player.Color]; !claimed {
			return false
		}
	}
	return true
}
