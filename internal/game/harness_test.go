package game

import (
	"fmt"
	"testing"

	"github.com/ashtagame/ashta-server-go/internal/game/board"
)

// Test harness helpers. Scenario tests build precise board positions by
// mutating a freshly created state directly, then drive the reducer.

func setupGame(t *testing.T, players int) *GameState {
	t.Helper()
	s := Reduce(nil, Action{
		Type:        ActionResetGame,
		PlayerCount: players,
		HumanColor:  board.ColorRed,
		Seed:        42,
	})
	if s == nil {
		t.Fatal("reset game produced no state")
	}
	return s
}

// selectValue rewrites the current player's first held card to the
// given value and selects it.
func selectValue(t *testing.T, s *GameState, value int) *GameState {
	t.Helper()
	hand := s.Hands[s.CurrentPlayer().ID]
	if len(hand.Held) == 0 {
		t.Fatal("current player holds no cards")
	}
	hand.Held[0].Value = value
	next := Reduce(s, Action{Type: ActionSelectCard, CardID: hand.Held[0].ID})
	if next == s {
		t.Fatalf("selecting card %s was rejected", hand.Held[0].ID)
	}
	return next
}

// placeAt moves a piece onto index idx of its own color's path.
func placeAt(t *testing.T, s *GameState, pieceID string, idx int) {
	t.Helper()
	piece, ok := s.PieceByID(pieceID)
	if !ok {
		t.Fatalf("piece %s not found", pieceID)
	}
	pos, ok := board.PathCell(piece.Color, idx)
	if !ok {
		t.Fatalf("bad path index %d", idx)
	}
	piece.Pos = &pos
	piece.PathIndex = idx
}

// placeAtCell moves a piece onto an arbitrary cell, fixing up its path
// index for its own color.
func placeAtCell(t *testing.T, s *GameState, pieceID string, cell board.Position) {
	t.Helper()
	piece, ok := s.PieceByID(pieceID)
	if !ok {
		t.Fatalf("piece %s not found", pieceID)
	}
	idx, ok := board.PathIndexOf(piece.Color, cell)
	if !ok {
		t.Fatalf("cell %s not on %s path", cell, piece.Color)
	}
	pos := cell
	piece.Pos = &pos
	piece.PathIndex = idx
}

// addSupport deploys a support piece for the player at index idx of the
// player's path, keeping the roster invariants intact.
func addSupport(t *testing.T, s *GameState, playerID string, st SupportType, idx int) *Piece {
	t.Helper()
	player, ok := s.PlayerByID(playerID)
	if !ok {
		t.Fatalf("player %s not found", playerID)
	}
	roster := s.Rosters[playerID]
	if !roster.takeAvailable(st) {
		t.Fatalf("support %s not available for %s", st, playerID)
	}
	pos, ok := board.PathCell(player.Color, idx)
	if !ok {
		t.Fatalf("bad path index %d", idx)
	}
	s.PieceSeq++
	piece := &Piece{
		ID:        fmt.Sprintf("test-%s-%d", st, s.PieceSeq),
		PlayerID:  playerID,
		Color:     player.Color,
		Kind:      KindSupport,
		Support:   st,
		Pos:       &pos,
		PathIndex: idx,
	}
	s.Pieces = append(s.Pieces, piece)
	roster.OnField = append(roster.OnField, piece.ID)
	return piece
}

// addSupportAtCell is addSupport with an explicit cell.
func addSupportAtCell(t *testing.T, s *GameState, playerID string, st SupportType, cell board.Position) *Piece {
	t.Helper()
	player, _ := s.PlayerByID(playerID)
	idx, ok := board.PathIndexOf(player.Color, cell)
	if !ok {
		t.Fatalf("cell %s not on %s path", cell, player.Color)
	}
	p := addSupport(t, s, playerID, st, idx)
	return p
}

func heroID(t *testing.T, s *GameState, playerIdx int) string {
	t.Helper()
	hero, ok := s.HeroOf(s.Players[playerIdx].ID)
	if !ok {
		t.Fatalf("player %d has no hero", playerIdx)
	}
	return hero.ID
}

func mustApply(t *testing.T, s *GameState, a Action) *GameState {
	t.Helper()
	next := Reduce(s, a)
	if next == s {
		t.Fatalf("action %s was rejected", a.Type)
	}
	return next
}

func mustReject(t *testing.T, s *GameState, a Action) {
	t.Helper()
	if next := Reduce(s, a); next != s {
		t.Fatalf("action %s should have been rejected", a.Type)
	}
}

func checkRosterInvariants(t *testing.T, s *GameState) {
	t.Helper()
	for _, player := range s.Players {
		roster := s.Rosters[player.ID]
		if len(roster.OnField) > MaxSupportsOnField {
			t.Fatalf("%s has %d supports deployed, cap is %d",
				player.Name, len(roster.OnField), MaxSupportsOnField)
		}
		for _, id := range roster.OnField {
			piece, ok := s.PieceByID(id)
			if !ok {
				t.Fatalf("%s roster lists missing piece %s", player.Name, id)
			}
			if roster.hasAvailable(piece.Support) {
				t.Fatalf("%s type %s is both available and deployed", player.Name, piece.Support)
			}
		}
	}
	for _, p := range s.Pieces {
		if (p.Pos == nil) != (p.PathIndex == -1) {
			t.Fatalf("piece %s position/index mismatch: pos=%v index=%d", p.ID, p.Pos, p.PathIndex)
		}
		if p.Finished && (p.Pos == nil || *p.Pos != board.Center) {
			t.Fatalf("finished piece %s is not on the center cell", p.ID)
		}
	}
}
