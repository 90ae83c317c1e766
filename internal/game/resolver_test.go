package game

import (
	"testing"

	"github.com/ashtagame/ashta-server-go/internal/game/board"
)

// Path geography used below (red's path, outer ring): index 10 is
// (6,5), 13 is (6,2), and 15 is the safe corner (6,0).

func TestEscortBonusPerAdjacentEscort(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 5) // (2,6)
	addSupportAtCell(t, s, red.ID, SupportEscort, board.Position{Row: 1, Col: 6})

	steps, ok := EffectiveSteps(s, hero, 3)
	if !ok || steps != 4 {
		t.Fatalf("expected 3+1 escort bonus, got %d (ok=%v)", steps, ok)
	}

	// a second adjacent escort stacks, uncapped
	pos := board.Position{Row: 2, Col: 5}
	idx, _ := board.PathIndexOf(red.Color, pos)
	s.Pieces = append(s.Pieces, &Piece{
		ID: "extra-escort", PlayerID: red.ID, Color: red.Color,
		Kind: KindSupport, Support: SupportEscort, Pos: &pos, PathIndex: idx,
	})
	steps, _ = EffectiveSteps(s, hero, 3)
	if steps != 5 {
		t.Fatalf("two adjacent escorts should give 3+2, got %d", steps)
	}

	// non-escorts and enemy escorts grant nothing
	addSupportAtCell(t, s, red.ID, SupportBlocker, board.Position{Row: 3, Col: 6})
	addSupportAtCell(t, s, s.Players[1].ID, SupportEscort, board.Position{Row: 3, Col: 5})
	steps, _ = EffectiveSteps(s, hero, 3)
	if steps != 5 {
		t.Fatalf("only own escorts grant the bonus, got %d", steps)
	}
}

func TestAssassinFlatBonus(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	assassin := addSupport(t, s, red.ID, SupportAssassin, 10)
	steps, ok := EffectiveSteps(s, assassin.ID, 2)
	if !ok || steps != 4 {
		t.Fatalf("expected 2+2 assassin bonus, got %d (ok=%v)", steps, ok)
	}
}

func TestOvershootRejected(t *testing.T) {
	s := setupGame(t, 2)
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 46)
	s = selectValue(t, s, 5)

	next := Reduce(s, Action{Type: ActionMovePiece, PieceID: hero})
	if next != s {
		t.Fatal("overshoot past center must be rejected")
	}
	if s.Phase != PhaseSelectAction {
		t.Fatalf("phase changed to %s on rejected move", s.Phase)
	}
	// rejection is idempotent
	if again := Reduce(s, Action{Type: ActionMovePiece, PieceID: hero}); again != s {
		t.Fatal("second rejection produced a different state")
	}
}

func TestExactFinishWins(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 45)
	s = selectValue(t, s, 3)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	piece, _ := s.PieceByID(hero)
	if !piece.Finished {
		t.Fatal("hero reaching center must be finished")
	}
	if *piece.Pos != board.Center || piece.PathIndex != board.CenterIndex {
		t.Fatalf("finished hero at %s index %d", piece.Pos, piece.PathIndex)
	}
	if s.Phase != PhaseGameOver || s.Winner != red.ID {
		t.Fatalf("expected game over with winner %s, got phase %s winner %s",
			red.ID, s.Phase, s.Winner)
	}
	checkRosterInvariants(t, s)
}

func TestHeroCapturesHero(t *testing.T) {
	s := setupGame(t, 2)
	hero := heroID(t, s, 0)
	enemy := heroID(t, s, 1)
	placeAt(t, s, hero, 10)
	cell, _ := board.PathCell(board.ColorRed, 13) // (6,2), not safe
	placeAtCell(t, s, enemy, cell)
	s = selectValue(t, s, 3)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	moved, _ := s.PieceByID(hero)
	if moved.PathIndex != 13 {
		t.Fatalf("capturer should continue to index 13, got %d", moved.PathIndex)
	}
	victim, _ := s.PieceByID(enemy)
	if !victim.AtHome() || victim.PathIndex != -1 || victim.Finished {
		t.Fatalf("captured hero must reset home, got pos=%v index=%d", victim.Pos, victim.PathIndex)
	}
	checkRosterInvariants(t, s)
}

func TestHeroCapturesSupport(t *testing.T) {
	s := setupGame(t, 2)
	blue := s.Players[1]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 10)
	cell, _ := board.PathCell(board.ColorRed, 13)
	escort := addSupportAtCell(t, s, blue.ID, SupportEscort, cell)
	s = selectValue(t, s, 3)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	if _, ok := s.PieceByID(escort.ID); ok {
		t.Fatal("captured support must be removed from the board")
	}
	roster := s.Rosters[blue.ID]
	if !roster.hasAvailable(SupportEscort) {
		t.Fatal("captured support type must return to the owner's pool")
	}
	if len(roster.OnField) != 0 {
		t.Fatalf("roster still lists %d deployed supports", len(roster.OnField))
	}
	checkRosterInvariants(t, s)
}

func TestAssassinDiesAfterCapturing(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	enemy := heroID(t, s, 1)
	assassin := addSupport(t, s, red.ID, SupportAssassin, 10)
	cell, _ := board.PathCell(board.ColorRed, 13)
	placeAtCell(t, s, enemy, cell)
	s = selectValue(t, s, 1) // 1 + 2 assassin bonus = 3 steps

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: assassin.ID})
	victim, _ := s.PieceByID(enemy)
	if !victim.AtHome() {
		t.Fatal("assassin's victim must reset home")
	}
	if _, ok := s.PieceByID(assassin.ID); ok {
		t.Fatal("assassin must be removed after capturing")
	}
	if !s.Rosters[red.ID].hasAvailable(SupportAssassin) {
		t.Fatal("assassin type must return to the pool after its sacrifice")
	}
	checkRosterInvariants(t, s)
}

func TestBlockerInterceptsMidPath(t *testing.T) {
	s := setupGame(t, 2)
	blue := s.Players[1]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 10)
	cell, _ := board.PathCell(board.ColorRed, 11)
	blocker := addSupportAtCell(t, s, blue.ID, SupportBlocker, cell)
	s = selectValue(t, s, 5) // destination would be the safe corner at 15

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	moved, _ := s.PieceByID(hero)
	if !moved.AtHome() {
		t.Fatalf("intercepted hero must reset home, got index %d", moved.PathIndex)
	}
	surviving, ok := s.PieceByID(blocker.ID)
	if !ok || surviving.PathIndex < 0 {
		t.Fatal("intercepting blocker must stay on the board")
	}
	checkRosterInvariants(t, s)
}

func TestBlockerInterceptsSupportMover(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	blue := s.Players[1]
	escort := addSupport(t, s, red.ID, SupportEscort, 10)
	cell, _ := board.PathCell(board.ColorRed, 12)
	addSupportAtCell(t, s, blue.ID, SupportBlocker, cell)
	s = selectValue(t, s, 4)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: escort.ID})
	if _, ok := s.PieceByID(escort.ID); ok {
		t.Fatal("intercepted support must be removed entirely")
	}
	if !s.Rosters[red.ID].hasAvailable(SupportEscort) {
		t.Fatal("intercepted support type must return to the pool")
	}
	checkRosterInvariants(t, s)
}

func TestSafeCellProtectsHeroOnly(t *testing.T) {
	s := setupGame(t, 2)
	hero := heroID(t, s, 0)
	enemy := heroID(t, s, 1)
	placeAt(t, s, hero, 10)
	safe, _ := board.PathCell(board.ColorRed, 15) // corner (6,0)
	if !board.IsSafe(safe) {
		t.Fatalf("expected %s to be safe", safe)
	}
	placeAtCell(t, s, enemy, safe)
	s = selectValue(t, s, 5)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	occupant, _ := s.PieceByID(enemy)
	if occupant.AtHome() {
		t.Fatal("a hero on a safe cell must not be captured")
	}
	moved, _ := s.PieceByID(hero)
	if moved.PathIndex != 15 {
		t.Fatalf("mover should coexist at 15, got %d", moved.PathIndex)
	}
	if len(s.PiecesAt(safe)) != 2 {
		t.Fatalf("expected 2 coexisting pieces, got %d", len(s.PiecesAt(safe)))
	}
}

func TestSafeCellDoesNotProtectSupports(t *testing.T) {
	s := setupGame(t, 2)
	blue := s.Players[1]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 10)
	safe, _ := board.PathCell(board.ColorRed, 15)
	escort := addSupportAtCell(t, s, blue.ID, SupportEscort, safe)
	s = selectValue(t, s, 5)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	if _, ok := s.PieceByID(escort.ID); ok {
		t.Fatal("safe cells protect heroes only; the support must be captured")
	}
}

func TestCellCapRejectsThirdPiece(t *testing.T) {
	s := setupGame(t, 2)
	blue := s.Players[1]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 10)
	cell, _ := board.PathCell(board.ColorRed, 13)
	placeAtCell(t, s, heroID(t, s, 1), cell)
	addSupportAtCell(t, s, blue.ID, SupportEscort, cell)
	s = selectValue(t, s, 3)

	mustReject(t, s, Action{Type: ActionMovePiece, PieceID: hero})
}

func TestNoStackingOwnPiecesByMovement(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	hero := heroID(t, s, 0)
	placeAt(t, s, hero, 10)
	cell, _ := board.PathCell(board.ColorRed, 13)
	addSupportAtCell(t, s, red.ID, SupportEscort, cell)
	s = selectValue(t, s, 3)

	mustReject(t, s, Action{Type: ActionMovePiece, PieceID: hero})
}

func TestSupportLandingOnCenterIsReturned(t *testing.T) {
	s := setupGame(t, 2)
	red := s.Players[0]
	escort := addSupport(t, s, red.ID, SupportEscort, 44)
	s = selectValue(t, s, 4)

	s = mustApply(t, s, Action{Type: ActionMovePiece, PieceID: escort.ID})
	if _, ok := s.PieceByID(escort.ID); ok {
		t.Fatal("support reaching center must be removed")
	}
	if !s.Rosters[red.ID].hasAvailable(SupportEscort) {
		t.Fatal("support type must return to the pool from center")
	}
	if s.Phase == PhaseGameOver {
		t.Fatal("a support on center must not win the game")
	}
	checkRosterInvariants(t, s)
}

func TestMovingFinishedOrHomePieceRejected(t *testing.T) {
	s := setupGame(t, 2)
	hero := heroID(t, s, 0)
	s = selectValue(t, s, 3)
	// hero is still at home; MOVE_PIECE requires an on-board piece
	mustReject(t, s, Action{Type: ActionMovePiece, PieceID: hero})
	mustReject(t, s, Action{Type: ActionMovePiece, PieceID: "no-such-piece"})
}
