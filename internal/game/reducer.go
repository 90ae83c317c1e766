package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/ashtagame/ashta-server-go/internal/game/board"
	"github.com/ashtagame/ashta-server-go/internal/game/deck"
)

// portalMinCardValue is the minimum selected card value that allows
// using a claimed portal as the entry point.
const portalMinCardValue = 3

// Reduce is the engine's single transition function. It is pure: the
// input state is never mutated. Every validation failure (wrong phase,
// wrong owner, overshoot, unknown ids, unknown action types) returns
// the prior state unchanged.
func Reduce(s *GameState, a Action) *GameState {
	if a.Type == ActionResetGame {
		return newGame(a)
	}
	if s == nil || s.Phase == PhaseGameOver {
		return s
	}
	if a.PlayerID != "" && a.PlayerID != s.CurrentPlayer().ID {
		return s
	}
	if !s.TurnReady && a.Type != ActionStartTurn {
		return s
	}

	next := s.Clone()
	var ok bool
	switch a.Type {
	case ActionStartTurn:
		ok = next.startTurn()
	case ActionSelectCard:
		ok = next.selectCard(a)
	case ActionUnselectCard:
		ok = next.unselectCard()
	case ActionEnterPiece:
		ok = next.enterPiece(a)
	case ActionMovePiece:
		ok = next.movePiece(a)
	case ActionSummonSupport:
		ok = next.summonSupport(a)
	case ActionClaimPortal:
		ok = next.claimPortal()
	case ActionSkipPortal:
		ok = next.skipPortal()
	case ActionStealPortal:
		ok = next.stealPortal(a)
	case ActionActivatePusher:
		ok = next.activatePusher(a)
	case ActionExecutePush:
		ok = next.executePush(a)
	case ActionCancelAbility:
		ok = next.cancelAbility()
	case ActionEndTurn:
		ok = next.voluntarySkip()
	case ActionRefreshHand:
		ok = next.refreshHand()
	default:
		return s
	}
	if !ok {
		return s
	}
	return next
}

var colorDisplayNames = map[board.Color]string{
	board.ColorRed:    "Red",
	board.ColorBlue:   "Blue",
	board.ColorGreen:  "Green",
	board.ColorYellow: "Yellow",
}

// newGame builds the initial state for RESET_GAME.
func newGame(a Action) *GameState {
	count := a.PlayerCount
	if count < 2 {
		count = 2
	}
	if count > len(board.Colors) {
		count = len(board.Colors)
	}
	seed := a.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &GameState{
		Hands:     make(map[string]*deck.Hand, count),
		Rosters:   make(map[string]*SupportRoster, count),
		Portals:   make(map[board.Color]board.Position),
		Turn:      1,
		Phase:     PhaseSelectCard,
		Hotseat:   a.Hotseat,
		Seed:      seed,
	}

	humanSeen := false
	for i := 0; i < count; i++ {
		color := board.Colors[i]
		human := a.Hotseat || color == a.HumanColor
		if human && color == a.HumanColor {
			humanSeen = true
		}
		// Ids are deterministic so a game can be rebuilt from its
		// recorded action sequence.
		tag := strings.ToLower(color.String())
		p := Player{
			ID:    "player-" + tag,
			Name:  colorDisplayNames[color],
			Color: color,
			Human: human,
		}
		s.Players = append(s.Players, p)
		s.Pieces = append(s.Pieces, &Piece{
			ID:        "hero-" + tag,
			PlayerID:  p.ID,
			Color:     color,
			Kind:      KindHero,
			PathIndex: -1,
		})
		h := deck.New(seed + int64(i)*101)
		h.DrawUpTo(deck.HandSize)
		s.Hands[p.ID] = h
		s.Rosters[p.ID] = &SupportRoster{
			Available: append([]SupportType(nil), SupportTypes...),
		}
	}
	if !a.Hotseat && !humanSeen {
		s.Players[0].Human = true
	}

	first := s.Players[0]
	s.TurnReady = !(s.Hotseat && first.Human)
	s.appendLog(first.ID, string(ActionResetGame), 0, "",
		fmt.Sprintf("new game with %d players, %s to move", count, first.Name))
	return s
}

func (s *GameState) startTurn() bool {
	if s.TurnReady || s.Phase != PhaseSelectCard {
		return false
	}
	s.TurnReady = true
	return true
}

func (s *GameState) selectCard(a Action) bool {
	if s.Phase != PhaseSelectCard && s.Phase != PhaseSelectAction {
		return false
	}
	hand := s.Hands[s.CurrentPlayer().ID]
	if _, ok := hand.Find(a.CardID); !ok {
		return false
	}
	s.SelectedCard = a.CardID
	s.Phase = PhaseSelectAction
	return true
}

func (s *GameState) unselectCard() bool {
	if s.Phase != PhaseSelectAction {
		return false
	}
	s.SelectedCard = ""
	s.Phase = PhaseSelectCard
	return true
}

// concludeCardAction finishes a card-consuming action: win check first,
// then a pending portal decision, otherwise the turn ends.
func (s *GameState) concludeCardAction() {
	if s.checkWin() {
		return
	}
	if s.PendingPortal != nil {
		s.Phase = PhasePortalChoice
		return
	}
	s.endTurn()
}

func (s *GameState) enterPiece(a Action) bool {
	if s.Phase != PhaseSelectAction || s.SelectedCard == "" {
		return false
	}
	player := s.CurrentPlayer()
	hero, ok := s.HeroOf(player.ID)
	if !ok || !hero.AtHome() || hero.Finished {
		return false
	}
	card, ok := s.Hands[player.ID].Find(s.SelectedCard)
	if !ok {
		return false
	}

	destIndex := 0
	if a.ViaPortal {
		portal, claimed := s.Portals[player.Color]
		if !claimed || card.Value < portalMinCardValue {
			return false
		}
		destIndex, ok = board.PathIndexOf(player.Color, portal)
		if !ok {
			return false
		}
	}
	out, ok := s.resolvePlacement(hero, destIndex)
	if !ok {
		return false
	}
	s.consumeSelectedCard()
	s.appendLog(player.ID, string(ActionEnterPiece), card.Value, "",
		fmt.Sprintf("%s entered their hero at %s", player.Name, out.dest))
	s.applyMove(hero, out, string(ActionEnterPiece), card.Value)
	s.portalLanding(hero, card.Value)
	s.concludeCardAction()
	return true
}

func (s *GameState) movePiece(a Action) bool {
	if s.Phase != PhaseSelectAction || s.SelectedCard == "" {
		return false
	}
	player := s.CurrentPlayer()
	piece, ok := s.PieceByID(a.PieceID)
	if !ok || piece.PlayerID != player.ID || piece.Finished || piece.AtHome() {
		return false
	}
	card, ok := s.Hands[player.ID].Find(s.SelectedCard)
	if !ok {
		return false
	}
	steps := s.effectiveSteps(piece, card.Value)
	out, ok := s.resolveMove(piece, steps)
	if !ok {
		return false
	}
	s.consumeSelectedCard()
	s.applyMove(piece, out, string(ActionMovePiece), card.Value)
	if !out.intercepted {
		s.portalLanding(piece, card.Value)
	}
	s.concludeCardAction()
	return true
}

func (s *GameState) summonSupport(a Action) bool {
	if s.Phase != PhaseSelectAction || s.SelectedCard == "" {
		return false
	}
	player := s.CurrentPlayer()
	roster := s.Rosters[player.ID]
	if roster == nil || !roster.hasAvailable(a.Support) {
		return false
	}
	if len(roster.OnField) >= MaxSupportsOnField {
		return false
	}
	card, ok := s.Hands[player.ID].Find(s.SelectedCard)
	if !ok {
		return false
	}

	destIndex := 0
	if a.ViaPortal {
		portal, claimed := s.Portals[player.Color]
		if !claimed || card.Value < portalMinCardValue {
			return false
		}
		destIndex, ok = board.PathIndexOf(player.Color, portal)
		if !ok {
			return false
		}
	}
	// Summon entry points are stackable: no occupancy check, and a
	// newly summoned piece never captures anything on its entry cell.
	cell, ok := board.PathCell(player.Color, destIndex)
	if !ok {
		return false
	}

	roster.takeAvailable(a.Support)
	s.PieceSeq++
	piece := &Piece{
		ID: fmt.Sprintf("%s-%s-%d", strings.ToLower(player.Color.String()),
			strings.ToLower(string(a.Support)), s.PieceSeq),
		PlayerID:  player.ID,
		Color:     player.Color,
		Kind:      KindSupport,
		Support:   a.Support,
		Pos:       &cell,
		PathIndex: destIndex,
	}
	s.Pieces = append(s.Pieces, piece)
	roster.OnField = append(roster.OnField, piece.ID)

	s.consumeSelectedCard()
	s.appendLog(player.ID, string(ActionSummonSupport), card.Value, string(a.Support),
		fmt.Sprintf("%s summoned a %s at %s", player.Name, pieceLabel(piece), cell))
	s.concludeCardAction()
	return true
}

// portalLanding claims or offers an unclaimed summon cell the piece
// just landed on. The first portal is claimed outright; landing on a
// second unclaimed portal opens a portal choice.
func (s *GameState) portalLanding(p *Piece, cardValue int) {
	if p.Pos == nil || p.Finished {
		return
	}
	if _, stillThere := s.PieceByID(p.ID); !stillThere {
		return
	}
	cell := *p.Pos
	if board.Classify(cell) != board.KindSummon {
		return
	}
	for _, claimed := range s.Portals {
		if claimed == cell {
			return
		}
	}
	player, _ := s.PlayerByID(p.PlayerID)
	if _, owns := s.Portals[player.Color]; !owns {
		s.Portals[player.Color] = cell
		s.appendLog(p.PlayerID, string(ActionClaimPortal), cardValue, "",
			fmt.Sprintf("%s claimed the portal at %s", player.Name, cell))
		return
	}
	s.PendingPortal = &cell
}

func (s *GameState) claimPortal() bool {
	if s.Phase != PhasePortalChoice || s.PendingPortal == nil {
		return false
	}
	player := s.CurrentPlayer()
	cell := *s.PendingPortal
	s.Portals[player.Color] = cell
	s.PendingPortal = nil
	s.appendLog(player.ID, string(ActionClaimPortal), 0, "",
		fmt.Sprintf("%s moved their portal to %s", player.Name, cell))
	s.endTurn()
	return true
}

func (s *GameState) skipPortal() bool {
	if s.Phase != PhasePortalChoice || s.PendingPortal == nil {
		return false
	}
	player := s.CurrentPlayer()
	s.PendingPortal = nil
	s.appendLog(player.ID, string(ActionSkipPortal), 0, "",
		fmt.Sprintf("%s kept their current portal", player.Name))
	s.endTurn()
	return true
}

func (s *GameState) stealPortal(a Action) bool {
	if s.Phase != PhaseSelectAction {
		return false
	}
	player := s.CurrentPlayer()

	ownerColor, owned := board.ColorRed, false
	for c, cell := range s.Portals {
		if cell == a.Cell {
			ownerColor, owned = c, true
			break
		}
	}
	if !owned || ownerColor == player.Color {
		return false
	}
	// An opposing-colored piece must stand on the portal cell.
	contested := false
	for _, occ := range s.PiecesAt(a.Cell) {
		if occ.Color != ownerColor {
			contested = true
			break
		}
	}
	if !contested {
		return false
	}

	delete(s.Portals, ownerColor)
	delete(s.Portals, player.Color) // at most one portal per color
	s.Portals[player.Color] = a.Cell

	target := ""
	for _, p := range s.Players {
		if p.Color == ownerColor {
			target = p.Name
			break
		}
	}
	s.appendLog(player.ID, string(ActionStealPortal), 0, target,
		fmt.Sprintf("%s stole the portal at %s from %s", player.Name, a.Cell, target))
	s.endTurn()
	return true
}

func (s *GameState) activatePusher(a Action) bool {
	if s.Phase != PhaseSelectCard && s.Phase != PhaseSelectAction {
		return false
	}
	if s.PusherUsed {
		return false
	}
	player := s.CurrentPlayer()
	pusher, ok := s.PieceByID(a.PieceID)
	if !ok || pusher.PlayerID != player.ID || pusher.Kind != KindSupport ||
		pusher.Support != SupportPusher || pusher.Pos == nil || pusher.Finished {
		return false
	}
	s.AbilityPiece = pusher.ID
	s.Phase = PhaseSelectPushTarget
	return true
}

func (s *GameState) executePush(a Action) bool {
	if s.Phase != PhaseSelectPushTarget {
		return false
	}
	pusher, ok := s.PieceByID(s.AbilityPiece)
	if !ok || pusher.Pos == nil {
		return false
	}
	target, ok := s.PieceByID(a.PieceID)
	if !ok || target.Finished || target.Pos == nil || target.ID == pusher.ID {
		return false
	}
	if !board.Adjacent(*pusher.Pos, *target.Pos) {
		return false
	}
	dest, ok := board.PushDestination(*pusher.Pos, *target.Pos)
	if !ok {
		return false
	}
	destIndex, ok := board.PathIndexOf(target.Color, dest)
	if !ok {
		return false
	}

	player := s.CurrentPlayer()
	owner, _ := s.PlayerByID(target.PlayerID)
	s.appendLog(player.ID, string(ActionExecutePush), 0, owner.Name,
		fmt.Sprintf("%s's pusher shoved %s's %s to %s", player.Name, owner.Name, pieceLabel(target), dest))

	// A displaced-into piece is captured by the arriving piece.
	for _, occ := range s.PiecesAt(dest) {
		s.capturePiece(occ)
	}
	pos := dest
	target.Pos = &pos
	target.PathIndex = destIndex
	if dest == board.Center {
		if target.Kind == KindHero {
			// a pushed hero wins for its own owner
			target.Finished = true
		} else {
			s.returnSupport(target)
		}
	}

	s.PusherUsed = true
	s.AbilityPiece = ""
	s.returnFromAbility()
	s.checkWin()
	return true
}

func (s *GameState) cancelAbility() bool {
	if s.Phase != PhaseSelectPushTarget {
		return false
	}
	s.AbilityPiece = ""
	s.returnFromAbility()
	return true
}

// returnFromAbility restores the phase the pusher flow interrupted. The
// ability neither consumes a card nor ends the turn.
func (s *GameState) returnFromAbility() {
	if s.SelectedCard != "" {
		s.Phase = PhaseSelectAction
	} else {
		s.Phase = PhaseSelectCard
	}
}

func (s *GameState) voluntarySkip() bool {
	if s.Phase != PhaseSelectCard || s.SelectedCard != "" {
		return false
	}
	player := s.CurrentPlayer()
	s.appendLog(player.ID, string(ActionEndTurn), 0, "",
		fmt.Sprintf("%s skipped their turn", player.Name))
	s.endTurn()
	return true
}

func (s *GameState) refreshHand() bool {
	if s.Phase != PhaseSelectCard && s.Phase != PhaseSelectAction {
		return false
	}
	player := s.CurrentPlayer()
	s.SelectedCard = ""
	s.Hands[player.ID].Refresh()
	s.appendLog(player.ID, string(ActionRefreshHand), 0, "",
		fmt.Sprintf("%s refreshed their hand", player.Name))
	s.endTurn()
	return true
}

// endTurn advances to the next player in fixed order and clears the
// per-turn state.
func (s *GameState) endTurn() {
	s.Current = (s.Current + 1) % len(s.Players)
	s.SelectedCard = ""
	s.PendingPortal = nil
	s.AbilityPiece = ""
	s.PusherUsed = false
	s.Phase = PhaseSelectCard
	s.Turn++
	next := s.Players[s.Current]
	s.TurnReady = !(s.Hotseat && next.Human)
}

// checkWin transitions to game over the instant any hero is finished.
// The winner is the finished hero's owner, regardless of who moved it.
func (s *GameState) checkWin() bool {
	if s.Winner != "" {
		s.Phase = PhaseGameOver
		return true
	}
	for _, p := range s.Pieces {
		if p.Kind == KindHero && p.Finished {
			s.Winner = p.PlayerID
			s.Phase = PhaseGameOver
			owner, _ := s.PlayerByID(p.PlayerID)
			s.appendLog(p.PlayerID, "GAME_OVER", 0, "",
				fmt.Sprintf("%s wins", owner.Name))
			return true
		}
	}
	return false
}

// consumeSelectedCard plays the selected card to the discard pile and
// draws a replacement.
func (s *GameState) consumeSelectedCard() (deck.Card, bool) {
	hand := s.Hands[s.CurrentPlayer().ID]
	card, ok := hand.Play(s.SelectedCard)
	if !ok {
		return deck.Card{}, false
	}
	hand.Draw()
	s.SelectedCard = ""
	return card, true
}
