package deck

import (
	"fmt"
	"math/rand"
	"sort"
)

// Composition is the fixed, asymmetric card distribution: low values are
// common, high values scarce.
var Composition = map[int]int{1: 4, 2: 4, 3: 3, 4: 3, 5: 2, 6: 2}

const (
	// DeckSize is the total card count of Composition.
	DeckSize = 18
	// HandSize is the target number of held cards.
	HandSize = 3
)

// Card is a single movement card. IDs are unique per card instance and
// never reused across shuffles.
type Card struct {
	ID    string
	Value int
}

// Hand is one player's draw pile, held cards and discard pile. A card
// instance belongs to exactly one of the three piles at any time.
//
// Shuffles are driven by Seed plus a per-hand shuffle counter so a game
// rebuilt from the same seed deals identically.
type Hand struct {
	Deck     []Card
	Held     []Card
	Discard  []Card
	Seed     int64
	Shuffles int
}

// New creates a freshly shuffled hand. The initial deal is left to the
// caller (DrawUpTo) so setup order is explicit in the game log.
//
// Card ids are derived from the seed so a game rebuilt from its action
// record deals cards with identical identities.
func New(seed int64) *Hand {
	cards := make([]Card, 0, DeckSize)
	values := make([]int, 0, len(Composition))
	for v := range Composition {
		values = append(values, v)
	}
	sort.Ints(values)
	for _, v := range values {
		for i := 0; i < Composition[v]; i++ {
			cards = append(cards, Card{
				ID:    fmt.Sprintf("card-%x-%d.%d", seed, v, i),
				Value: v,
			})
		}
	}
	h := &Hand{Deck: cards, Seed: seed}
	h.shuffleDeck()
	return h
}

func (h *Hand) shuffleDeck() {
	rng := rand.New(rand.NewSource(h.Seed + int64(h.Shuffles)))
	h.Shuffles++
	rng.Shuffle(len(h.Deck), func(i, j int) {
		h.Deck[i], h.Deck[j] = h.Deck[j], h.Deck[i]
	})
}

// Draw moves one card from the deck to the held cards. An empty deck is
// refilled from the discard pile first; if both are empty the draw is a
// no-op. Reports whether a card was drawn.
func (h *Hand) Draw() bool {
	if len(h.Deck) == 0 {
		if len(h.Discard) == 0 {
			return false
		}
		h.Deck = h.Discard
		h.Discard = nil
		h.shuffleDeck()
	}
	card := h.Deck[0]
	h.Deck = h.Deck[1:]
	h.Held = append(h.Held, card)
	return true
}

// DrawUpTo draws until n cards are held or no cards remain.
func (h *Hand) DrawUpTo(n int) {
	for len(h.Held) < n {
		if !h.Draw() {
			return
		}
	}
}

// Play moves a held card to the discard pile by id.
func (h *Hand) Play(cardID string) (Card, bool) {
	for i, c := range h.Held {
		if c.ID == cardID {
			h.Held = append(h.Held[:i:i], h.Held[i+1:]...)
			h.Discard = append(h.Discard, c)
			return c, true
		}
	}
	return Card{}, false
}

// Refresh discards the entire held hand and draws back up to HandSize.
func (h *Hand) Refresh() {
	h.Discard = append(h.Discard, h.Held...)
	h.Held = nil
	h.DrawUpTo(HandSize)
}

// Find returns a held card by id.
func (h *Hand) Find(cardID string) (Card, bool) {
	for _, c := range h.Held {
		if c.ID == cardID {
			return c, true
		}
	}
	return Card{}, false
}

// Total returns the card count across all three piles.
func (h *Hand) Total() int {
	return len(h.Deck) + len(h.Held) + len(h.Discard)
}

// Clone deep-copies the hand.
func (h *Hand) Clone() *Hand {
	out := &Hand{
		Deck:     append([]Card(nil), h.Deck...),
		Held:     append([]Card(nil), h.Held...),
		Discard:  append([]Card(nil), h.Discard...),
		Seed:     h.Seed,
		Shuffles: h.Shuffles,
	}
	return out
}
