package study

import "time"

// FlipDelay is how long a card spends mid-flip before the other face
// shows.
const FlipDelay = 300 * time.Millisecond

// CardFace identifies which side of the current card is visible.
type CardFace int

const (
	// FaceFront shows the term.
	FaceFront CardFace = iota
	// FaceFlipping is the timed transition between faces.
	FaceFlipping
	// FaceBack shows the definition.
	FaceBack
)

// Deck tracks position and flip state over a set of flashcards. The flip
// is an explicit timed transition: Flip moves to FaceFlipping and the
// caller completes it with FinishFlip after FlipDelay.
type Deck struct {
	cards  []Flashcard
	index  int
	face   CardFace
	target CardFace
}

// NewDeck creates a deck showing the front of the first card.
func NewDeck(cards []Flashcard) *Deck {
	return &Deck{cards: cards}
}

// Len returns the number of cards.
func (d *Deck) Len() int { return len(d.cards) }

// Index returns the current card position.
func (d *Deck) Index() int { return d.index }

// Face returns the currently visible face.
func (d *Deck) Face() CardFace { return d.face }

// Card returns the current card.
func (d *Deck) Card() (Flashcard, bool) {
	if len(d.cards) == 0 {
		return Flashcard{}, false
	}
	return d.cards[d.index], true
}

// Flip begins the timed flip transition. It reports whether a flip
// started; a card already mid-flip ignores further flips.
func (d *Deck) Flip() bool {
	if len(d.cards) == 0 || d.face == FaceFlipping {
		return false
	}

	if d.face == FaceFront {
		d.target = FaceBack
	} else {
		d.target = FaceFront
	}
	d.face = FaceFlipping
	return true
}

// FinishFlip completes a pending flip. No-op unless mid-flip.
func (d *Deck) FinishFlip() {
	if d.face == FaceFlipping {
		d.face = d.target
	}
}

// Next advances to the next card, front side up. Wraps at the end.
func (d *Deck) Next() {
	if len(d.cards) == 0 {
		return
	}
	d.index = (d.index + 1) % len(d.cards)
	d.face = FaceFront
}

// Prev moves to the previous card, front side up. Wraps at the start.
func (d *Deck) Prev() {
	if len(d.cards) == 0 {
		return
	}
	d.index = (d.index - 1 + len(d.cards)) % len(d.cards)
	d.face = FaceFront
}

// VisibleText returns the text of the face the user sees. Mid-flip the
// target face's text is returned, so read-aloud follows the flip.
func (d *Deck) VisibleText() string {
	card, ok := d.Card()
	if !ok {
		return ""
	}

	face := d.face
	if face == FaceFlipping {
		face = d.target
	}
	if face == FaceBack {
		return card.Definition
	}
	return card.Term
}
