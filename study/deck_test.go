package study

import "testing"

func testCards() []Flashcard {
	return []Flashcard{
		{Term: "Osmosis", Definition: "Diffusion of water across a membrane."},
		{Term: "Mitosis", Definition: "Cell division producing identical cells."},
		{Term: "ATP", Definition: "The cell's energy currency."},
	}
}

func TestDeckFlipTransition(t *testing.T) {
	deck := NewDeck(testCards())

	if deck.Face() != FaceFront {
		t.Fatalf("initial face = %v, want FaceFront", deck.Face())
	}
	if !deck.Flip() {
		t.Fatal("Flip() = false, want true")
	}
	if deck.Face() != FaceFlipping {
		t.Fatalf("face after Flip = %v, want FaceFlipping", deck.Face())
	}

	// A second flip mid-transition is ignored.
	if deck.Flip() {
		t.Error("Flip() mid-flip = true, want false")
	}

	deck.FinishFlip()
	if deck.Face() != FaceBack {
		t.Fatalf("face after FinishFlip = %v, want FaceBack", deck.Face())
	}

	deck.Flip()
	deck.FinishFlip()
	if deck.Face() != FaceFront {
		t.Errorf("face after second flip = %v, want FaceFront", deck.Face())
	}
}

func TestDeckNavigationWraps(t *testing.T) {
	deck := NewDeck(testCards())

	deck.Next()
	deck.Next()
	if deck.Index() != 2 {
		t.Fatalf("Index() = %d, want 2", deck.Index())
	}
	deck.Next()
	if deck.Index() != 0 {
		t.Errorf("Index() after wrap = %d, want 0", deck.Index())
	}

	deck.Prev()
	if deck.Index() != 2 {
		t.Errorf("Index() after Prev wrap = %d, want 2", deck.Index())
	}
}

func TestDeckNavigationResetsFace(t *testing.T) {
	deck := NewDeck(testCards())

	deck.Flip()
	deck.FinishFlip()
	deck.Next()
	if deck.Face() != FaceFront {
		t.Errorf("face after Next = %v, want FaceFront", deck.Face())
	}
}

func TestDeckVisibleText(t *testing.T) {
	deck := NewDeck(testCards())

	if got := deck.VisibleText(); got != "Osmosis" {
		t.Errorf("VisibleText() front = %q", got)
	}

	// Mid-flip the target face's text shows, so read-aloud follows the
	// flip rather than the outgoing face.
	deck.Flip()
	if got := deck.VisibleText(); got != "Diffusion of water across a membrane." {
		t.Errorf("VisibleText() mid-flip = %q", got)
	}

	deck.FinishFlip()
	if got := deck.VisibleText(); got != "Diffusion of water across a membrane." {
		t.Errorf("VisibleText() back = %q", got)
	}
}

func TestDeckEmpty(t *testing.T) {
	deck := NewDeck(nil)

	if deck.Flip() {
		t.Error("Flip() on empty deck = true, want false")
	}
	deck.Next()
	deck.Prev()
	if deck.Index() != 0 {
		t.Errorf("Index() = %d, want 0", deck.Index())
	}
	if got := deck.VisibleText(); got != "" {
		t.Errorf("VisibleText() = %q, want empty", got)
	}
	if _, ok := deck.Card(); ok {
		t.Error("Card() ok = true on empty deck")
	}
}
