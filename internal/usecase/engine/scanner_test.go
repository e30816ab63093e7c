package engine

import (
	"testing"

	"gomoku_agent/internal/domain/gomoku"
)

func mustParse(t *testing.T, rows []string) *gomoku.Board {
	t.Helper()
	b, err := gomoku.ParseBoard(rows)
	if err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return b
}

func hasThreat(threats map[gomoku.Coordinate]struct{}, c gomoku.Coordinate) bool {
	_, ok := threats[c]
	return ok
}

func TestFindThreatsFourHorizontal(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		".XXXX...",
		"........",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 4)
	for _, want := range []gomoku.Coordinate{{Row: 3, Col: 0}, {Row: 3, Col: 5}} {
		if !hasThreat(threats, want) {
			t.Fatalf("expected winning square %v in threats, got %v", want, threats)
		}
	}
}

func TestFindThreatsBrokenFour(t *testing.T) {
	// X X . X X: the single gap completes five
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		".XX.XX..",
		"........",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 4)
	if !hasThreat(threats, gomoku.Coordinate{Row: 3, Col: 3}) {
		t.Fatalf("expected gap (3,3) in threats, got %v", threats)
	}
}

func TestFindThreatsFourBlockedByOpponent(t *testing.T) {
	// opponent stone inside every 5-window that holds the four
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		"OXXXXO..",
		"........",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 4)
	if len(threats) != 0 {
		t.Fatalf("expected no winning squares for a fully blocked four, got %v", threats)
	}
}

func TestFindThreatsOpenThreeEndpoints(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		"........",
		"..XXX...",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 3)
	for _, want := range []gomoku.Coordinate{{Row: 4, Col: 1}, {Row: 4, Col: 5}} {
		if !hasThreat(threats, want) {
			t.Fatalf("expected open-three endpoint %v in threats, got %v", want, threats)
		}
	}
}

func TestFindThreatsOpenThreeVertical(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"...O....",
		"...O....",
		"...O....",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellWhite, 3)
	for _, want := range []gomoku.Coordinate{{Row: 1, Col: 3}, {Row: 5, Col: 3}} {
		if !hasThreat(threats, want) {
			t.Fatalf("expected vertical endpoint %v in threats, got %v", want, threats)
		}
	}
}

func TestFindThreatsOpenThreeDiagonal(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"..X.....",
		"...X....",
		"....X...",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 3)
	for _, want := range []gomoku.Coordinate{{Row: 1, Col: 1}, {Row: 5, Col: 5}} {
		if !hasThreat(threats, want) {
			t.Fatalf("expected diagonal endpoint %v in threats, got %v", want, threats)
		}
	}
}

func TestFindThreatsBrokenThree(t *testing.T) {
	// X . X X: the gap completes the three
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		"........",
		"..X.XX..",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 3)
	if !hasThreat(threats, gomoku.Coordinate{Row: 4, Col: 3}) {
		t.Fatalf("expected gap (4,3) in threats, got %v", threats)
	}
}

func TestFindThreatsClosedThree(t *testing.T) {
	// O X X X . : one side blocked, single completing square
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		"........",
		"........",
		".OXXX...",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 3)
	if !hasThreat(threats, gomoku.Coordinate{Row: 5, Col: 5}) {
		t.Fatalf("expected closed-three square (5,5) in threats, got %v", threats)
	}
}

func TestFindThreatsEdgeWindowDiagonal(t *testing.T) {
	// Three flush in the corner on the / diagonal (0,3)-(3,0): the full
	// line is only 4 long, so no 5-window fits and the 4-window rule has
	// to catch it.
	b := mustParse(t, []string{
		"........",
		"..X.....",
		".X......",
		"X.......",
		"........",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellBlack, 3)
	if !hasThreat(threats, gomoku.Coordinate{Row: 0, Col: 3}) {
		t.Fatalf("expected edge square (0,3) in threats, got %v", threats)
	}
}

func TestFindThreatsIgnoresOtherPlayer(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		".XXXX...",
		"........",
		"........",
		"........",
		"........",
	})
	threats := FindThreats(b, gomoku.CellWhite, 4)
	if len(threats) != 0 {
		t.Fatalf("expected no white threats on a black four, got %v", threats)
	}
}

func TestFiveIfPlacedRestoresBoard(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		".XXXX...",
		"........",
		"........",
		"........",
		"........",
	})
	c := gomoku.Coordinate{Row: 3, Col: 5}
	if !FiveIfPlaced(b, c, gomoku.CellBlack) {
		t.Fatalf("expected %v to complete five", c)
	}
	if !b.IsEmpty(c) {
		t.Fatalf("expected board restored after simulation at %v", c)
	}
	if FiveIfPlaced(b, gomoku.Coordinate{Row: 0, Col: 0}, gomoku.CellBlack) {
		t.Fatal("expected corner not to complete five")
	}
}

func TestHasFive(t *testing.T) {
	b := mustParse(t, []string{
		"........",
		"........",
		"........",
		".XXXXX..",
		"........",
		"........",
		"........",
		"........",
	})
	if !HasFive(b, gomoku.Coordinate{Row: 3, Col: 3}, gomoku.CellBlack) {
		t.Fatal("expected five through (3,3)")
	}
	if HasFive(b, gomoku.Coordinate{Row: 3, Col: 3}, gomoku.CellWhite) {
		t.Fatal("expected no white five")
	}
}
