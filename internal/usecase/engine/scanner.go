package engine

import (
	"gomoku_agent/internal/domain/gomoku"
)

// The four canonical scan directions. Their negations are covered by
// scanning the full line through the origin, so they are not listed.
var directions = [4]gomoku.Direction{
	{DRow: 0, DCol: 1},  // horizontal
	{DRow: 1, DCol: 0},  // vertical
	{DRow: 1, DCol: 1},  // diagonal \
	{DRow: 1, DCol: -1}, // diagonal /
}

func cellAt(b *gomoku.Board, c gomoku.Coordinate) gomoku.Cell {
	cell, _ := b.At(c)
	return cell
}

// buildLine returns the maximal in-bounds line of coordinates through
// origin along dir, ordered from the line's start.
func buildLine(b *gomoku.Board, origin gomoku.Coordinate, dir gomoku.Direction) []gomoku.Coordinate {
	start := origin
	for {
		prev := gomoku.Coordinate{Row: start.Row - dir.DRow, Col: start.Col - dir.DCol}
		if !b.InBounds(prev) {
			break
		}
		start = prev
	}
	line := make([]gomoku.Coordinate, 0, 2*b.Size()-1)
	for c := start; b.InBounds(c); c = (gomoku.Coordinate{Row: c.Row + dir.DRow, Col: c.Col + dir.DCol}) {
		line = append(line, c)
	}
	return line
}

type windowCounts struct {
	mine    int
	theirs  int
	empties []gomoku.Coordinate
}

func countWindow(b *gomoku.Board, window []gomoku.Coordinate, player gomoku.Cell) windowCounts {
	opponent := player.Opponent()
	wc := windowCounts{}
	for _, c := range window {
		switch cellAt(b, c) {
		case player:
			wc.mine++
		case opponent:
			wc.theirs++
		default:
			wc.empties = append(wc.empties, c)
		}
	}
	return wc
}

// isOpenThree reports the contiguous ".PPP." shape inside a 5-window. Both
// endpoints then extend the three into an open four.
func isOpenThree(b *gomoku.Board, window []gomoku.Coordinate, player gomoku.Cell) bool {
	return cellAt(b, window[0]) == gomoku.CellEmpty &&
		cellAt(b, window[1]) == player &&
		cellAt(b, window[2]) == player &&
		cellAt(b, window[3]) == player &&
		cellAt(b, window[4]) == gomoku.CellEmpty
}

// scanLine slides exact-count windows over the line through origin and
// returns the empty squares that complete or block the target pattern.
//
// The exact-count rules (target stones of player, rest empty, zero opponent
// stones inside the window) guarantee no overcounting: any opponent stone in
// a window disqualifies it. The extra length-4 pass for threes catches
// patterns flush against the board edge, where no length-5 window fits.
func scanLine(b *gomoku.Board, origin gomoku.Coordinate, dir gomoku.Direction, player gomoku.Cell, targetCount int) []gomoku.Coordinate {
	line := buildLine(b, origin, dir)
	var found []gomoku.Coordinate

	for i := 0; i+5 <= len(line); i++ {
		window := line[i : i+5]
		wc := countWindow(b, window, player)
		switch {
		case targetCount == 4 && wc.mine == 4 && wc.theirs == 0 && len(wc.empties) == 1:
			// one move from five: the single empty is the winning square
			found = append(found, wc.empties[0])
		case targetCount == 3 && wc.mine == 3 && wc.theirs == 0 && len(wc.empties) == 2:
			if isOpenThree(b, window, player) {
				found = append(found, window[0], window[4])
			} else {
				// broken three (P.PP / PP.P): every gap completes it
				found = append(found, wc.empties...)
			}
		case targetCount == 3 && wc.mine == 3 && wc.theirs == 1 && len(wc.empties) == 1:
			// closed three, one side already blocked
			found = append(found, wc.empties[0])
		case targetCount == 2 && wc.mine == 2 && wc.theirs == 0 && len(wc.empties) == 3:
			found = append(found, wc.empties...)
		}
	}

	if targetCount == 3 {
		for i := 0; i+4 <= len(line); i++ {
			window := line[i : i+4]
			wc := countWindow(b, window, player)
			if wc.mine != 3 || wc.theirs != 0 || len(wc.empties) != 1 {
				continue
			}
			if cellAt(b, window[0]) == gomoku.CellEmpty {
				found = append(found, window[0])
			}
			if cellAt(b, window[3]) == gomoku.CellEmpty {
				found = append(found, window[3])
			}
		}
	}

	return found
}
