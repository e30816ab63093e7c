package engine

import (
	"gomoku_agent/internal/domain/gomoku"
)

// FindThreats scans every cell along all four directions and unions the
// squares that complete or block the (player, targetCount) pattern. The
// full sweep is O(N^3) and runs at most once per cascade tier, which is
// nothing at N=8.
func FindThreats(b *gomoku.Board, player gomoku.Cell, targetCount int) map[gomoku.Coordinate]struct{} {
	threats := make(map[gomoku.Coordinate]struct{})
	size := b.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			origin := gomoku.Coordinate{Row: row, Col: col}
			for _, dir := range directions {
				for _, c := range scanLine(b, origin, dir, player, targetCount) {
					threats[c] = struct{}{}
				}
			}
		}
	}
	return threats
}

// runLength counts the contiguous run of player stones through c along dir,
// including c itself and both extension directions.
func runLength(b *gomoku.Board, c gomoku.Coordinate, dir gomoku.Direction, player gomoku.Cell) int {
	count := 1
	for next := (gomoku.Coordinate{Row: c.Row + dir.DRow, Col: c.Col + dir.DCol}); b.InBounds(next) && cellAt(b, next) == player; next = (gomoku.Coordinate{Row: next.Row + dir.DRow, Col: next.Col + dir.DCol}) {
		count++
	}
	for prev := (gomoku.Coordinate{Row: c.Row - dir.DRow, Col: c.Col - dir.DCol}); b.InBounds(prev) && cellAt(b, prev) == player; prev = (gomoku.Coordinate{Row: prev.Row - dir.DRow, Col: prev.Col - dir.DCol}) {
		count++
	}
	return count
}

// HasFive reports whether the stone at c belongs to a run of five or more.
// The game usecase calls it right after a stone is placed.
func HasFive(b *gomoku.Board, c gomoku.Coordinate, player gomoku.Cell) bool {
	for _, dir := range directions {
		if runLength(b, c, dir, player) >= 5 {
			return true
		}
	}
	return false
}

// FiveIfPlaced simulates placing player's stone at c and reports whether
// that completes a five. The board is restored before returning.
func FiveIfPlaced(b *gomoku.Board, c gomoku.Coordinate, player gomoku.Cell) bool {
	if err := b.Place(c, player); err != nil {
		return false
	}
	won := HasFive(b, c, player)
	_ = b.Clear(c)
	return won
}

// hasImmediateWin reports whether player can complete a five by playing on
// any currently empty square.
func hasImmediateWin(b *gomoku.Board, player gomoku.Cell) bool {
	size := b.Size()
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			c := gomoku.Coordinate{Row: row, Col: col}
			if b.IsEmpty(c) && FiveIfPlaced(b, c, player) {
				return true
			}
		}
	}
	return false
}

// givesOpponentWin is the one-ply blunder check: after the mover plays c,
// does the opponent have any winning reply? Occupied candidates count as
// unsafe so they can never be selected.
func givesOpponentWin(b *gomoku.Board, c gomoku.Coordinate, mover gomoku.Cell) bool {
	if err := b.Place(c, mover); err != nil {
		return true
	}
	losing := hasImmediateWin(b, mover.Opponent())
	_ = b.Clear(c)
	return losing
}
