package engine

import (
	"math"
	"sort"

	"gomoku_agent/internal/domain/gomoku"
	errs "gomoku_agent/internal/errors"
)

const (
	// center bias applies while fewer stones than this are on the board
	earlyGameStones  = 10
	centerRingRadius = 3

	runWeight     = 10
	forkRunLength = 3
)

// SelectMove runs the full priority cascade and always returns a legal
// coordinate when the legal list is non-empty:
//
//  1. win now
//  2. block the opponent's winning square
//  3. block the opponent's threes
//  4. build an own three
//  5. extend a pair, center-biased in the early game
//  6. safest best-scoring legal move
//
// The result is deterministic for a given board, mover and legal list.
func SelectMove(b *gomoku.Board, mover gomoku.Cell, legal []gomoku.Coordinate) (gomoku.Coordinate, error) {
	if len(legal) == 0 {
		return gomoku.Coordinate{}, errs.ErrNoLegalMoves
	}
	if move, ok := TacticalMove(b, mover, legal); ok {
		return move, nil
	}
	return fallbackMove(b, mover, legal), nil
}

// TacticalMove evaluates tiers 1-4 only. The agent layer uses it as a
// pre-filter: when it yields a move, consulting the model is pointless.
func TacticalMove(b *gomoku.Board, mover gomoku.Cell, legal []gomoku.Coordinate) (gomoku.Coordinate, bool) {
	if len(legal) == 0 {
		return gomoku.Coordinate{}, false
	}
	opponent := mover.Opponent()

	// Tier 1: complete a five. A win ends the game, so the blunder check
	// is skipped.
	if move, ok := pickBest(b, mover, intersectLegal(FindThreats(b, mover, 4), legal), false); ok {
		return move, true
	}
	// Tier 2: the opponent is one stone from five; occupy that square.
	if move, ok := pickBest(b, mover, intersectLegal(FindThreats(b, opponent, 4), legal), true); ok {
		return move, true
	}
	// Tier 3: break the opponent's threes before they become fours.
	if move, ok := pickBest(b, mover, intersectLegal(FindThreats(b, opponent, 3), legal), true); ok {
		return move, true
	}
	// Tier 4: push an own three toward a four.
	if move, ok := pickBest(b, mover, intersectLegal(FindThreats(b, mover, 3), legal), true); ok {
		return move, true
	}
	return gomoku.Coordinate{}, false
}

// fallbackMove covers tiers 5 and 6. It never fails on a non-empty legal
// list: the terminal tier keeps unsafe moves when nothing safe remains.
func fallbackMove(b *gomoku.Board, mover gomoku.Cell, legal []gomoku.Coordinate) gomoku.Coordinate {
	pool := legal
	early := b.StoneCount() < earlyGameStones
	if early {
		ring := make([]gomoku.Coordinate, 0, len(legal))
		for _, c := range legal {
			if centerDistance(c, b.Size()) <= centerRingRadius {
				ring = append(ring, c)
			}
		}
		if len(ring) > 0 {
			pool = ring
		}
	}

	// Tier 5: extend an existing pair.
	if move, ok := pickBest(b, mover, intersectLegal(FindThreats(b, mover, 2), pool), true); ok {
		return move
	}
	if early {
		if move, ok := pickBest(b, mover, pool, true); ok {
			return move
		}
	}

	// Tier 6: safest central move from the whole legal list.
	move, _ := pickBest(b, mover, legal, true)
	return move
}

// intersectLegal keeps the candidates that appear in the legal list, in the
// legal list's order. The selector never invents moves outside that list.
func intersectLegal(candidates map[gomoku.Coordinate]struct{}, legal []gomoku.Coordinate) []gomoku.Coordinate {
	moves := make([]gomoku.Coordinate, 0, len(candidates))
	for _, c := range legal {
		if _, ok := candidates[c]; ok {
			moves = append(moves, c)
		}
	}
	return moves
}

// scoreMove simulates the mover's stone at c and scores the position by the
// longest run through c, with a small bonus per direction reaching a three
// (a crude fork signal).
func scoreMove(b *gomoku.Board, c gomoku.Coordinate, mover gomoku.Cell) int {
	if err := b.Place(c, mover); err != nil {
		return -1
	}
	best := 0
	forks := 0
	for _, dir := range directions {
		run := runLength(b, c, dir, mover)
		if run > best {
			best = run
		}
		if run >= forkRunLength {
			forks++
		}
	}
	_ = b.Clear(c)
	return best*runWeight + forks
}

func centerDistance(c gomoku.Coordinate, size int) float64 {
	center := float64(size-1) / 2
	return math.Abs(float64(c.Row)-center) + math.Abs(float64(c.Col)-center)
}

// pickBest applies the blunder filter (falling back to the unfiltered set
// when every candidate is unsafe: an imperfect block still beats ignoring
// the threat) and then orders candidates by score, center distance, row and
// column.
func pickBest(b *gomoku.Board, mover gomoku.Cell, candidates []gomoku.Coordinate, applySafety bool) (gomoku.Coordinate, bool) {
	if len(candidates) == 0 {
		return gomoku.Coordinate{}, false
	}

	pool := candidates
	if applySafety {
		safe := make([]gomoku.Coordinate, 0, len(candidates))
		for _, c := range candidates {
			if !givesOpponentWin(b, c, mover) {
				safe = append(safe, c)
			}
		}
		if len(safe) > 0 {
			pool = safe
		}
	}

	type scoredMove struct {
		move   gomoku.Coordinate
		score  int
		center float64
	}
	ranked := make([]scoredMove, 0, len(pool))
	for _, c := range pool {
		ranked = append(ranked, scoredMove{
			move:   c,
			score:  scoreMove(b, c, mover),
			center: centerDistance(c, b.Size()),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		if ranked[i].center != ranked[j].center {
			return ranked[i].center < ranked[j].center
		}
		if ranked[i].move.Row != ranked[j].move.Row {
			return ranked[i].move.Row < ranked[j].move.Row
		}
		return ranked[i].move.Col < ranked[j].move.Col
	})
	return ranked[0].move, true
}
