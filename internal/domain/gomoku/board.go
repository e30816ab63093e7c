package gomoku

import (
	"strings"

	errs "gomoku_agent/internal/errors"
)

// BoardSize is fixed for the whole service. Every board this package
// produces is BoardSize x BoardSize.
const BoardSize = 8

type Cell int

const (
	CellEmpty Cell = iota
	CellBlack
	CellWhite
)

// Opponent returns the other player's stone. Calling it on CellEmpty
// returns CellEmpty.
func (c Cell) Opponent() Cell {
	switch c {
	case CellBlack:
		return CellWhite
	case CellWhite:
		return CellBlack
	default:
		return CellEmpty
	}
}

func (c Cell) Rune() rune {
	switch c {
	case CellBlack:
		return 'X'
	case CellWhite:
		return 'O'
	default:
		return '.'
	}
}

func (c Cell) String() string {
	switch c {
	case CellBlack:
		return "black"
	case CellWhite:
		return "white"
	default:
		return "empty"
	}
}

// CellFromString accepts both the color names used in game documents and
// the X/O marks used on rendered boards.
func CellFromString(s string) (Cell, bool) {
	switch strings.ToLower(s) {
	case "black", "x":
		return CellBlack, true
	case "white", "o":
		return CellWhite, true
	default:
		return CellEmpty, false
	}
}

// Coordinate is a 0-indexed (row, col) pair. It is comparable and is used
// as a map key by the threat aggregator.
type Coordinate struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Direction is a unit step along one of the four scanned line directions.
type Direction struct {
	DRow int
	DCol int
}

// Board is a fixed-size grid of cells. It is not safe for concurrent use;
// each decision request must work on its own instance.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard() *Board {
	return &Board{
		size:  BoardSize,
		cells: make([]Cell, BoardSize*BoardSize),
	}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(c Coordinate) bool {
	return c.Row >= 0 && c.Col >= 0 && c.Row < b.size && c.Col < b.size
}

func (b *Board) index(c Coordinate) int {
	return c.Row*b.size + c.Col
}

// At returns the cell state at c.
func (b *Board) At(c Coordinate) (Cell, error) {
	if !b.InBounds(c) {
		return CellEmpty, errs.ErrOutOfBounds
	}
	return b.cells[b.index(c)], nil
}

// Place sets an empty cell to the given stone. The engine also uses it for
// scoped simulation: place, evaluate, then Clear to undo.
func (b *Board) Place(c Coordinate, stone Cell) error {
	if !b.InBounds(c) || b.cells[b.index(c)] != CellEmpty {
		return errs.ErrInvalidMove
	}
	b.cells[b.index(c)] = stone
	return nil
}

// Clear resets a cell to empty. It exists to undo a scoped simulation.
func (b *Board) Clear(c Coordinate) error {
	if !b.InBounds(c) {
		return errs.ErrInvalidMove
	}
	b.cells[b.index(c)] = CellEmpty
	return nil
}

// IsEmpty reports whether c is on the board and unoccupied.
func (b *Board) IsEmpty(c Coordinate) bool {
	return b.InBounds(c) && b.cells[b.index(c)] == CellEmpty
}

// LegalMoves lists every empty cell in row-major order.
func (b *Board) LegalMoves() []Coordinate {
	moves := make([]Coordinate, 0, len(b.cells))
	for row := 0; row < b.size; row++ {
		for col := 0; col < b.size; col++ {
			c := Coordinate{Row: row, Col: col}
			if b.cells[b.index(c)] == CellEmpty {
				moves = append(moves, c)
			}
		}
	}
	return moves
}

// StoneCount returns the total number of stones on the board.
func (b *Board) StoneCount() int {
	count := 0
	for _, cell := range b.cells {
		if cell != CellEmpty {
			count++
		}
	}
	return count
}

func (b *Board) Clone() *Board {
	clone := &Board{size: b.size, cells: make([]Cell, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

// Rows renders the board as one string per row, 'X'/'O'/'.' per cell. This
// is the transport and storage representation.
func (b *Board) Rows() []string {
	rows := make([]string, b.size)
	var sb strings.Builder
	for row := 0; row < b.size; row++ {
		sb.Reset()
		for col := 0; col < b.size; col++ {
			sb.WriteRune(b.cells[row*b.size+col].Rune())
		}
		rows[row] = sb.String()
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n")
}

// ParseBoard builds a board from its Rows representation. It is the inverse
// of Rows and is used by the delivery layer and by tests; the selector only
// ever sees the structured board.
func ParseBoard(rows []string) (*Board, error) {
	if len(rows) != BoardSize {
		return nil, errs.ErrInvalidMove
	}
	b := NewBoard()
	for row, line := range rows {
		if len(line) != BoardSize {
			return nil, errs.ErrInvalidMove
		}
		for col, ch := range line {
			c := Coordinate{Row: row, Col: col}
			switch ch {
			case 'X', 'x':
				b.cells[b.index(c)] = CellBlack
			case 'O', 'o':
				b.cells[b.index(c)] = CellWhite
			case '.':
			default:
				return nil, errs.ErrInvalidMove
			}
		}
	}
	return b, nil
}
