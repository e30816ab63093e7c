package agent

import (
	"fmt"
	"strings"

	"gomoku_agent/internal/domain/gomoku"
)

const systemPrompt = `You are a TACTICAL Gomoku expert on an 8x8 board. Priorities:
1) Win now (create 5 in a row)
2) Block the opponent's win (their 4 plus an empty square)
3) Block the opponent's open and broken threes on rows, columns, and BOTH diagonals (\ and /)
4) Build your strongest lines and forks, but NEVER allow an immediate opponent win next move

Rules:
- Avoid edge moves early unless they win or block a win.
- Do not play a move that lets the opponent create 5 in a row on their very next move.

Return JSON only:
{"reasoning": "...", "row": <int>, "col": <int>}`

// buildMoveRequest renders the consultation request for one decision. The
// model only ever sees this text; the board itself stays structured on our
// side.
func buildMoveRequest(b *gomoku.Board, mover gomoku.Cell) string {
	var sb strings.Builder
	sb.WriteString(systemPrompt)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "You: %c | Opponent: %c | Move #%d\n", mover.Rune(), mover.Opponent().Rune(), b.StoneCount()+1)
	sb.WriteString("Board:\n")
	sb.WriteString(b.String())
	sb.WriteString("\n")
	sb.WriteString("- First check wins and blocks on rows/cols/diagonals (\\ and /)\n")
	sb.WriteString("- Block .XXX., XXX., .XXX, X.XX, XX.X patterns\n")
	sb.WriteString("- Avoid edges early and avoid any move that lets the opponent win next turn\n")
	sb.WriteString("Return JSON only.")
	return sb.String()
}
