package agent

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"gomoku_agent/internal/domain/gomoku"
	errs "gomoku_agent/internal/errors"
	"gomoku_agent/internal/httpresponse"
	agentuc "gomoku_agent/internal/usecase/agent"
	"gomoku_agent/internal/utils"
)

// SuggestMoveRequest carries a structured board snapshot: one string per
// row, 'X'/'O'/'.' per cell. The legal-move list is optional; when omitted
// every empty cell is playable.
type SuggestMoveRequest struct {
	Board      []string            `json:"board"`
	Player     string              `json:"player"`
	LegalMoves []gomoku.Coordinate `json:"legal_moves,omitempty"`
}

type SuggestMoveResponse struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Source    string `json:"source"`
	Reasoning string `json:"reasoning,omitempty"`
}

type AgentHandler struct {
	log     *zap.SugaredLogger
	agentUC *agentuc.AgentUseCase
}

func NewAgentHandler(log *zap.SugaredLogger, agentUC *agentuc.AgentUseCase) *AgentHandler {
	return &AgentHandler{log: log, agentUC: agentUC}
}

// HandleSuggestMove exposes the selector standalone: board in, one
// coordinate out. Games hosted by this service go through the same usecase.
func (h *AgentHandler) HandleSuggestMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.log.Error("HandleSuggestMove: only POST method is allowed")
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req SuggestMoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Errorf("HandleSuggestMove: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	board, err := gomoku.ParseBoard(req.Board)
	if err != nil {
		h.log.Errorf("HandleSuggestMove: bad board: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "board must be 8 rows of 8 cells using X, O and .")
		return
	}

	mover, ok := gomoku.CellFromString(req.Player)
	if !ok {
		h.log.Errorf("HandleSuggestMove: bad player %q", req.Player)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "player must be X, O, black or white")
		return
	}

	legal := req.LegalMoves
	if legal == nil {
		legal = board.LegalMoves()
	} else {
		playable := make([]gomoku.Coordinate, 0, len(legal))
		for _, c := range legal {
			if board.IsEmpty(c) {
				playable = append(playable, c)
			}
		}
		legal = playable
	}

	suggestion, err := h.agentUC.SuggestMove(board, mover, legal)
	if errors.Is(err, errs.ErrNoLegalMoves) {
		httpresponse.WriteErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.log.Errorf("HandleSuggestMove: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, SuggestMoveResponse{
		Row:       suggestion.Move.Row,
		Col:       suggestion.Move.Col,
		Source:    suggestion.Source,
		Reasoning: suggestion.Reasoning,
	})
}
