package game

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gomoku_agent/internal/bootstrap"
	"gomoku_agent/internal/domain/game"
	errs "gomoku_agent/internal/errors"
	"gomoku_agent/internal/httpresponse"
	"gomoku_agent/internal/statuses"
	gameuc "gomoku_agent/internal/usecase/game"
	"gomoku_agent/internal/utils"
)

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameUC,
	}
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("HandleNewGame: only POST method is allowed")
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Errorf("HandleNewGame: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	gameData, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.log.Errorf("HandleNewGame: %v", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	resp := game.CreateGameResponse{
		GameKeySecret: gameData.GameKeySecret,
		GameKeyPublic: gameData.GameKeyPublic,
		Status:        gameData.Status,
		Board:         gameData.BoardRows,
		HumanStone:    gameData.HumanStone,
		WhoIsNext:     gameData.WhoIsNext,
		AgentMove:     lastAgentMove(gameData),
	}

	g.log.Infof("new game created with public key: %s", gameData.GameKeyPublic)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("HandleMove: only POST method is allowed")
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Errorf("HandleMove: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	gameData, err := g.gameUC.ApplyMove(r.Context(), req)
	if err != nil {
		g.log.Errorf("HandleMove: %v", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, moveResponse(gameData))
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("HandleGetGame: only POST method is allowed")
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req game.GetGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Errorf("HandleGetGame: %v", err)
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	gameData, err := g.gameUC.GetGameByPublicKey(r.Context(), req.GameKeyPublic)
	if err != nil {
		g.log.Errorf("HandleGetGame: %v", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, gameData)
}

// HandleListGames serves one page of the finished-game archive. The page
// query parameter defaults to 1.
func (g *GameHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		g.log.Error("HandleListGames: only GET method is allowed")
		httpresponse.WriteErrorResponse(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
		return
	}

	pageNum := 1
	if page := r.URL.Query().Get("page"); page != "" {
		parsed, err := strconv.Atoi(page)
		if err != nil || parsed < 1 {
			g.log.Errorf("HandleListGames: bad page %q", page)
			httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		pageNum = parsed
	}

	gamesPage, err := g.gameUC.GetArchivedGames(r.Context(), pageNum)
	if err != nil {
		g.log.Errorf("HandleListGames: %v", err)
		httpresponse.WriteErrorResponse(w, statusForError(err), err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, gamesPage)
}

// HandlePlayGame runs a live game over a websocket: the player sends
// {"row":r,"col":c} frames, the server answers each with the agent's reply
// and the game status, and closes after the final frame.
func (g *GameHandler) HandlePlayGame(w http.ResponseWriter, r *http.Request) {
	gameKeySecret := r.URL.Query().Get("game_key")
	if gameKeySecret == "" {
		g.log.Error("HandlePlayGame: missing game_key")
		httpresponse.WriteErrorResponse(w, http.StatusBadRequest, "missing game_key query parameter")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("HandlePlayGame: upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		var frame game.PlayMoveRequest
		if err = conn.ReadJSON(&frame); err != nil {
			g.log.Infof("HandlePlayGame: connection closed: %v", err)
			return
		}

		gameData, err := g.gameUC.ApplyMove(ctx, game.MoveRequest{
			GameKeySecret: gameKeySecret,
			Row:           frame.Row,
			Col:           frame.Col,
		})
		if err != nil {
			if writeErr := conn.WriteJSON(httpresponse.ErrorResponse{ErrorDescription: err.Error()}); writeErr != nil {
				return
			}
			if errors.Is(err, errs.ErrGameNotFound) || errors.Is(err, errs.ErrGameFinished) {
				return
			}
			continue
		}

		if err = conn.WriteJSON(moveResponse(gameData)); err != nil {
			g.log.Errorf("HandlePlayGame: write error: %v", err)
			return
		}
		if gameData.Status != statuses.StatusRunning {
			return
		}
	}
}

func moveResponse(gameData game.Game) game.MoveResponse {
	return game.MoveResponse{
		Status:    gameData.Status,
		Board:     gameData.BoardRows,
		WhoIsNext: gameData.WhoIsNext,
		AgentMove: lastAgentMove(gameData),
		Winner:    gameData.Winner,
	}
}

// lastAgentMove returns the agent's reply when the last turn ended with
// one.
func lastAgentMove(gameData game.Game) *game.Move {
	if len(gameData.Moves) == 0 {
		return nil
	}
	move := gameData.Moves[len(gameData.Moves)-1]
	if move.Color == gameData.HumanStone {
		return nil
	}
	return &move
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidMove),
		errors.Is(err, errs.ErrNotYourTurn),
		errors.Is(err, errs.ErrGameFinished),
		errors.Is(err, errs.ErrCreateGameFailed):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNoLegalMoves):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
