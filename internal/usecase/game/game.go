package game

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gomoku_agent/internal/domain/game"
	"gomoku_agent/internal/domain/gomoku"
	errs "gomoku_agent/internal/errors"
	"gomoku_agent/internal/statuses"
	agentuc "gomoku_agent/internal/usecase/agent"
	"gomoku_agent/internal/usecase/engine"
)

type GameStore interface {
	GenerateGameKeys(ctx context.Context) (gameKeySecret string, gameKeyPublic string)
	SaveGame(ctx context.Context, gameData game.Game) error
	GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error)
	GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error)
	DeleteGame(ctx context.Context, gameData game.Game) error
	ArchiveGame(ctx context.Context, gameData game.Game) error
	GetArchivedGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error)
	ListArchivedGames(ctx context.Context, pageNum int) (game.ArchivedGamesResponse, error)
}

type MoveSuggester interface {
	SuggestMove(b *gomoku.Board, mover gomoku.Cell, legal []gomoku.Coordinate) (agentuc.Suggestion, error)
}

type GameUseCase struct {
	store GameStore
	agent MoveSuggester
	log   *zap.SugaredLogger
}

func NewGameUseCase(store GameStore, agent MoveSuggester, log *zap.SugaredLogger) *GameUseCase {
	return &GameUseCase{store: store, agent: agent, log: log}
}

// CreateGame starts a game between a human and the agent. The human picks a
// stone (black by default, black moves first); when the agent holds black it
// plays its opening immediately.
func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.Game, error) {
	humanStone := gomoku.CellBlack
	if req.HumanStone != "" {
		stone, ok := gomoku.CellFromString(req.HumanStone)
		if !ok {
			return game.Game{}, fmt.Errorf("unknown stone %q: %w", req.HumanStone, errs.ErrCreateGameFailed)
		}
		humanStone = stone
	}

	gameKeySecret, gameKeyPublic := g.store.GenerateGameKeys(ctx)
	board := gomoku.NewBoard()

	gameData := game.Game{
		GameKeySecret: gameKeySecret,
		GameKeyPublic: gameKeyPublic,
		Status:        statuses.StatusRunning,
		HumanStone:    humanStone.String(),
		WhoIsNext:     gomoku.CellBlack.String(),
		CreatedAt:     time.Now(),
	}

	if humanStone == gomoku.CellWhite {
		if err := g.playAgentMove(board, &gameData, gomoku.CellBlack); err != nil {
			return game.Game{}, err
		}
		gameData.WhoIsNext = gomoku.CellWhite.String()
	}

	gameData.BoardRows = board.Rows()

	if err := g.store.SaveGame(ctx, gameData); err != nil {
		g.log.Errorf("failed to save new game: %v", err)
		return game.Game{}, errs.ErrCreateGameFailed
	}

	g.log.Infof("new game created with public key %s, human plays %s", gameKeyPublic, gameData.HumanStone)
	return gameData, nil
}

// ApplyMove places the human's stone, lets the agent answer, and persists
// the result. Finished games are archived and removed from the live store.
func (g *GameUseCase) ApplyMove(ctx context.Context, req game.MoveRequest) (game.Game, error) {
	gameData, err := g.store.GetGameBySecretKey(ctx, req.GameKeySecret)
	if err != nil {
		return game.Game{}, err
	}
	if gameData.Status != statuses.StatusRunning {
		return game.Game{}, errs.ErrGameFinished
	}

	board, err := gomoku.ParseBoard(gameData.BoardRows)
	if err != nil {
		return game.Game{}, fmt.Errorf("stored board is corrupt: %w", err)
	}

	humanStone, _ := gomoku.CellFromString(gameData.HumanStone)
	if gameData.WhoIsNext != humanStone.String() {
		return game.Game{}, errs.ErrNotYourTurn
	}

	move := gomoku.Coordinate{Row: req.Row, Col: req.Col}
	if err = board.Place(move, humanStone); err != nil {
		return game.Game{}, err
	}
	gameData.Moves = append(gameData.Moves, game.Move{
		Color: humanStone.String(),
		Row:   move.Row,
		Col:   move.Col,
	})

	switch {
	case engine.HasFive(board, move, humanStone):
		finishGame(&gameData, statuses.StatusFinished, humanStone.String())
	case board.StoneCount() == board.Size()*board.Size():
		finishGame(&gameData, statuses.StatusDraw, "")
	default:
		agentStone := humanStone.Opponent()
		if err = g.playAgentMove(board, &gameData, agentStone); err != nil {
			return game.Game{}, err
		}
		agentMove := gameData.Moves[len(gameData.Moves)-1]
		switch {
		case engine.HasFive(board, gomoku.Coordinate{Row: agentMove.Row, Col: agentMove.Col}, agentStone):
			finishGame(&gameData, statuses.StatusFinished, agentStone.String())
		case board.StoneCount() == board.Size()*board.Size():
			finishGame(&gameData, statuses.StatusDraw, "")
		default:
			gameData.WhoIsNext = humanStone.String()
		}
	}

	gameData.BoardRows = board.Rows()

	if gameData.Status == statuses.StatusRunning {
		if err = g.store.SaveGame(ctx, gameData); err != nil {
			return game.Game{}, err
		}
		return gameData, nil
	}

	if err = g.store.ArchiveGame(ctx, gameData); err != nil {
		return game.Game{}, err
	}
	if err = g.store.DeleteGame(ctx, gameData); err != nil {
		g.log.Errorf("failed to drop finished game from live store: %v", err)
	}
	return gameData, nil
}

// GetGameByPublicKey looks a game up in the live store first, then in the
// archive.
func (g *GameUseCase) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	gameData, err := g.store.GetGameByPublicKey(ctx, gameKeyPublic)
	if err == nil {
		// live games are looked up by key only; don't leak the move key
		gameData.GameKeySecret = ""
		return gameData, nil
	}
	return g.store.GetArchivedGameByPublicKey(ctx, gameKeyPublic)
}

// GetArchivedGames returns one page of finished games. Secret keys are
// stripped: the listing is public.
func (g *GameUseCase) GetArchivedGames(ctx context.Context, pageNum int) (game.ArchivedGamesResponse, error) {
	page, err := g.store.ListArchivedGames(ctx, pageNum)
	if err != nil {
		return game.ArchivedGamesResponse{}, err
	}
	for i := range page.Games {
		page.Games[i].GameKeySecret = ""
	}
	return page, nil
}

func (g *GameUseCase) playAgentMove(board *gomoku.Board, gameData *game.Game, agentStone gomoku.Cell) error {
	suggestion, err := g.agent.SuggestMove(board, agentStone, board.LegalMoves())
	if err != nil {
		return fmt.Errorf("agent has no move: %w", err)
	}
	if err = board.Place(suggestion.Move, agentStone); err != nil {
		return fmt.Errorf("agent produced an unplayable move: %w", err)
	}
	gameData.Moves = append(gameData.Moves, game.Move{
		Color:  agentStone.String(),
		Row:    suggestion.Move.Row,
		Col:    suggestion.Move.Col,
		Source: suggestion.Source,
	})
	return nil
}

func finishGame(gameData *game.Game, status string, winner string) {
	now := time.Now()
	gameData.Status = status
	gameData.Winner = winner
	gameData.WhoIsNext = ""
	gameData.FinishedAt = &now
}
