package game

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"gomoku_agent/internal/domain/game"
	"gomoku_agent/internal/domain/gomoku"
	errs "gomoku_agent/internal/errors"
	"gomoku_agent/internal/statuses"
	agentuc "gomoku_agent/internal/usecase/agent"
)

type fakeStore struct {
	games     map[string]game.Game
	archived  []game.Game
	keySeq    int
	pageLimit int
}

func newFakeStore() *fakeStore {
	return &fakeStore{games: make(map[string]game.Game), pageLimit: 2}
}

func (f *fakeStore) GenerateGameKeys(ctx context.Context) (string, string) {
	f.keySeq++
	return fmt.Sprintf("secret-%d", f.keySeq), fmt.Sprintf("%05d", f.keySeq)
}

func (f *fakeStore) SaveGame(ctx context.Context, gameData game.Game) error {
	f.games[gameData.GameKeySecret] = gameData
	return nil
}

func (f *fakeStore) GetGameBySecretKey(ctx context.Context, key string) (game.Game, error) {
	gameData, ok := f.games[key]
	if !ok {
		return game.Game{}, errs.ErrGameNotFound
	}
	return gameData, nil
}

func (f *fakeStore) GetGameByPublicKey(ctx context.Context, public string) (game.Game, error) {
	for _, gameData := range f.games {
		if gameData.GameKeyPublic == public {
			return gameData, nil
		}
	}
	return game.Game{}, errs.ErrGameNotFound
}

func (f *fakeStore) DeleteGame(ctx context.Context, gameData game.Game) error {
	delete(f.games, gameData.GameKeySecret)
	return nil
}

func (f *fakeStore) ArchiveGame(ctx context.Context, gameData game.Game) error {
	f.archived = append(f.archived, gameData)
	return nil
}

func (f *fakeStore) ListArchivedGames(ctx context.Context, pageNum int) (game.ArchivedGamesResponse, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	start := (pageNum - 1) * f.pageLimit
	end := start + f.pageLimit
	if start > len(f.archived) {
		start = len(f.archived)
	}
	if end > len(f.archived) {
		end = len(f.archived)
	}
	return game.ArchivedGamesResponse{
		PageNum:    pageNum,
		TotalPages: (len(f.archived) + f.pageLimit - 1) / f.pageLimit,
		Games:      append([]game.Game(nil), f.archived[start:end]...),
	}, nil
}

func (f *fakeStore) GetArchivedGameByPublicKey(ctx context.Context, public string) (game.Game, error) {
	for _, gameData := range f.archived {
		if gameData.GameKeyPublic == public {
			return gameData, nil
		}
	}
	return game.Game{}, errs.ErrGameNotFound
}

func newTestUseCase() (*GameUseCase, *fakeStore) {
	log := zap.NewNop().Sugar()
	store := newFakeStore()
	return NewGameUseCase(store, agentuc.NewAgentUseCase(nil, log), log), store
}

func TestCreateGameHumanBlack(t *testing.T) {
	uc, store := newTestUseCase()

	gameData, err := uc.CreateGame(context.Background(), game.CreateGameRequest{})
	if err != nil {
		t.Fatalf("expected game, got %v", err)
	}
	if gameData.Status != statuses.StatusRunning {
		t.Fatalf("expected running status, got %s", gameData.Status)
	}
	if gameData.HumanStone != "black" || gameData.WhoIsNext != "black" {
		t.Fatalf("expected human black to move first, got stone %s next %s", gameData.HumanStone, gameData.WhoIsNext)
	}
	if len(gameData.Moves) != 0 {
		t.Fatalf("expected no moves yet, got %d", len(gameData.Moves))
	}
	if _, ok := store.games[gameData.GameKeySecret]; !ok {
		t.Fatal("expected game saved to the live store")
	}
}

func TestCreateGameHumanWhiteAgentOpens(t *testing.T) {
	uc, _ := newTestUseCase()

	gameData, err := uc.CreateGame(context.Background(), game.CreateGameRequest{HumanStone: "white"})
	if err != nil {
		t.Fatalf("expected game, got %v", err)
	}
	if len(gameData.Moves) != 1 {
		t.Fatalf("expected the agent's opening move, got %d moves", len(gameData.Moves))
	}
	opening := gameData.Moves[0]
	if opening.Color != "black" {
		t.Fatalf("expected black opening, got %s", opening.Color)
	}
	if opening.Row != 3 || opening.Col != 3 {
		t.Fatalf("expected center opening (3,3), got (%d,%d)", opening.Row, opening.Col)
	}
	if gameData.WhoIsNext != "white" {
		t.Fatalf("expected white to move, got %s", gameData.WhoIsNext)
	}
}

func TestCreateGameRejectsUnknownStone(t *testing.T) {
	uc, _ := newTestUseCase()
	_, err := uc.CreateGame(context.Background(), game.CreateGameRequest{HumanStone: "green"})
	if !errors.Is(err, errs.ErrCreateGameFailed) {
		t.Fatalf("expected ErrCreateGameFailed, got %v", err)
	}
}

func TestApplyMoveAgentReplies(t *testing.T) {
	uc, _ := newTestUseCase()
	created, err := uc.CreateGame(context.Background(), game.CreateGameRequest{})
	if err != nil {
		t.Fatalf("expected game, got %v", err)
	}

	updated, err := uc.ApplyMove(context.Background(), game.MoveRequest{
		GameKeySecret: created.GameKeySecret,
		Row:           3,
		Col:           3,
	})
	if err != nil {
		t.Fatalf("expected move to apply, got %v", err)
	}
	if len(updated.Moves) != 2 {
		t.Fatalf("expected human move plus agent reply, got %d moves", len(updated.Moves))
	}
	if updated.Moves[1].Color != "white" || updated.Moves[1].Source == "" {
		t.Fatalf("expected sourced white reply, got %+v", updated.Moves[1])
	}
	if updated.WhoIsNext != "black" {
		t.Fatalf("expected black to move again, got %s", updated.WhoIsNext)
	}

	board, err := gomoku.ParseBoard(updated.BoardRows)
	if err != nil {
		t.Fatalf("expected stored board to parse, got %v", err)
	}
	if board.StoneCount() != 2 {
		t.Fatalf("expected 2 stones on board, got %d", board.StoneCount())
	}
}

func TestApplyMoveRejectsOccupiedCell(t *testing.T) {
	uc, _ := newTestUseCase()
	created, err := uc.CreateGame(context.Background(), game.CreateGameRequest{HumanStone: "white"})
	if err != nil {
		t.Fatalf("expected game, got %v", err)
	}

	// the agent opened on (3,3)
	_, err = uc.ApplyMove(context.Background(), game.MoveRequest{
		GameKeySecret: created.GameKeySecret,
		Row:           3,
		Col:           3,
	})
	if !errors.Is(err, errs.ErrInvalidMove) {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
}

func TestApplyMoveHumanWinArchivesGame(t *testing.T) {
	uc, store := newTestUseCase()

	gameData := game.Game{
		GameKeySecret: "secret-win",
		GameKeyPublic: "90001",
		Status:        statuses.StatusRunning,
		HumanStone:    "black",
		WhoIsNext:     "black",
		CreatedAt:     time.Now(),
		BoardRows: []string{
			"........",
			"........",
			"........",
			".XXXX...",
			"O.......",
			"O.......",
			"O.......",
			"........",
		},
	}
	store.games[gameData.GameKeySecret] = gameData

	updated, err := uc.ApplyMove(context.Background(), game.MoveRequest{
		GameKeySecret: "secret-win",
		Row:           3,
		Col:           5,
	})
	if err != nil {
		t.Fatalf("expected winning move to apply, got %v", err)
	}
	if updated.Status != statuses.StatusFinished {
		t.Fatalf("expected finished status, got %s", updated.Status)
	}
	if updated.Winner != "black" {
		t.Fatalf("expected black winner, got %q", updated.Winner)
	}
	if updated.FinishedAt == nil {
		t.Fatal("expected a finish timestamp")
	}
	if len(store.archived) != 1 {
		t.Fatalf("expected 1 archived game, got %d", len(store.archived))
	}
	if _, ok := store.games["secret-win"]; ok {
		t.Fatal("expected finished game removed from the live store")
	}
}

func TestApplyMoveOnFinishedGame(t *testing.T) {
	uc, store := newTestUseCase()
	store.games["done"] = game.Game{
		GameKeySecret: "done",
		Status:        statuses.StatusFinished,
	}
	_, err := uc.ApplyMove(context.Background(), game.MoveRequest{GameKeySecret: "done", Row: 0, Col: 0})
	if !errors.Is(err, errs.ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}
}

func TestApplyMoveUnknownGame(t *testing.T) {
	uc, _ := newTestUseCase()
	_, err := uc.ApplyMove(context.Background(), game.MoveRequest{GameKeySecret: "missing", Row: 0, Col: 0})
	if !errors.Is(err, errs.ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}

func TestGetArchivedGamesPagesAndStripsSecrets(t *testing.T) {
	uc, store := newTestUseCase()
	for i := 0; i < 3; i++ {
		store.archived = append(store.archived, game.Game{
			GameKeySecret: fmt.Sprintf("secret-%d", i),
			GameKeyPublic: fmt.Sprintf("8000%d", i),
			Status:        statuses.StatusFinished,
		})
	}

	page, err := uc.GetArchivedGames(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected a page, got %v", err)
	}
	if page.PageNum != 1 || page.TotalPages != 2 {
		t.Fatalf("expected page 1 of 2, got page %d of %d", page.PageNum, page.TotalPages)
	}
	if len(page.Games) != 2 {
		t.Fatalf("expected 2 games on the first page, got %d", len(page.Games))
	}
	for _, gameData := range page.Games {
		if gameData.GameKeySecret != "" {
			t.Fatalf("expected secret key stripped from listing, got %q", gameData.GameKeySecret)
		}
	}

	page, err = uc.GetArchivedGames(context.Background(), 2)
	if err != nil {
		t.Fatalf("expected a page, got %v", err)
	}
	if len(page.Games) != 1 {
		t.Fatalf("expected 1 game on the last page, got %d", len(page.Games))
	}
}

func TestGetGameByPublicKeyFallsBackToArchive(t *testing.T) {
	uc, store := newTestUseCase()
	store.archived = append(store.archived, game.Game{
		GameKeyPublic: "70001",
		Status:        statuses.StatusFinished,
		Winner:        "white",
	})
	gameData, err := uc.GetGameByPublicKey(context.Background(), "70001")
	if err != nil {
		t.Fatalf("expected archived game, got %v", err)
	}
	if gameData.Winner != "white" {
		t.Fatalf("expected white winner from archive, got %q", gameData.Winner)
	}
}
