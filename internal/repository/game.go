package repository

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gomoku_agent/internal/bootstrap"
	"gomoku_agent/internal/domain/game"
	errs "gomoku_agent/internal/errors"
)

const (
	gameKeyPrefix      = "game:"
	publicKeyPrefix    = "game_public:"
	archiveCollection  = "games"
	storeClientTimeout = 5 * time.Second
)

// GameRepository keeps running games in Redis (with a TTL so abandoned
// games expire) and moves finished ones to the Mongo archive.
type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

// GenerateGameKeys returns a uuid secret key and a short public key derived
// from it. The public key is regenerated until unused.
func (g *GameRepository) GenerateGameKeys(ctx context.Context) (gameKeySecret string, gameKeyPublic string) {
	for {
		gameKeySecret = uuid.New().String()
		gameKeyPublic = generateHash(gameKeySecret)

		if g.publicKeyIsFree(ctx, gameKeyPublic) {
			return gameKeySecret, gameKeyPublic
		}
	}
}

func generateHash(s string) string {
	h := md5.New()
	h.Write([]byte(s))
	hashBytes := h.Sum(nil)
	number := binary.BigEndian.Uint32(hashBytes[:4])
	code := number % 100000
	return fmt.Sprintf("%05d", code)
}

func (g *GameRepository) publicKeyIsFree(ctx context.Context, gameKeyPublic string) bool {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	if err := g.redis.Get(ctx, publicKeyPrefix+gameKeyPublic).Err(); err == nil {
		return false
	}

	filter := bson.M{"game_key_public": gameKeyPublic}
	err := g.mongo.Collection(archiveCollection).FindOne(ctx, filter).Err()
	return errors.Is(err, mongo.ErrNoDocuments)
}

func (g *GameRepository) SaveGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	raw, err := json.Marshal(gameData)
	if err != nil {
		return fmt.Errorf("failed to marshal game: %w", err)
	}

	ttl := time.Duration(g.cfg.GameTTLMinutes) * time.Minute
	if err = g.redis.Set(ctx, gameKeyPrefix+gameData.GameKeySecret, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save game to redis: %w", err)
	}
	if err = g.redis.Set(ctx, publicKeyPrefix+gameData.GameKeyPublic, gameData.GameKeySecret, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save game public key to redis: %w", err)
	}
	return nil
}

func (g *GameRepository) GetGameBySecretKey(ctx context.Context, gameKeySecret string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	raw, err := g.redis.Get(ctx, gameKeyPrefix+gameKeySecret).Bytes()
	if errors.Is(err, redis.Nil) {
		return game.Game{}, errs.ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("failed to load game from redis: %w", err)
	}

	var gameData game.Game
	if err = json.Unmarshal(raw, &gameData); err != nil {
		return game.Game{}, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return gameData, nil
}

func (g *GameRepository) GetGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	secret, err := g.redis.Get(ctx, publicKeyPrefix+gameKeyPublic).Result()
	if errors.Is(err, redis.Nil) {
		return game.Game{}, errs.ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("failed to resolve game public key: %w", err)
	}
	return g.GetGameBySecretKey(ctx, secret)
}

func (g *GameRepository) DeleteGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	if err := g.redis.Del(ctx, gameKeyPrefix+gameData.GameKeySecret, publicKeyPrefix+gameData.GameKeyPublic).Err(); err != nil {
		return fmt.Errorf("failed to delete game from redis: %w", err)
	}
	return nil
}

func (g *GameRepository) ArchiveGame(ctx context.Context, gameData game.Game) error {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	if _, err := g.mongo.Collection(archiveCollection).InsertOne(ctx, gameData); err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}
	g.log.Infof("game archived with public key: %s", gameData.GameKeyPublic)
	return nil
}

// ListArchivedGames returns one page of the archive, newest finished game
// first. Page numbers start at 1.
func (g *GameRepository) ListArchivedGames(ctx context.Context, pageNum int) (game.ArchivedGamesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	if pageNum < 1 {
		pageNum = 1
	}
	pageLimit := g.cfg.PageLimitGames

	collection := g.mongo.Collection(archiveCollection)
	total, err := collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return game.ArchivedGamesResponse{}, fmt.Errorf("failed to count archived games: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "finished_at", Value: -1}}).
		SetSkip(int64((pageNum - 1) * pageLimit)).
		SetLimit(int64(pageLimit))

	cursor, err := collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return game.ArchivedGamesResponse{}, fmt.Errorf("failed to list archived games: %w", err)
	}
	defer cursor.Close(ctx)

	games := make([]game.Game, 0, pageLimit)
	if err = cursor.All(ctx, &games); err != nil {
		return game.ArchivedGamesResponse{}, fmt.Errorf("failed to decode archived games: %w", err)
	}

	return game.ArchivedGamesResponse{
		PageNum:    pageNum,
		TotalPages: int((total + int64(pageLimit) - 1) / int64(pageLimit)),
		Games:      games,
	}, nil
}

func (g *GameRepository) GetArchivedGameByPublicKey(ctx context.Context, gameKeyPublic string) (game.Game, error) {
	ctx, cancel := context.WithTimeout(ctx, storeClientTimeout)
	defer cancel()

	filter := bson.M{"game_key_public": gameKeyPublic}

	var gameData game.Game
	err := g.mongo.Collection(archiveCollection).FindOne(ctx, filter).Decode(&gameData)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.Game{}, errs.ErrGameNotFound
	}
	if err != nil {
		return game.Game{}, fmt.Errorf("failed to load archived game: %w", err)
	}
	return gameData, nil
}
