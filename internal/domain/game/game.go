package game

import (
	"time"
)

// Game is the live/archived game document. Live games are kept in Redis
// keyed by the secret key; finished games move to the Mongo archive. The
// public key is what players share and look games up by.
type Game struct {
	GameKeySecret string     `json:"game_key_secret" bson:"game_key_secret"`
	GameKeyPublic string     `json:"game_key_public" bson:"game_key_public"`
	Status        string     `json:"status" bson:"status"`
	BoardRows     []string   `json:"board" bson:"board"`
	HumanStone    string     `json:"human_stone" bson:"human_stone"`
	WhoIsNext     string     `json:"who_is_next" bson:"who_is_next"`
	Moves         []Move     `json:"moves" bson:"moves"`
	Winner        string     `json:"winner,omitempty" bson:"winner,omitempty"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	FinishedAt    *time.Time `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
}

// Move records one placed stone. Source is set on agent moves only and
// names the decision path (tactical / llm / fallback).
type Move struct {
	Color  string `json:"color" bson:"color"`
	Row    int    `json:"row" bson:"row"`
	Col    int    `json:"col" bson:"col"`
	Source string `json:"source,omitempty" bson:"source,omitempty"`
}

type CreateGameRequest struct {
	HumanStone string `json:"human_stone"`
}

type CreateGameResponse struct {
	GameKeySecret string   `json:"game_key_secret"`
	GameKeyPublic string   `json:"game_key_public"`
	Status        string   `json:"status"`
	Board         []string `json:"board"`
	HumanStone    string   `json:"human_stone"`
	WhoIsNext     string   `json:"who_is_next"`
	AgentMove     *Move    `json:"agent_move,omitempty"`
}

type MoveRequest struct {
	GameKeySecret string `json:"game_key_secret"`
	Row           int    `json:"row"`
	Col           int    `json:"col"`
}

// PlayMoveRequest is the websocket frame a player sends during live play.
type PlayMoveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type MoveResponse struct {
	Status    string   `json:"status"`
	Board     []string `json:"board"`
	WhoIsNext string   `json:"who_is_next"`
	AgentMove *Move    `json:"agent_move,omitempty"`
	Winner    string   `json:"winner,omitempty"`
}

type GetGameRequest struct {
	GameKeyPublic string `json:"game_key_public"`
}

// ArchivedGamesResponse is one page of the finished-game archive, newest
// first.
type ArchivedGamesResponse struct {
	PageNum    int    `json:"page_num"`
	TotalPages int    `json:"total_pages"`
	Games      []Game `json:"games"`
}
