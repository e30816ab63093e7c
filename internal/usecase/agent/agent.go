package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"gomoku_agent/internal/domain/gomoku"
	errs "gomoku_agent/internal/errors"
	"gomoku_agent/internal/usecase/engine"
)

// LlmStore sends one consultation request to the model and returns the raw
// completion text.
type LlmStore interface {
	SendRequestToLlm(request string) (response string, err error)
}

// Decision sources, reported with every suggestion.
const (
	SourceTactical = "tactical"
	SourceLlm      = "llm"
	SourceFallback = "fallback"
)

// llmAttempts bounds the consultation retry loop before the deterministic
// fallback takes over.
const llmAttempts = 2

type Suggestion struct {
	Move      gomoku.Coordinate `json:"move"`
	Source    string            `json:"source"`
	Reasoning string            `json:"reasoning,omitempty"`
}

// AgentUseCase decides moves. The tactical engine acts as a pre-filter: a
// forced win, block or threat move skips the model entirely. The model is
// consulted only for quiet positions, and any absent, malformed or illegal
// answer falls back to the engine's full cascade.
type AgentUseCase struct {
	llm LlmStore
	log *zap.SugaredLogger
}

// NewAgentUseCase builds the usecase. A nil llm disables consultation; the
// agent then plays the deterministic cascade alone.
func NewAgentUseCase(llm LlmStore, log *zap.SugaredLogger) *AgentUseCase {
	return &AgentUseCase{llm: llm, log: log}
}

func (a *AgentUseCase) SuggestMove(b *gomoku.Board, mover gomoku.Cell, legal []gomoku.Coordinate) (Suggestion, error) {
	if len(legal) == 0 {
		return Suggestion{}, errs.ErrNoLegalMoves
	}

	if move, ok := engine.TacticalMove(b, mover, legal); ok {
		return Suggestion{Move: move, Source: SourceTactical}, nil
	}

	// The opening is a fixed center preference; consulting the model for
	// an empty board buys nothing.
	if a.llm != nil && b.StoneCount() > 0 {
		if suggestion, ok := a.consultLlm(b, mover, legal); ok {
			return suggestion, nil
		}
	}

	move, err := engine.SelectMove(b, mover, legal)
	if err != nil {
		return Suggestion{}, err
	}
	return Suggestion{Move: move, Source: SourceFallback}, nil
}

type llmMove struct {
	Reasoning string `json:"reasoning"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

func (a *AgentUseCase) consultLlm(b *gomoku.Board, mover gomoku.Cell, legal []gomoku.Coordinate) (Suggestion, bool) {
	request := buildMoveRequest(b, mover)

	for attempt := 1; attempt <= llmAttempts; attempt++ {
		response, err := a.llm.SendRequestToLlm(request)
		if err != nil {
			a.log.Errorf("llm consultation attempt %d failed: %v", attempt, err)
			continue
		}
		parsed, err := parseLlmMove(response)
		if err != nil {
			a.log.Warnf("llm response attempt %d unusable: %v", attempt, err)
			continue
		}
		move := gomoku.Coordinate{Row: parsed.Row, Col: parsed.Col}
		if !containsMove(legal, move) {
			// the request is identical and the temperature is zero, so a
			// retry replays the same illegal answer
			a.log.Warnf("llm suggested illegal move (%d,%d)", parsed.Row, parsed.Col)
			return Suggestion{}, false
		}
		return Suggestion{Move: move, Source: SourceLlm, Reasoning: parsed.Reasoning}, true
	}
	return Suggestion{}, false
}

// parseLlmMove extracts the JSON object between the first '{' and the last
// '}' of the completion; models routinely wrap the object in prose.
func parseLlmMove(response string) (llmMove, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return llmMove{}, fmt.Errorf("no JSON object in response")
	}
	var parsed llmMove
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return llmMove{}, err
	}
	return parsed, nil
}

func containsMove(legal []gomoku.Coordinate, move gomoku.Coordinate) bool {
	for _, c := range legal {
		if c == move {
			return true
		}
	}
	return false
}
