package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rocketscienceinc/gomoku-backend/internal/agent"
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/match"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
)

var (
	ErrInvalidOpponent = errors.New("opponent must be an automated agent")
	ErrEmptyPlayerID   = errors.New("player id is required")
)

type sessionRepo interface {
	CreateOrUpdate(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, playerID string) (*entity.Session, error)
	DeleteByID(ctx context.Context, playerID string) error
}

type matchRepo interface {
	Save(ctx context.Context, record *entity.MatchRecord) error
}

// GameState is what clients see of a session.
type GameState struct {
	ID         string        `json:"id"`
	BoardSize  int           `json:"board_size"`
	Board      []string      `json:"board"`
	HumanStone entity.Stone  `json:"human_stone"`
	Opponent   string        `json:"opponent"`
	ToMove     entity.Stone  `json:"to_move"`
	Moves      []entity.Move `json:"moves"`
	LastMove   *entity.Move  `json:"last_move,omitempty"`
	Status     string        `json:"status"`
	Winner     entity.Stone  `json:"winner"`
}

// GameManager runs human versus agent games whose state lives in storage
// between turns.
type GameManager struct {
	logger *slog.Logger

	sessionRepo sessionRepo
	matchRepo   matchRepo

	boardSize         int
	maxIllegalRetries int
	defaultOpponent   string

	newID    func() string
	newAgent func(name string) (gomoku.Agent, error)
	coinFlip func() bool
}

func NewGameManager(
	logger *slog.Logger,
	sessionRepo sessionRepo,
	matchRepo matchRepo,
	boardSize, maxIllegalRetries int,
	defaultOpponent string,
) *GameManager {
	if maxIllegalRetries <= 0 {
		maxIllegalRetries = match.DefaultMaxIllegalRetries
	}

	rnd := rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // colour draw

	return &GameManager{
		logger: logger,

		sessionRepo: sessionRepo,
		matchRepo:   matchRepo,

		boardSize:         boardSize,
		maxIllegalRetries: maxIllegalRetries,
		defaultOpponent:   strings.ToLower(defaultOpponent),

		newID: uuid.NewString,
		newAgent: func(name string) (gomoku.Agent, error) {
			return agent.New(name, agent.Options{})
		},
		coinFlip: func() bool { return rnd.Intn(2) == 0 },
	}
}

// GetOrCreateGame returns the player's running game or starts a new one
// against opponent. An empty opponent means the configured default and an
// Empty stone lets the server draw the colours. A running game that does not
// match an explicit opponent or stone is returned with
// apperror.ErrGameInProgress. When the agent plays Black its opening move is
// already on the returned board.
func (that *GameManager) GetOrCreateGame(ctx context.Context, playerID, opponent string, human entity.Stone) (*GameState, error) {
	log := that.logger.With("method", "GetOrCreateGame", "playerID", playerID)

	if playerID == "" {
		return nil, ErrEmptyPlayerID
	}

	opponent = strings.ToLower(strings.TrimSpace(opponent))

	existing, err := that.sessionRepo.GetByID(ctx, playerID)
	if err == nil {
		game, err := that.restore(existing)
		if err != nil {
			return nil, err
		}

		state := newGameState(existing, game)
		if (opponent != "" && opponent != existing.Opponent) || (human.IsPlayer() && human != existing.HumanStone) {
			return state, apperror.ErrGameInProgress
		}

		return state, nil
	}

	if !errors.Is(err, repository.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if opponent == "" {
		opponent = that.defaultOpponent
	}

	if !agent.Known(opponent) || !agent.Automated(opponent) {
		return nil, fmt.Errorf("%w: %q, available: %s", ErrInvalidOpponent, opponent, strings.Join(automatedAgents(), ", "))
	}

	if !human.IsPlayer() {
		human = entity.White
		if that.coinFlip() {
			human = entity.Black
		}
	}

	session := entity.NewSession(that.newID(), playerID, opponent, that.boardSize, human)

	game, err := that.restore(session)
	if err != nil {
		return nil, err
	}

	if err = that.agentTurn(ctx, game); err != nil {
		return nil, err
	}

	session.Moves = game.Moves()
	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Info("game created", "sessionID", session.ID, "opponent", session.Opponent, "human", human.Name())

	return newGameState(session, game), nil
}

// MakeTurn plays the human move and the agent's answer. An illegal move
// returns apperror.ErrIllegalMove with the unchanged state. When the game
// ends the session is archived and apperror.ErrGameFinished is returned with
// the final state. An agent that exhausts its illegal move budget resigns.
func (that *GameManager) MakeTurn(ctx context.Context, playerID string, move entity.Move) (*GameState, error) {
	log := that.logger.With("method", "MakeTurn", "playerID", playerID)

	session, err := that.getSession(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game, err := that.restore(session)
	if err != nil {
		return nil, err
	}

	if game.ToMove() != session.HumanStone {
		return newGameState(session, game), apperror.ErrNotYourTurn
	}

	if !game.Step(move) {
		return newGameState(session, game), fmt.Errorf("%w: %s", apperror.ErrIllegalMove, move)
	}

	var illegal *match.IllegalMoveError
	err = that.agentTurn(ctx, game)
	if errors.As(err, &illegal) {
		session.Moves = game.Moves()
		session.Winner = illegal.Stone.Opponent()
		that.archive(ctx, session)
		log.Warn("agent resigned after illegal moves", "sessionID", session.ID, "agent", illegal.Agent, "count", illegal.Count)

		return newGameState(session, game), apperror.ErrGameFinished
	}

	if err != nil {
		return nil, err
	}

	session.Moves = game.Moves()

	if game.IsOver() {
		that.finish(ctx, session, game)
		log.Info("game finished", "sessionID", session.ID, "winner", session.Winner.Name())

		return newGameState(session, game), apperror.ErrGameFinished
	}

	if err = that.sessionRepo.CreateOrUpdate(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	return newGameState(session, game), nil
}

func (that *GameManager) GetGame(ctx context.Context, playerID string) (*GameState, error) {
	session, err := that.getSession(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game, err := that.restore(session)
	if err != nil {
		return nil, err
	}

	return newGameState(session, game), nil
}

// Resign ends the player's game as a loss.
func (that *GameManager) Resign(ctx context.Context, playerID string) (*GameState, error) {
	session, err := that.getSession(ctx, playerID)
	if err != nil {
		return nil, err
	}

	game, err := that.restore(session)
	if err != nil {
		return nil, err
	}

	session.Winner = session.AgentStone()
	that.archive(ctx, session)

	return newGameState(session, game), nil
}

// agentTurn lets the agent move when it is its turn, within the illegal move budget.
func (that *GameManager) agentTurn(ctx context.Context, game *gomoku.Game) error {
	for attempt := 1; !game.IsOver() && game.AgentForTurn() != nil; attempt++ {
		applied, err := game.MaybeAIMove(ctx)
		if err != nil {
			return fmt.Errorf("agent turn failed: %w", err)
		}

		if applied {
			return nil
		}

		if attempt >= that.maxIllegalRetries {
			return &match.IllegalMoveError{Stone: game.ToMove(), Agent: game.AgentForTurn().Name(), Count: attempt}
		}
	}

	return nil
}

func (that *GameManager) finish(ctx context.Context, session *entity.Session, game *gomoku.Game) {
	session.Winner = game.Winner()
	that.archive(ctx, session)
}

// archive stores the match record and drops the session. Storage failures
// are logged; the game result is already decided.
func (that *GameManager) archive(ctx context.Context, session *entity.Session) {
	log := that.logger.With("method", "archive", "sessionID", session.ID)

	session.Status = entity.StatusFinished

	black, white := "human", session.Opponent
	if session.HumanStone == entity.White {
		black, white = white, black
	}

	record := &entity.MatchRecord{
		ID:         session.ID,
		Black:      black,
		White:      white,
		BoardSize:  session.BoardSize,
		Winner:     session.Winner,
		Moves:      session.Moves,
		FinishedAt: time.Now().UTC(),
	}

	if err := that.matchRepo.Save(ctx, record); err != nil {
		log.Error("failed to save match record", "error", err)
	}

	if err := that.sessionRepo.DeleteByID(ctx, session.PlayerID); err != nil {
		log.Error("failed to delete session", "error", err)
	}
}

func (that *GameManager) getSession(ctx context.Context, playerID string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, playerID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, apperror.ErrNoActiveGame
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// restore replays the stored moves with the agent bound to its colour.
func (that *GameManager) restore(session *entity.Session) (*gomoku.Game, error) {
	opponent, err := that.newAgent(session.Opponent)
	if err != nil {
		return nil, fmt.Errorf("failed to create opponent: %w", err)
	}

	var black, white gomoku.Agent
	if session.AgentStone() == entity.Black {
		black = opponent
	} else {
		white = opponent
	}

	game, err := gomoku.Replay(session.BoardSize, session.Moves, black, white)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", session.ID, err)
	}

	return game, nil
}

// automatedAgents lists the names a remote player can be matched against.
func automatedAgents() []string {
	names := make([]string, 0, len(agent.Names()))
	for _, name := range agent.Names() {
		if agent.Automated(name) {
			names = append(names, name)
		}
	}

	return names
}

func newGameState(session *entity.Session, game *gomoku.Game) *GameState {
	grid := game.Grid()

	board := make([]string, 0, grid.Size())
	for _, row := range grid.Rows() {
		var line strings.Builder
		for _, cell := range row {
			line.WriteString(cell.String())
		}
		board = append(board, line.String())
	}

	state := &GameState{
		ID:         session.ID,
		BoardSize:  grid.Size(),
		Board:      board,
		HumanStone: session.HumanStone,
		Opponent:   session.Opponent,
		ToMove:     game.ToMove(),
		Moves:      game.Moves(),
		Status:     session.Status,
		Winner:     session.Winner,
	}

	if last, ok := game.Board().LastMove(); ok {
		state.LastMove = &last
	}

	if session.IsFinished() {
		state.ToMove = entity.Empty
	}

	return state
}
