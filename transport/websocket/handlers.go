package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

// handleConnect tells the client its player id and, if any, the running game.
func (that *Server) handleConnect(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect", "playerID", client.playerID)

	payload := Payload{PlayerID: client.playerID}

	game, err := that.uGame.GetGame(ctx, client.playerID)
	switch {
	case err == nil:
		payload.Game = game
	case !errors.Is(err, apperror.ErrNoActiveGame):
		log.Error("failed to get game", "error", err)
		return that.sendError(client, msg.Action, "failed to get the game")
	}

	return that.sendMessage(client, msg.Action, payload)
}

func (that *Server) handleNewGame(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleNewGame", "playerID", client.playerID)

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendError(client, msg.Action, err.Error())
	}

	game, err := that.uGame.GetOrCreateGame(ctx, client.playerID, payloadReq.Opponent, payloadReq.Stone)
	switch {
	case errors.Is(err, usecase.ErrInvalidOpponent):
		return that.sendError(client, msg.Action, err.Error())
	case errors.Is(err, apperror.ErrGameInProgress):
		return that.sendMessage(client, msg.Action, Payload{PlayerID: client.playerID, Game: game, Error: err.Error()})
	}

	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendError(client, msg.Action, "failed to create a new game")
	}

	log.Info("game ready", "gameID", game.ID)

	return that.sendMessage(client, msg.Action, Payload{PlayerID: client.playerID, Game: game})
}

func (that *Server) handleGameTurn(ctx context.Context, client *client, msg *Message) error {
	log := that.logger.With("method", "handleGameTurn", "playerID", client.playerID)

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendError(client, msg.Action, err.Error())
	}

	if payloadReq.Move == nil {
		return that.sendError(client, msg.Action, "move is required")
	}

	game, err := that.uGame.MakeTurn(ctx, client.playerID, *payloadReq.Move)
	switch {
	case err == nil, errors.Is(err, apperror.ErrGameFinished):
		return that.sendMessage(client, msg.Action, Payload{PlayerID: client.playerID, Game: game})
	case errors.Is(err, apperror.ErrIllegalMove), errors.Is(err, apperror.ErrNotYourTurn):
		return that.sendMessage(client, msg.Action, Payload{PlayerID: client.playerID, Game: game, Error: err.Error()})
	case errors.Is(err, apperror.ErrNoActiveGame):
		return that.sendError(client, msg.Action, err.Error())
	default:
		log.Error("failed to make turn", "error", err)
		return that.sendError(client, msg.Action, "failed to make turn")
	}
}

func (that *Server) handleGameState(ctx context.Context, client *client, msg *Message) error {
	game, err := that.uGame.GetGame(ctx, client.playerID)
	if err != nil {
		return that.sendError(client, msg.Action, err.Error())
	}

	return that.sendMessage(client, msg.Action, Payload{PlayerID: client.playerID, Game: game})
}

// handleGameLeave resigns the running game.
func (that *Server) handleGameLeave(ctx context.Context, client *client, msg *Message) error {
	game, err := that.uGame.Resign(ctx, client.playerID)
	if err != nil {
		return that.sendError(client, msg.Action, err.Error())
	}

	return that.sendMessage(client, msg.Action, Payload{PlayerID: client.playerID, Game: game})
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload

	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return Payload{}, fmt.Errorf("invalid payload: %w", err)
	}

	return payload, nil
}
