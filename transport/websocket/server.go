package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/usecase"
)

const (
	sessionCookie   = "user_session"
	shutdownTimeout = 5 * time.Second
)

type uGame interface {
	GetOrCreateGame(ctx context.Context, playerID, opponent string, human entity.Stone) (*usecase.GameState, error)
	MakeTurn(ctx context.Context, playerID string, move entity.Move) (*usecase.GameState, error)
	GetGame(ctx context.Context, playerID string) (*usecase.GameState, error)
	Resign(ctx context.Context, playerID string) (*usecase.GameState, error)
}

type handlerFunc func(ctx context.Context, client *client, msg *Message) error

// client is one connection. Messages of a connection are handled in order, so
// a player's game never sees two turns at once from the same socket.
type client struct {
	conn     *websocket.Conn
	playerID string
}

type Server struct {
	logger         *slog.Logger
	uGame          uGame
	allowedOrigins map[string]struct{}

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc
}

// New creates the play socket server. Browsers may connect from the same
// host or from one of allowedOrigins (scheme://host[:port]).
func New(logger *slog.Logger, uGame uGame, allowedOrigins []string) *Server {
	server := &Server{
		logger:         logger.With("component", "websocket"),
		uGame:          uGame,
		allowedOrigins: make(map[string]struct{}, len(allowedOrigins)),

		handlers: make(map[string]handlerFunc),
	}

	for _, origin := range allowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			server.allowedOrigins[strings.ToLower(strings.TrimSuffix(origin, "/"))] = struct{}{}
		}
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameLeave] = server.handleGameLeave

	return server
}

// Handler serves the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	return mux
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection and serves its messages.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeConnection")

	playerID, header := that.sessionCookie(req)

	conn, err := that.upgrader.Upgrade(writer, req, header)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "playerID", playerID)

	that.handleMessages(ctx, &client{conn: conn, playerID: playerID})
}

// handleMessages - processes messages from the client until it disconnects.
func (that *Server) handleMessages(ctx context.Context, client *client) {
	log := that.logger.With("method", "handleMessages", "playerID", client.playerID)

	for {
		var message Message
		if err := client.conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err := that.sendError(client, message.Action, "unknown action"); err != nil {
				log.Error("failed to send response", "error", err)
				return
			}

			continue
		}

		if err := handler(ctx, client, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			return
		}
	}
}

// checkOrigin accepts clients without an Origin header (non-browser), the
// server's own host and the configured origins. The session cookie is the
// only credential, so any other page is refused.
func (that *Server) checkOrigin(req *http.Request) bool {
	origin := req.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if _, ok := that.allowedOrigins[strings.ToLower(strings.TrimSuffix(origin, "/"))]; ok {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	if strings.EqualFold(parsed.Host, req.Host) {
		return true
	}

	that.logger.Warn("websocket origin refused", "origin", origin)

	return false
}

// sessionCookie returns the player id kept in the session cookie, creating
// one when the request has none.
func (that *Server) sessionCookie(req *http.Request) (string, http.Header) {
	cookie, err := req.Cookie(sessionCookie)
	if err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	cookie = &http.Cookie{
		Name:    sessionCookie,
		Value:   uuid.NewString(),
		Expires: time.Now().Add(24 * time.Hour),
		Path:    "/ws",
	}

	header := http.Header{}
	header.Add("Set-Cookie", cookie.String())

	return cookie.Value, header
}

func (that *Server) sendMessage(client *client, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = client.conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendError(client *client, action, reason string) error {
	return that.sendMessage(client, action, Payload{Error: reason})
}
