package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/taskhive/taskhive-be/internal/apperr"
	"github.com/taskhive/taskhive-be/internal/auth"
	"github.com/taskhive/taskhive-be/internal/services"
	ws "github.com/taskhive/taskhive-be/internal/websocket"
)

// WebSocketHandler upgrades authenticated HTTP connections to WebSocket
// sessions registered on the hub under the actor's user ID.
type WebSocketHandler struct {
	hub   *ws.Hub
	users services.UserServiceProvider
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub, users services.UserServiceProvider) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, users: users}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve handles the WebSocket connection request. The credential is
// verified before the upgrade; unauthenticated sockets are rejected.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.TokenFromRequest(r)
	if tokenStr == "" {
		writeError(w, apperr.Authentication("Not authorized, no token"))
		return
	}
	actor, err := auth.ResolveActor(tokenStr, h.users)
	if err != nil {
		writeError(w, apperr.Authentication("Not authorized, token failed"))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, actor.ID)
	h.hub.Register <- client

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		client.WritePump()
	}()
	go func() {
		defer wg.Done()
		client.ReadPump(h.handleIncomingWSMessage)
	}()

	// Cleanup on disconnect.
	go func() {
		wg.Wait()
		h.hub.Unregister <- client
	}()
}

// handleIncomingWSMessage processes messages received from a websocket
// client. The channel is push-only; clients reconcile through the REST API,
// so inbound frames are ignored beyond a log line.
func (h *WebSocketHandler) handleIncomingWSMessage(client *ws.Client, message []byte) {
	log.Debug().Str("user_id", client.UserID).Bytes("message", message).Msg("Ignoring inbound websocket message")
}
