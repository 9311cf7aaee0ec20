package websocket

import "github.com/rs/zerolog/log"

type directMessage struct {
	userID string
	data   []byte
}

// Hub maintains the set of active clients and routes messages to them. All
// maps are owned by the Run goroutine; other goroutines talk to the hub
// exclusively through its channels.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages for global broadcast.
	broadcast chan []byte

	// Messages addressed to a single user's sessions.
	direct chan directMessage

	// Active sessions per user ID. A user with several open tabs has
	// several clients registered under the same key.
	userSessions map[string]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		Register:     make(chan *Client),
		Unregister:   make(chan *Client),
		broadcast:    make(chan []byte),
		direct:       make(chan directMessage),
		userSessions: make(map[string]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			if client.UserID != "" {
				h.addSession(client)
			}
			log.Info().Int("total_clients", len(h.clients)).Str("user_id", client.UserID).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.dropClient(client)
				}
			}
		case msg := <-h.direct:
			// Silent no-op when the user has no active session.
			for client := range h.userSessions[msg.userID] {
				select {
				case client.Send <- msg.data:
				default:
					h.dropClient(client)
				}
			}
		}
	}
}

// Broadcast pushes an event to every connected client. Fire-and-forget:
// encoding failures are logged and the event is dropped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	data, err := encodeMessage(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("Failed to encode broadcast event")
		return
	}
	h.broadcast <- data
}

// SendToUser pushes an event to all sessions registered under the given user
// ID. A no-op if the user has no active connection; nothing is queued.
func (h *Hub) SendToUser(userID, event string, payload interface{}) {
	data, err := encodeMessage(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Str("user_id", userID).Msg("Failed to encode targeted event")
		return
	}
	h.direct <- directMessage{userID: userID, data: data}
}

func (h *Hub) addSession(client *Client) {
	if h.userSessions[client.UserID] == nil {
		h.userSessions[client.UserID] = make(map[*Client]bool)
	}
	h.userSessions[client.UserID][client] = true
}

// dropClient removes a client from the global set and its user group, and
// closes its send channel. Only called from the Run goroutine.
func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	close(client.Send)
	if sessions, ok := h.userSessions[client.UserID]; ok {
		delete(sessions, client)
		if len(sessions) == 0 {
			delete(h.userSessions, client.UserID)
		}
	}
}
