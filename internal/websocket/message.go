package websocket

import "encoding/json"

// Event names pushed to connected clients.
const (
	EventTaskCreated  = "task:created"
	EventTaskUpdated  = "task:updated"
	EventTaskDeleted  = "task:deleted"
	EventNotification = "notification"
)

// Message defines the envelope for websocket messages.
type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// NotificationPayload is the body of a targeted "notification" event.
type NotificationPayload struct {
	Message string `json:"message"`
	TaskID  string `json:"taskId"`
}

func encodeMessage(event string, payload interface{}) ([]byte, error) {
	return json.Marshal(Message{Event: event, Payload: payload})
}
