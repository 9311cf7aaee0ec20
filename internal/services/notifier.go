package services

// Notifier is the real-time notification channel as seen by the services.
// Both methods are fire-and-forget: delivery is best-effort, never
// acknowledged, and failures must not surface to the caller. The concrete
// implementation is the websocket Hub; tests substitute a recording fake.
type Notifier interface {
	// Broadcast delivers an event to every connected client.
	Broadcast(event string, payload interface{})

	// SendToUser delivers an event only to the sessions registered under
	// the given user ID. A no-op if the user has no active connection.
	SendToUser(userID, event string, payload interface{})
}
