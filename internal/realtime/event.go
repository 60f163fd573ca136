package realtime

// Event names pushed to clients. Each event carries a single payload under
// "data"; clients dispatch on "event".
const (
	EventUserConnected    = "UserConnected"
	EventUserDisconnected = "UserDisconnected"
	EventChatCreated      = "ChatCreated"
	EventReceiveMessage   = "ReceiveMessage"
)

type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
