package ports

// IBroadcaster fans out named events to live connections. Delivery is
// best-effort: members without active connections receive nothing and no
// error is reported back to the emitting operation.
type IBroadcaster interface {
	// EmitToUser sends the event to every active connection of one user.
	EmitToUser(userID string, event string, data interface{})
	// EmitToUsers sends the event to every active connection of each user.
	EmitToUsers(userIDs []string, event string, data interface{})
	// EmitToAll sends the event to every connection currently registered.
	EmitToAll(event string, data interface{})
}
