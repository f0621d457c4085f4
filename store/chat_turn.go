package store

// ChatTurn is one persisted exchange: the user message and the AI reply
// with their timestamps. Turns are append-only; retention is an external
// policy, nothing here deletes them.
type ChatTurn struct {
	ID        int32
	UID       string
	UserUID   string
	Message   string
	Reply     string
	MessageTs int64
	ReplyTs   int64
}

// FindChatTurn selects turns for one user. When Limit is set, only the
// most recent Limit turns are returned; the returned slice is always in
// chronological order.
type FindChatTurn struct {
	UserUID *string
	Limit   *int
}
