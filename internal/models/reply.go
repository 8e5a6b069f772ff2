package models

// ReplyKind tells the chat client which quick-reply buttons to attach.
type ReplyKind string

const (
	KindText            ReplyKind = "text"
	KindMenu            ReplyKind = "menu"
	KindWelcome         ReplyKind = "welcome"
	KindPostAdd         ReplyKind = "postAdd"
	KindPostPaymentMenu ReplyKind = "postPaymentMenu"
)

// Reply is a bot message sent back to the chat client.
type Reply struct {
	Reply string    `json:"reply"`
	Kind  ReplyKind `json:"type"`
}
