package domain

// Role is the author of a chat turn.
type Role string

// Roles accepted from clients. System prompts are built server-side only.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role may appear in a client conversation.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatTurn is one message of a rolling conversation.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
