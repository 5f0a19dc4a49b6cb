package chat

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single stored message. Turns are never edited after they are appended.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
