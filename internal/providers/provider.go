package providers

import "context"

// Message roles understood by chat-completion endpoints.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message.
type Message struct {
	Role    string
	Content string
}

// ChatRequest contains the data sent to an LLM for one completion.
type ChatRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// ChatResponse contains the first choice returned by the LLM.
type ChatResponse struct {
	Content    string
	TokensUsed int
}

// ChatCompleter is the provider abstraction interface.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Name() string
}
