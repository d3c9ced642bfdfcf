package tutor

import "context"

// Prompt is the message set sent to the model for one completion.
type Prompt struct {
	System  string
	User    string
	History []Message
}

// Message carries a small amount of prior conversation (chat path only).
type Message struct {
	Role    string
	Content string
}

// LLMClient abstracts the opaque model call so implementations can be
// swapped or mocked. Complete blocks until the model answers or ctx is done.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// LLMSettings is the provider configuration handed to concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
