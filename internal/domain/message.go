package domain

// ConversationMessage is one message of the recent chat history, supplied
// by the external retrieval subsystem, most-recent last. Immutable within
// a generation cycle.
type ConversationMessage struct {
	Name     string `json:"name,omitempty"`
	IsUser   bool   `json:"is_user,omitempty"`
	IsSystem bool   `json:"is_system,omitempty"`
	Text     string `json:"text"`
	Index    int    `json:"index"`
}
