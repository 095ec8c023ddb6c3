package model

import "time"

// ChatRole identifies who wrote a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatUserType separates public visitors from signed-in admins.
type ChatUserType string

const (
	ChatPublic ChatUserType = "PUBLIC"
	ChatAdmin  ChatUserType = "ADMIN"
)

type ChatMessage struct {
	Role      ChatRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is the stored transcript and journey context of one chat.
type ChatSession struct {
	SessionID        string        `json:"session_id"`
	UserType         ChatUserType  `json:"user_type"`
	Identity         string        `json:"identity,omitempty"` // admin email for ADMIN sessions
	ViewedProperties []string      `json:"viewed_properties"`
	LastIntent       string        `json:"last_intent,omitempty"`
	JourneyStage     string        `json:"journey_stage,omitempty"` // e.g. "browsing", "comparison"
	Messages         []ChatMessage `json:"messages"`
	CreatedAt        time.Time     `json:"created_at"`
}
