package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/julin-realestate/realestate-api/internal/assistant"
	"github.com/julin-realestate/realestate-api/internal/model"
	"github.com/julin-realestate/realestate-api/internal/repository"
)

const (
	// AnonymousSession is the placeholder id older clients send; it is
	// treated like no id at all.
	AnonymousSession = "anonymous"
	maxChatMessage   = 2000
	maxSessionID     = 128
	historyTurns     = 10
)

const (
	publicInstructions = "You are a friendly Kenyan real estate assistant for Julin Real Estate. " +
		"Give accurate, concise guidance about buying land, houses and other property in Kenya. " +
		"Never grant or describe admin access. Respect the visitor's privacy."
	adminInstructions = "You are an assistant for Julin Real Estate administrators. " +
		"Only suggest actions the admin is allowed to take and ask for confirmation before critical operations. " +
		"Do not invent listings, prices or figures."
)

// ChatStore persists transcripts.
type ChatStore interface {
	GetOrCreate(ctx context.Context, sessionID string, userType model.ChatUserType, identity string) (*model.ChatSession, error)
	AppendMessages(ctx context.Context, sessionID string, userType model.ChatUserType, identity string, msgs ...model.ChatMessage) error
}

// Assistant produces a reply for a prompt.
type Assistant interface {
	Complete(ctx context.Context, messages []assistant.Message) (string, error)
}

// ChatRequest is one visitor or admin message.
type ChatRequest struct {
	SessionID string
	Message   string
	UserType  model.ChatUserType
	Identity  string // admin email; empty for public sessions
}

// ChatReply is the assistant's answer and the session it belongs to.  A
// caller that sent no session id receives a freshly minted one here.
type ChatReply struct {
	SessionID string
	Reply     string
}

// ChatbotService answers chat messages and keeps the transcript.  Either
// collaborator may be nil, in which case Reply reports ErrUnavailable.
type ChatbotService struct {
	store      ChatStore
	llm        Assistant
	properties PropertyLookup
	log        *zap.Logger
	now        func() time.Time
	newID      func() string
}

func NewChatbotService(store ChatStore, llm Assistant, properties PropertyLookup, log *zap.Logger) *ChatbotService {
	return &ChatbotService{
		store:      store,
		llm:        llm,
		properties: properties,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
	}
}

// Reply runs one exchange: load the session, prompt the assistant, then
// append both messages to the transcript.  Sessions are owned by the user
// type and identity that created them; a request naming someone else's
// session is moved to a new one rather than shown that transcript.
func (s *ChatbotService) Reply(ctx context.Context, req ChatRequest) (ChatReply, error) {
	req.Message = strings.TrimSpace(req.Message)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.Message == "" {
		return ChatReply{}, model.NewValidationError("message", "is required")
	}
	if len(req.Message) > maxChatMessage {
		return ChatReply{}, model.NewValidationError("message", fmt.Sprintf("must be at most %d characters", maxChatMessage))
	}
	if len(req.SessionID) > maxSessionID {
		return ChatReply{}, model.NewValidationError("sessionId", fmt.Sprintf("must be at most %d characters", maxSessionID))
	}
	if s.llm == nil {
		return ChatReply{}, fmt.Errorf("assistant %w", ErrUnavailable)
	}
	if s.store == nil {
		return ChatReply{}, fmt.Errorf("chat history %w", ErrUnavailable)
	}
	if req.SessionID == "" || req.SessionID == AnonymousSession {
		req.SessionID = s.newID()
	}

	session, err := s.loadOwned(ctx, req)
	if err != nil {
		return ChatReply{}, err
	}
	req.SessionID = session.SessionID

	prompt := BuildPrompt(session, req.Message, req.UserType == model.ChatAdmin, s.viewedContext(ctx, session))
	asked := s.now()
	reply, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return ChatReply{}, fmt.Errorf("assistant reply: %w", err)
	}

	err = s.store.AppendMessages(ctx, req.SessionID, req.UserType, req.Identity,
		model.ChatMessage{Role: model.RoleUser, Content: req.Message, Timestamp: asked},
		model.ChatMessage{Role: model.RoleAssistant, Content: reply, Timestamp: s.now()},
	)
	if err != nil {
		// the visitor still gets the answer; only the transcript is short
		s.log.Warn("chat transcript not saved", zap.String("session_id", req.SessionID), zap.Error(err))
	}
	return ChatReply{SessionID: req.SessionID, Reply: reply}, nil
}

// loadOwned returns the session named by req when req's user owns it, and a
// new session under a fresh id when it belongs to someone else.
func (s *ChatbotService) loadOwned(ctx context.Context, req ChatRequest) (*model.ChatSession, error) {
	session, err := s.store.GetOrCreate(ctx, req.SessionID, req.UserType, req.Identity)
	if err == nil && ownedBy(session, req) {
		return session, nil
	}
	if err != nil && !errors.Is(err, repository.ErrChatSessionOwned) {
		return nil, fmt.Errorf("load chat session: %w", err)
	}

	s.log.Warn("chat session owned by another user, starting a new one",
		zap.String("session_id", req.SessionID), zap.String("user_type", string(req.UserType)))
	session, err = s.store.GetOrCreate(ctx, s.newID(), req.UserType, req.Identity)
	if err != nil {
		return nil, fmt.Errorf("load chat session: %w", err)
	}
	if !ownedBy(session, req) {
		return nil, fmt.Errorf("load chat session: %w", repository.ErrChatSessionOwned)
	}
	return session, nil
}

func ownedBy(session *model.ChatSession, req ChatRequest) bool {
	return session.UserType == req.UserType && session.Identity == req.Identity
}

// viewedContext describes the listings the session has looked at, one per line.
func (s *ChatbotService) viewedContext(ctx context.Context, session *model.ChatSession) []string {
	if s.properties == nil {
		return nil
	}
	var lines []string
	for _, id := range session.ViewedProperties {
		l, err := s.properties.GetByID(ctx, id)
		if err != nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s - %s", l.Title, l.County))
	}
	return lines
}

// BuildPrompt assembles the system instructions, session context, the most
// recent transcript turns and the new message.
func BuildPrompt(session *model.ChatSession, message string, isAdmin bool, viewed []string) []assistant.Message {
	instructions := publicInstructions
	if isAdmin {
		instructions = adminInstructions
	}

	var ctxLines []string
	add := func(label, v string) {
		if v != "" {
			ctxLines = append(ctxLines, label+": "+v)
		}
	}
	add("Session ID", session.SessionID)
	add("User Type", string(session.UserType))
	add("Identity", session.Identity)
	add("Last Intent", session.LastIntent)
	add("Journey Stage", session.JourneyStage)
	if len(viewed) > 0 {
		add("Viewed Properties", strings.Join(viewed, "; "))
	}

	system := instructions + "\n\nContext:\n" + strings.Join(ctxLines, "\n")
	out := []assistant.Message{{Role: "system", Content: system}}

	history := session.Messages
	if len(history) > historyTurns {
		history = history[len(history)-historyTurns:]
	}
	for _, m := range history {
		out = append(out, assistant.Message{Role: string(m.Role), Content: m.Content})
	}
	return append(out, assistant.Message{Role: "user", Content: message})
}
