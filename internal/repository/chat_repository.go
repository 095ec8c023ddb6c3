package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/julin-realestate/realestate-api/internal/model"
)

const chatSessionsCollection = "chat_sessions"

// ChatRepo keeps chatbot transcripts in MongoDB, one document per session.
type ChatRepo struct {
	coll *mongo.Collection
}

func NewChatRepo(client *mongo.Client, dbName string) *ChatRepo {
	return &ChatRepo{coll: client.Database(dbName).Collection(chatSessionsCollection)}
}

type chatMessageDocument struct {
	Role      string    `bson:"role"`
	Content   string    `bson:"content"`
	Timestamp time.Time `bson:"timestamp"`
}

type chatSessionDocument struct {
	ID               primitive.ObjectID    `bson:"_id,omitempty"`
	SessionID        string                `bson:"session_id"`
	UserType         string                `bson:"user_type"`
	Identity         string                `bson:"identity,omitempty"`
	ViewedProperties []string              `bson:"viewed_properties"`
	LastIntent       string                `bson:"last_intent,omitempty"`
	JourneyStage     string                `bson:"journey_stage,omitempty"`
	Messages         []chatMessageDocument `bson:"messages"`
	CreatedAt        time.Time             `bson:"created_at"`
}

func toChatSession(doc *chatSessionDocument) *model.ChatSession {
	s := &model.ChatSession{
		SessionID:        doc.SessionID,
		UserType:         model.ChatUserType(doc.UserType),
		Identity:         doc.Identity,
		ViewedProperties: doc.ViewedProperties,
		LastIntent:       doc.LastIntent,
		JourneyStage:     doc.JourneyStage,
		CreatedAt:        doc.CreatedAt,
		Messages:         make([]model.ChatMessage, 0, len(doc.Messages)),
	}
	if s.ViewedProperties == nil {
		s.ViewedProperties = []string{}
	}
	for _, m := range doc.Messages {
		s.Messages = append(s.Messages, model.ChatMessage{Role: model.ChatRole(m.Role), Content: m.Content, Timestamp: m.Timestamp})
	}
	return s
}

func toMessageDocuments(msgs []model.ChatMessage) []chatMessageDocument {
	out := make([]chatMessageDocument, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, chatMessageDocument{Role: string(m.Role), Content: m.Content, Timestamp: m.Timestamp.UTC()})
	}
	return out
}

// EnsureIndexes creates the unique session_id index.  It is idempotent.
func (r *ChatRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "session_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create chat session index: %w", err)
	}
	return nil
}

// ownerFilter matches sessionID only while it belongs to userType and
// identity.  Public sessions carry no identity; a null match also covers a
// missing field.
func ownerFilter(sessionID string, userType model.ChatUserType, identity string) bson.M {
	f := bson.M{"session_id": sessionID, "user_type": string(userType)}
	if identity == "" {
		f["identity"] = nil
	} else {
		f["identity"] = identity
	}
	return f
}

// GetOrCreate returns the session, inserting an empty one on first use.  The
// upsert makes concurrent first messages converge on a single document.  An
// id that is already held by another user hits the unique index and comes
// back as ErrChatSessionOwned.
func (r *ChatRepo) GetOrCreate(ctx context.Context, sessionID string, userType model.ChatUserType, identity string) (*model.ChatSession, error) {
	onInsert := bson.M{
		"viewed_properties": bson.A{},
		"messages":          bson.A{},
		"created_at":        time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc chatSessionDocument
	err := r.coll.FindOneAndUpdate(ctx, ownerFilter(sessionID, userType, identity), bson.M{"$setOnInsert": onInsert}, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrChatSessionOwned
	}
	if err != nil {
		return nil, fmt.Errorf("load chat session %s: %w", sessionID, err)
	}
	return toChatSession(&doc), nil
}

// AppendMessages pushes msgs onto the transcript of a session the caller owns.
func (r *ChatRepo) AppendMessages(ctx context.Context, sessionID string, userType model.ChatUserType, identity string, msgs ...model.ChatMessage) error {
	update := bson.M{"$push": bson.M{"messages": bson.M{"$each": toMessageDocuments(msgs)}}}
	res, err := r.coll.UpdateOne(ctx, ownerFilter(sessionID, userType, identity), update)
	if err != nil {
		return fmt.Errorf("append chat messages to %s: %w", sessionID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("append chat messages: session %s: %w", sessionID, mongo.ErrNoDocuments)
	}
	return nil
}
