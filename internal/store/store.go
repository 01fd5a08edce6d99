// Package store defines the persistence boundary for the wellness backend.
// Handlers only see the Store interface; drivers live in subpackages.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a record id or email does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateEmail is returned when a signup reuses an email within
	// its namespace. User and admin emails are separate namespaces.
	ErrDuplicateEmail = errors.New("store: email already registered")
)

// Interaction is one companion exchange. Immutable once appended, except
// for SuggestedAction which the companion bridge may overwrite with the
// model's raw reply.
type Interaction struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	TextInput       string    `json:"textInput"`
	VoiceInput      *string   `json:"voiceInput,omitempty"`
	DistressScore   int       `json:"distressScore"`
	SuggestedAction string    `json:"suggestedAction"`
}

type User struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	Name         string        `json:"name"`
	Age          *int          `json:"age,omitempty"`
	Gender       *string       `json:"gender,omitempty"`
	DailyRoutine *string       `json:"dailyRoutine,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	Interactions []Interaction `json:"interactions"`
}

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Post is an anonymous board entry. Votes are increment-only counters and
// comments are append-only; neither supports retraction.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  *string   `json:"-"`
	Text      string    `json:"text"`
	Upvotes   int       `json:"upvotes"`
	Downvotes int       `json:"downvotes"`
	Comments  []string  `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	AuthorID  *string   `json:"-"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProfileUpdate carries partial profile edits; nil fields are left as-is.
type ProfileUpdate struct {
	Name         *string
	Age          *int
	Gender       *string
	DailyRoutine *string
}

type VoteKind string

const (
	VoteUp   VoteKind = "up"
	VoteDown VoteKind = "down"
)

// Store is the injected persistence interface. All list results are ordered
// oldest-first (insertion order); user records always carry their full
// interaction history in that order.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user User) error
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUserProfile(ctx context.Context, id string, update ProfileUpdate) (User, error)
	AppendInteraction(ctx context.Context, userID string, interaction Interaction) error
	SetInteractionSuggestion(ctx context.Context, userID, interactionID, suggestion string) error

	CreateAdmin(ctx context.Context, admin Admin) error
	GetAdminByEmail(ctx context.Context, email string) (Admin, error)

	ListPosts(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, post Post) error
	AddPostVote(ctx context.Context, postID string, kind VoteKind) (Post, error)
	AddComment(ctx context.Context, postID, text string) (Post, error)

	ListChatMessages(ctx context.Context) ([]ChatMessage, error)
	CreateChatMessage(ctx context.Context, message ChatMessage) error
}
