// Package memstore is an in-memory store.Store. It backs the test suite and
// serves as the zero-configuration fallback when no DATABASE_URL is set,
// in which case nothing survives a restart.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mindcompanion/backend/internal/store"
)

type Memstore struct {
	mu sync.Mutex

	users       map[string]*store.User
	userOrder   []string
	admins      map[string]*store.Admin
	adminOrder  []string
	posts       map[string]*store.Post
	postOrder   []string
	chat        []store.ChatMessage
	userByEmail map[string]string
	adminByMail map[string]string
}

func New() *Memstore {
	return &Memstore{
		users:       map[string]*store.User{},
		admins:      map[string]*store.Admin{},
		posts:       map[string]*store.Post{},
		userByEmail: map[string]string{},
		adminByMail: map[string]string{},
	}
}

func (m *Memstore) Ping(_ context.Context) error { return nil }

func (m *Memstore) CreateUser(_ context.Context, user store.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(user.Email)
	if _, exists := m.userByEmail[key]; exists {
		return store.ErrDuplicateEmail
	}
	copied := cloneUser(user)
	m.users[user.ID] = &copied
	m.userOrder = append(m.userOrder, user.ID)
	m.userByEmail[key] = user.ID
	return nil
}

func (m *Memstore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.userByEmail[emailKey(email)]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return cloneUser(*m.users[id]), nil
}

func (m *Memstore) GetUserByID(_ context.Context, id string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return cloneUser(*user), nil
}

func (m *Memstore) ListUsers(_ context.Context) ([]store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]store.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		result = append(result, cloneUser(*m.users[id]))
	}
	return result, nil
}

func (m *Memstore) UpdateUserProfile(_ context.Context, id string, update store.ProfileUpdate) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Age != nil {
		age := *update.Age
		user.Age = &age
	}
	if update.Gender != nil {
		gender := *update.Gender
		user.Gender = &gender
	}
	if update.DailyRoutine != nil {
		routine := *update.DailyRoutine
		user.DailyRoutine = &routine
	}
	return cloneUser(*user), nil
}

func (m *Memstore) AppendInteraction(_ context.Context, userID string, interaction store.Interaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	user.Interactions = append(user.Interactions, cloneInteraction(interaction))
	return nil
}

func (m *Memstore) SetInteractionSuggestion(_ context.Context, userID, interactionID, suggestion string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return store.ErrNotFound
	}
	for idx := range user.Interactions {
		if user.Interactions[idx].ID == interactionID {
			user.Interactions[idx].SuggestedAction = suggestion
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *Memstore) CreateAdmin(_ context.Context, admin store.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(admin.Email)
	if _, exists := m.adminByMail[key]; exists {
		return store.ErrDuplicateEmail
	}
	copied := admin
	m.admins[admin.ID] = &copied
	m.adminOrder = append(m.adminOrder, admin.ID)
	m.adminByMail[key] = admin.ID
	return nil
}

func (m *Memstore) GetAdminByEmail(_ context.Context, email string) (store.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.adminByMail[emailKey(email)]
	if !ok {
		return store.Admin{}, store.ErrNotFound
	}
	return *m.admins[id], nil
}

func (m *Memstore) ListPosts(_ context.Context) ([]store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]store.Post, 0, len(m.postOrder))
	for _, id := range m.postOrder {
		result = append(result, clonePost(*m.posts[id]))
	}
	return result, nil
}

func (m *Memstore) CreatePost(_ context.Context, post store.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := clonePost(post)
	m.posts[post.ID] = &copied
	m.postOrder = append(m.postOrder, post.ID)
	return nil
}

func (m *Memstore) AddPostVote(_ context.Context, postID string, kind store.VoteKind) (store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[postID]
	if !ok {
		return store.Post{}, store.ErrNotFound
	}
	if kind == store.VoteDown {
		post.Downvotes++
	} else {
		post.Upvotes++
	}
	return clonePost(*post), nil
}

func (m *Memstore) AddComment(_ context.Context, postID, text string) (store.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	post, ok := m.posts[postID]
	if !ok {
		return store.Post{}, store.ErrNotFound
	}
	post.Comments = append(post.Comments, text)
	return clonePost(*post), nil
}

func (m *Memstore) ListChatMessages(_ context.Context) ([]store.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]store.ChatMessage, len(m.chat))
	copy(result, m.chat)
	return result, nil
}

func (m *Memstore) CreateChatMessage(_ context.Context, message store.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chat = append(m.chat, message)
	return nil
}

// SeedCommunityFixtures loads the starter board content shown to fresh
// installs, matching the original application's seed data.
func (m *Memstore) SeedCommunityFixtures(now time.Time) {
	seedPosts := []struct {
		age       time.Duration
		text      string
		upvotes   int
		downvotes int
		comments  []string
	}{
		{
			age:       time.Hour,
			text:      "Why did the scarecrow become a motivational speaker? Because he was outstanding in his field!",
			upvotes:   12,
			downvotes: 2,
			comments:  []string{"Haha, that's a good one!", "Love this joke!"},
		},
		{
			age:       30 * time.Minute,
			text:      "Feeling a bit overwhelmed with work... any tips for managing stress?",
			upvotes:   8,
			downvotes: 1,
			comments:  []string{"Try taking short breaks every hour!", "Deep breathing helps me a lot."},
		},
		{
			age:      10 * time.Minute,
			text:     "Just played the Happy Face Game and it really cheered me up!",
			upvotes:  5,
			comments: []string{"Same! It's so fun!"},
		},
	}
	seedChat := []struct {
		age  time.Duration
		text string
	}{
		{50 * time.Minute, "Hey everyone, just wanted to say you're all awesome!"},
		{40 * time.Minute, "Thanks! I needed that today."},
		{20 * time.Minute, "Has anyone tried the new Snake Game? It's super relaxing!"},
		{5 * time.Minute, "I'm feeling a bit anxious... any suggestions?"},
		{time.Minute, "Try the Breathing Exercise game! It really helps me calm down."},
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, seed := range seedPosts {
		id := uuid.NewString()
		m.posts[id] = &store.Post{
			ID:        id,
			Text:      seed.text,
			Upvotes:   seed.upvotes,
			Downvotes: seed.downvotes,
			Comments:  append([]string{}, seed.comments...),
			CreatedAt: now.Add(-seed.age),
		}
		m.postOrder = append(m.postOrder, id)
	}
	for _, seed := range seedChat {
		m.chat = append(m.chat, store.ChatMessage{
			ID:        uuid.NewString(),
			Text:      seed.text,
			CreatedAt: now.Add(-seed.age),
		})
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(user store.User) store.User {
	copied := user
	if user.Age != nil {
		age := *user.Age
		copied.Age = &age
	}
	if user.Gender != nil {
		gender := *user.Gender
		copied.Gender = &gender
	}
	if user.DailyRoutine != nil {
		routine := *user.DailyRoutine
		copied.DailyRoutine = &routine
	}
	copied.Interactions = make([]store.Interaction, len(user.Interactions))
	for idx, interaction := range user.Interactions {
		copied.Interactions[idx] = cloneInteraction(interaction)
	}
	return copied
}

func cloneInteraction(interaction store.Interaction) store.Interaction {
	copied := interaction
	if interaction.VoiceInput != nil {
		voice := *interaction.VoiceInput
		copied.VoiceInput = &voice
	}
	return copied
}

func clonePost(post store.Post) store.Post {
	copied := post
	copied.Comments = append([]string{}, post.Comments...)
	return copied
}
