package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindcompanion/backend/internal/store"
)

type boardTextRequest struct {
	Text string `json:"text"`
}

func (a *App) listPosts(c *gin.Context) {
	posts, err := a.store.ListPosts(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load posts")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (a *App) createPost(c *gin.Context) {
	user, _ := authUserFromContext(c)

	var payload boardTextRequest
	if !mustJSON(c, &payload) {
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}

	post := store.Post{
		ID:        uuid.NewString(),
		Text:      filterProfanity(text),
		Comments:  []string{},
		CreatedAt: time.Now().UTC(),
	}
	if user.ID != "" {
		authorID := user.ID
		post.AuthorID = &authorID
	}

	if err := a.store.CreatePost(c.Request.Context(), post); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create post")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (a *App) upvotePost(c *gin.Context) {
	a.votePost(c, store.VoteUp)
}

func (a *App) downvotePost(c *gin.Context) {
	a.votePost(c, store.VoteDown)
}

// votePost increments without an idempotency key, so rapid double-clicks
// count twice.
func (a *App) votePost(c *gin.Context, kind store.VoteKind) {
	post, err := a.store.AddPostVote(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "Post not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to record vote")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (a *App) addPostComment(c *gin.Context) {
	var payload boardTextRequest
	if !mustJSON(c, &payload) {
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}

	post, err := a.store.AddComment(c.Request.Context(), c.Param("id"), filterProfanity(text))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(c, http.StatusNotFound, "Post not found")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to add comment")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (a *App) listChatMessages(c *gin.Context) {
	messages, err := a.store.ListChatMessages(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load chat")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (a *App) createChatMessage(c *gin.Context) {
	user, _ := authUserFromContext(c)

	var payload boardTextRequest
	if !mustJSON(c, &payload) {
		return
	}
	text := strings.TrimSpace(payload.Text)
	if text == "" {
		writeError(c, http.StatusBadRequest, "text is required")
		return
	}

	message := store.ChatMessage{
		ID:        uuid.NewString(),
		Text:      filterProfanity(text),
		CreatedAt: time.Now().UTC(),
	}
	if user.ID != "" {
		authorID := user.ID
		message.AuthorID = &authorID
	}

	if err := a.store.CreateChatMessage(c.Request.Context(), message); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to send message")
		return
	}
	c.JSON(http.StatusCreated, message)
}
