package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"mindcompanion/backend/internal/store"
)

const postColumns = `id, author_id, body, upvotes, downvotes, comments, created_at`

func (s *Store) ListPosts(ctx context.Context) ([]store.Post, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]store.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *Store) CreatePost(ctx context.Context, post store.Post) error {
	comments, err := json.Marshal(post.Comments)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(
		ctx,
		`INSERT INTO posts (id, author_id, body, upvotes, downvotes, comments, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		post.ID,
		post.AuthorID,
		post.Text,
		post.Upvotes,
		post.Downvotes,
		comments,
		post.CreatedAt,
	)
	return err
}

// AddPostVote is a single-statement increment, so concurrent votes never
// lose counts. There is no idempotency key; repeated clicks count
// repeatedly.
func (s *Store) AddPostVote(ctx context.Context, postID string, kind store.VoteKind) (store.Post, error) {
	column := "upvotes"
	if kind == store.VoteDown {
		column = "downvotes"
	}
	row := s.pool.QueryRow(
		ctx,
		`UPDATE posts SET `+column+` = `+column+` + 1 WHERE id = $1 RETURNING `+postColumns,
		postID,
	)
	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Post{}, store.ErrNotFound
	}
	return post, err
}

func (s *Store) AddComment(ctx context.Context, postID, text string) (store.Post, error) {
	row := s.pool.QueryRow(
		ctx,
		`UPDATE posts SET comments = comments || to_jsonb($2::text) WHERE id = $1 RETURNING `+postColumns,
		postID,
		text,
	)
	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Post{}, store.ErrNotFound
	}
	return post, err
}

func (s *Store) ListChatMessages(ctx context.Context) ([]store.ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, author_id, body, created_at FROM chat_messages ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]store.ChatMessage, 0)
	for rows.Next() {
		message := store.ChatMessage{}
		if err := rows.Scan(&message.ID, &message.AuthorID, &message.Text, &message.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (s *Store) CreateChatMessage(ctx context.Context, message store.ChatMessage) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO chat_messages (id, author_id, body, created_at) VALUES ($1, $2, $3, $4)`,
		message.ID,
		message.AuthorID,
		message.Text,
		message.CreatedAt,
	)
	return err
}

func scanPost(row pgx.Row) (store.Post, error) {
	post := store.Post{}
	var commentsRaw []byte
	if err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Text,
		&post.Upvotes,
		&post.Downvotes,
		&commentsRaw,
		&post.CreatedAt,
	); err != nil {
		return store.Post{}, err
	}
	post.Comments = []string{}
	if len(commentsRaw) > 0 {
		if err := json.Unmarshal(commentsRaw, &post.Comments); err != nil {
			return store.Post{}, err
		}
	}
	return post, nil
}
