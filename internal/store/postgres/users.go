package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"mindcompanion/backend/internal/store"
)

const userColumns = `id, email, password_hash, name, age, gender, daily_routine, created_at`

func (s *Store) CreateUser(ctx context.Context, user store.User) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO users (id, email, password_hash, name, age, gender, daily_routine, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Age,
		user.Gender,
		user.DailyRoutine,
		user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (store.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (store.User, error) {
	user := store.User{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Age,
		&user.Gender,
		&user.DailyRoutine,
		&user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, err
	}

	interactions, err := s.listInteractions(ctx, user.ID)
	if err != nil {
		return store.User{}, err
	}
	user.Interactions = interactions
	return user, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]store.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]store.User, 0)
	index := map[string]int{}
	for rows.Next() {
		user := store.User{Interactions: []store.Interaction{}}
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&user.Age,
			&user.Gender,
			&user.DailyRoutine,
			&user.CreatedAt,
		); err != nil {
			return nil, err
		}
		index[user.ID] = len(users)
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	interactionRows, err := s.pool.Query(
		ctx,
		`SELECT user_id, id, created_at, text_input, voice_input, distress_score, suggested_action
		 FROM interactions ORDER BY seq`,
	)
	if err != nil {
		return nil, err
	}
	defer interactionRows.Close()

	for interactionRows.Next() {
		var userID string
		interaction := store.Interaction{}
		if err := interactionRows.Scan(
			&userID,
			&interaction.ID,
			&interaction.Timestamp,
			&interaction.TextInput,
			&interaction.VoiceInput,
			&interaction.DistressScore,
			&interaction.SuggestedAction,
		); err != nil {
			return nil, err
		}
		if at, ok := index[userID]; ok {
			users[at].Interactions = append(users[at].Interactions, interaction)
		}
	}
	return users, interactionRows.Err()
}

func (s *Store) UpdateUserProfile(ctx context.Context, id string, update store.ProfileUpdate) (store.User, error) {
	tag, err := s.pool.Exec(
		ctx,
		`UPDATE users SET
			name = COALESCE($2, name),
			age = COALESCE($3, age),
			gender = COALESCE($4, gender),
			daily_routine = COALESCE($5, daily_routine)
		 WHERE id = $1`,
		id,
		update.Name,
		update.Age,
		update.Gender,
		update.DailyRoutine,
	)
	if err != nil {
		return store.User{}, err
	}
	if tag.RowsAffected() == 0 {
		return store.User{}, store.ErrNotFound
	}
	return s.GetUserByID(ctx, id)
}

func (s *Store) AppendInteraction(ctx context.Context, userID string, interaction store.Interaction) error {
	tag, err := s.pool.Exec(
		ctx,
		`INSERT INTO interactions (id, user_id, created_at, text_input, voice_input, distress_score, suggested_action)
		 SELECT $1, $2, $3, $4, $5, $6, $7 WHERE EXISTS (SELECT 1 FROM users WHERE id = $2)`,
		interaction.ID,
		userID,
		interaction.Timestamp,
		interaction.TextInput,
		interaction.VoiceInput,
		interaction.DistressScore,
		interaction.SuggestedAction,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SetInteractionSuggestion(ctx context.Context, userID, interactionID, suggestion string) error {
	tag, err := s.pool.Exec(
		ctx,
		`UPDATE interactions SET suggested_action = $3 WHERE id = $1 AND user_id = $2`,
		interactionID,
		userID,
		suggestion,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CreateAdmin(ctx context.Context, admin store.Admin) error {
	_, err := s.pool.Exec(
		ctx,
		`INSERT INTO admins (id, email, password_hash, role, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.CreatedAt,
	)
	if isUniqueViolation(err) {
		return store.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetAdminByEmail(ctx context.Context, email string) (store.Admin, error) {
	admin := store.Admin{}
	err := s.pool.QueryRow(
		ctx,
		`SELECT id, email, password_hash, role, created_at FROM admins WHERE email = $1`,
		email,
	).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.Role, &admin.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.Admin{}, store.ErrNotFound
	}
	return admin, err
}

func (s *Store) listInteractions(ctx context.Context, userID string) ([]store.Interaction, error) {
	rows, err := s.pool.Query(
		ctx,
		`SELECT id, created_at, text_input, voice_input, distress_score, suggested_action
		 FROM interactions WHERE user_id = $1 ORDER BY seq`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	interactions := make([]store.Interaction, 0)
	for rows.Next() {
		interaction := store.Interaction{}
		if err := rows.Scan(
			&interaction.ID,
			&interaction.Timestamp,
			&interaction.TextInput,
			&interaction.VoiceInput,
			&interaction.DistressScore,
			&interaction.SuggestedAction,
		); err != nil {
			return nil, err
		}
		interactions = append(interactions, interaction)
	}
	return interactions, rows.Err()
}
