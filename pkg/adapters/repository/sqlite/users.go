package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const userColumns = `id, username, email, password_hash, profile, is_verified, created_at, updated_at`

func (r *SQLiteRepository) CreateUser(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	profileJSON, err := json.Marshal(user.Profile)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, string(profileJSON),
		boolToInt(user.IsVerified), formatTime(user.CreatedAt), formatTime(user.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return ports.ErrDuplicate
	}
	return err
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) getUser(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	var (
		u           domain.User
		profileJSON []byte
		verified    int
		createdAt   string
		updatedAt   string
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &profileJSON,
		&verified, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.IsVerified = verified != 0
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	u.Profile.Theme = domain.DefaultTheme()
	if len(profileJSON) > 0 {
		if err := json.Unmarshal(profileJSON, &u.Profile); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET username = ?, email = ?, password_hash = ?, profile = ?, is_verified = ?, updated_at = ?
			  WHERE id = ?`

	profileJSON, err := json.Marshal(user.Profile)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, string(profileJSON),
		boolToInt(user.IsVerified), formatTime(user.UpdatedAt), user.ID,
	)
	if isUniqueViolation(err) {
		return ports.ErrDuplicate
	}
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

func (r *SQLiteRepository) DeleteUser(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		// Clicks this user made on other users' links leave with the
		// account, so those counters drop by the same amount.
		_, err := tx.ExecContext(ctx, `
			UPDATE links SET clicks = clicks - (
				SELECT COUNT(*) FROM analytics a WHERE a.link_id = links.id AND a.user_id = ?
			)
			WHERE user_id <> ? AND id IN (SELECT link_id FROM analytics WHERE user_id = ?)`, id, id, id)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM analytics WHERE user_id = ? OR link_id IN (SELECT id FROM links WHERE user_id = ?)`, id, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM links WHERE user_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return rowsAffected(res)
	})
}
