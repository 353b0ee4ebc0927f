package sqlite

import (
	"context"
	"database/sql"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const linkColumns = `id, user_id, title, url, icon, clicks, position, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*domain.Link, error) {
	var (
		l         domain.Link
		active    int
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.URL, &l.Icon, &l.Clicks, &l.Position, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	l.IsActive = active != 0

	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateLink computes the next position and inserts in a single statement so
// two concurrent creates for the same owner cannot read the same maximum.
func (r *SQLiteRepository) CreateLink(ctx context.Context, link *domain.Link) error {
	query := `INSERT INTO links (` + linkColumns + `)
			  SELECT ?, ?, ?, ?, ?, 0, COALESCE(MAX(position) + 1, 0), ?, ?, ?
			  FROM links WHERE user_id = ?
			  RETURNING position`

	err := r.db.QueryRowContext(ctx, query,
		link.ID, link.UserID, link.Title, link.URL, link.Icon, boolToInt(link.IsActive),
		formatTime(link.CreatedAt), formatTime(link.UpdatedAt), link.UserID,
	).Scan(&link.Position)
	if isUniqueViolation(err) {
		return ports.ErrDuplicate
	}
	return err
}

func (r *SQLiteRepository) GetUserLink(ctx context.Context, userID, id string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ? AND user_id = ?`

	link, err := scanLink(r.db.QueryRowContext(ctx, query, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return link, err
}

func (r *SQLiteRepository) ListLinks(ctx context.Context, userID string, activeOnly bool) ([]domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = ?`
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY position ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.Link{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) UpdateLink(ctx context.Context, link *domain.Link) error {
	query := `UPDATE links SET title = ?, url = ?, icon = ?, position = ?, is_active = ?, updated_at = ?
			  WHERE id = ? AND user_id = ?`

	res, err := r.db.ExecContext(ctx, query,
		link.Title, link.URL, link.Icon, link.Position, boolToInt(link.IsActive),
		formatTime(link.UpdatedAt), link.ID, link.UserID,
	)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

// DeleteLink removes the link only. Its click events are kept.
func (r *SQLiteRepository) DeleteLink(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}

// ReorderLinks assigns positions 0..n-1 following ids. Every id must belong
// to userID.
func (r *SQLiteRepository) ReorderLinks(ctx context.Context, userID string, ids []string) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		for i, id := range ids {
			res, err := tx.ExecContext(ctx,
				`UPDATE links SET position = ? WHERE id = ? AND user_id = ?`, i, id, userID)
			if err != nil {
				return err
			}
			if err := rowsAffected(res); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) RecordClick(ctx context.Context, event *domain.ClickEvent) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		// 1. Increment Link Clicks Counter
		res, err := tx.ExecContext(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = ?`, event.LinkID)
		if err != nil {
			return err
		}
		if err := rowsAffected(res); err != nil {
			return err
		}

		// 2. Insert Click Event
		query := `INSERT INTO analytics (id, link_id, user_id, ip_address, user_agent, referrer, timestamp)
				  VALUES (?, ?, ?, ?, ?, ?, ?)`
		_, err = tx.ExecContext(ctx, query,
			event.ID, event.LinkID, event.UserID, event.IPAddress, event.UserAgent,
			nullString(event.Referrer), formatTime(event.Timestamp),
		)
		return err
	})
}

func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
