package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
)

func (r *SQLiteRepository) CountEvents(ctx context.Context, userID string, dr domain.DateRange) (int64, error) {
	query, args := rangeClause(`SELECT COUNT(*) FROM analytics WHERE user_id = ?`, []interface{}{userID}, dr.Start, dr.End)

	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// DailyClicks groups the user's events since the given instant by UTC day.
// Days without events are absent.
func (r *SQLiteRepository) DailyClicks(ctx context.Context, userID string, since time.Time) ([]domain.DailyClick, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(timestamp, 1, 10) AS day, COUNT(*)
		FROM analytics
		WHERE user_id = ? AND timestamp >= ?
		GROUP BY day
		ORDER BY day ASC`, userID, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []domain.DailyClick{}
	for rows.Next() {
		var dc domain.DailyClick
		if err := rows.Scan(&dc.Date, &dc.Clicks); err != nil {
			return nil, err
		}
		days = append(days, dc)
	}
	return days, rows.Err()
}

// TopLinks ranks the user's links by recorded event count, not by the
// stored counter. Ties fall back to display order.
func (r *SQLiteRepository) TopLinks(ctx context.Context, userID string, limit int) ([]domain.LinkRank, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.title, l.url, l.clicks, COUNT(a.id) AS analytics_count
		FROM links l
		LEFT JOIN analytics a ON a.link_id = l.id
		WHERE l.user_id = ?
		GROUP BY l.id
		ORDER BY analytics_count DESC, l.position ASC, l.created_at ASC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ranks := []domain.LinkRank{}
	for rows.Next() {
		var lr domain.LinkRank
		if err := rows.Scan(&lr.ID, &lr.Title, &lr.URL, &lr.Clicks, &lr.AnalyticsCount); err != nil {
			return nil, err
		}
		ranks = append(ranks, lr)
	}
	return ranks, rows.Err()
}

// LinkEvents returns the link's events newest first.
func (r *SQLiteRepository) LinkEvents(ctx context.Context, linkID string, dr domain.DateRange) ([]domain.ClickEvent, error) {
	query, args := rangeClause(
		`SELECT id, link_id, user_id, ip_address, user_agent, referrer, timestamp FROM analytics WHERE link_id = ?`,
		[]interface{}{linkID}, dr.Start, dr.End)
	query += " ORDER BY timestamp DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.ClickEvent{}
	for rows.Next() {
		var (
			e         domain.ClickEvent
			userAgent sql.NullString
			referrer  sql.NullString
			ts        string
		)
		if err := rows.Scan(&e.ID, &e.LinkID, &e.UserID, &e.IPAddress, &userAgent, &referrer, &ts); err != nil {
			return nil, err
		}
		e.UserAgent = userAgent.String
		if referrer.Valid {
			e.Referrer = &referrer.String
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// ReferrerCounts groups the link's events by referrer, most frequent first.
// Events without a referrer form one bucket with a nil Referrer.
func (r *SQLiteRepository) ReferrerCounts(ctx context.Context, linkID string, dr domain.DateRange) ([]domain.ReferrerCount, error) {
	query, args := rangeClause(`SELECT referrer, COUNT(*) AS c FROM analytics WHERE link_id = ?`,
		[]interface{}{linkID}, dr.Start, dr.End)
	query += " GROUP BY referrer ORDER BY c DESC, referrer ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []domain.ReferrerCount{}
	for rows.Next() {
		var (
			ref sql.NullString
			rc  domain.ReferrerCount
		)
		if err := rows.Scan(&ref, &rc.Count); err != nil {
			return nil, err
		}
		if ref.Valid {
			s := ref.String
			rc.Referrer = &s
		}
		counts = append(counts, rc)
	}
	return counts, rows.Err()
}
