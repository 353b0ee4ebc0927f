package services

import (
	"context"
	"strings"
	"time"

	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

const (
	// DailyWindow is how far back the daily click series reaches.
	DailyWindow = 30 * 24 * time.Hour
	// DefaultTopLinks is the TopLinks limit when none is given.
	DefaultTopLinks = 10
)

type AnalyticsService struct {
	links ports.LinkRepository
	repo  ports.AnalyticsRepository
	now   func() time.Time
}

func NewAnalyticsService(links ports.LinkRepository, repo ports.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{links: links, repo: repo, now: time.Now}
}

// TotalClicks counts the user's click events inside r.
func (s *AnalyticsService) TotalClicks(ctx context.Context, userID string, r domain.DateRange) (int64, error) {
	if err := checkRange(r); err != nil {
		return 0, err
	}
	n, err := s.repo.CountEvents(ctx, userID, r)
	if err != nil {
		return 0, storageError(err)
	}
	return n, nil
}

// DailyClickSeries returns per-day counts over the trailing window, oldest
// day first. Days without clicks are omitted.
func (s *AnalyticsService) DailyClickSeries(ctx context.Context, userID string) ([]domain.DailyClick, error) {
	days, err := s.repo.DailyClicks(ctx, userID, s.now().UTC().Add(-DailyWindow))
	if err != nil {
		return nil, storageError(err)
	}
	return days, nil
}

// TopLinks ranks the user's links by recorded click events. Links with equal
// counts keep their display order.
func (s *AnalyticsService) TopLinks(ctx context.Context, userID string, limit int) ([]domain.LinkRank, error) {
	if limit <= 0 {
		limit = DefaultTopLinks
	}
	ranks, err := s.repo.TopLinks(ctx, userID, limit)
	if err != nil {
		return nil, storageError(err)
	}
	return ranks, nil
}

func (s *AnalyticsService) LinkDetail(ctx context.Context, userID, linkID string, r domain.DateRange) (*domain.LinkDetail, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	if !validID(linkID) {
		return nil, errLinkNotFound
	}

	link, err := s.links.GetUserLink(ctx, userID, linkID)
	if err != nil {
		return nil, storageError(err)
	}
	if link == nil {
		return nil, errLinkNotFound
	}

	events, err := s.repo.LinkEvents(ctx, linkID, r)
	if err != nil {
		return nil, storageError(err)
	}
	referrers, err := s.repo.ReferrerCounts(ctx, linkID, r)
	if err != nil {
		return nil, storageError(err)
	}

	return &domain.LinkDetail{
		Link: domain.LinkSummary{
			Title:       link.Title,
			URL:         link.URL,
			TotalClicks: link.Clicks,
		},
		Analytics:    events,
		ReferrerData: referrers,
		TotalRecords: len(events),
	}, nil
}

// Summary is the dashboard payload: totals within r, the trailing daily
// series and the top links.
func (s *AnalyticsService) Summary(ctx context.Context, userID string, r domain.DateRange) (*domain.Summary, error) {
	total, err := s.TotalClicks(ctx, userID, r)
	if err != nil {
		return nil, err
	}
	daily, err := s.DailyClickSeries(ctx, userID)
	if err != nil {
		return nil, err
	}
	top, err := s.TopLinks(ctx, userID, DefaultTopLinks)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	tr := domain.TimeRange{StartDate: r.Start, EndDate: r.End}
	if tr.StartDate.IsZero() {
		tr.StartDate = now.Add(-DailyWindow)
	}
	if tr.EndDate.IsZero() {
		tr.EndDate = now
	}

	return &domain.Summary{
		TotalClicks: total,
		DailyClicks: daily,
		TopLinks:    top,
		TimeRange:   tr,
	}, nil
}

func checkRange(r domain.DateRange) error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return domain.ValidationError("Validation failed",
			domain.FieldError{Field: "endDate", Message: "End date cannot be before start date"})
	}
	return nil
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDateRange reads optional startDate/endDate query values. Dates
// without a time of day cover the whole UTC day, so an end date of
// 2024-01-31 includes clicks made that afternoon.
func ParseDateRange(startDate, endDate string) (domain.DateRange, error) {
	var (
		r      domain.DateRange
		fields []domain.FieldError
	)

	if v := strings.TrimSpace(startDate); v != "" {
		t, _, ok := parseDate(v)
		if !ok {
			fields = append(fields, domain.FieldError{Field: "startDate", Message: "Start date must be a valid ISO date format"})
		}
		r.Start = t
	}
	if v := strings.TrimSpace(endDate); v != "" {
		t, dateOnly, ok := parseDate(v)
		if !ok {
			fields = append(fields, domain.FieldError{Field: "endDate", Message: "End date must be a valid ISO date format"})
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		r.End = t
	}

	if len(fields) > 0 {
		return domain.DateRange{}, domain.ValidationError("Validation failed", fields...)
	}
	if err := checkRange(r); err != nil {
		return domain.DateRange{}, err
	}
	return r, nil
}

func parseDate(v string) (time.Time, bool, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t.UTC(), layout == "2006-01-02", true
		}
	}
	return time.Time{}, false, false
}
