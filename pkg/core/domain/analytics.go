package domain

import "time"

// ClickEvent is an immutable record of one click on one link.
type ClickEvent struct {
	ID        string    `json:"id"`
	LinkID    string    `json:"linkId"`
	UserID    string    `json:"userId"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Referrer  *string   `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
}

// DateRange bounds a query inclusively. Zero bounds are open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type DailyClick struct {
	Date   string `json:"date"` // YYYY-MM-DD, UTC
	Clicks int64  `json:"clicks"`
}

// LinkRank pairs a link with the number of recorded click events.
type LinkRank struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	URL            string `json:"url"`
	Clicks         int64  `json:"clicks"`
	AnalyticsCount int64  `json:"analyticsCount"`
}

type ReferrerCount struct {
	Referrer *string `json:"referrer"`
	Count    int64   `json:"count"`
}

type TimeRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// Summary is the dashboard view of a user's analytics.
type Summary struct {
	TotalClicks int64        `json:"totalClicks"`
	DailyClicks []DailyClick `json:"dailyClicks"`
	TopLinks    []LinkRank   `json:"topLinks"`
	TimeRange   TimeRange    `json:"timeRange"`
}

type LinkSummary struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	TotalClicks int64  `json:"totalClicks"`
}

type LinkDetail struct {
	Link         LinkSummary     `json:"link"`
	Analytics    []ClickEvent    `json:"analytics"`
	ReferrerData []ReferrerCount `json:"referrerData"`
	TotalRecords int             `json:"totalRecords"`
}
