package domain

import "time"

const DefaultIcon = "🔗"

// Link is one entry of a user's ordered list.
type Link struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Icon      string    `json:"icon"`
	Clicks    int64     `json:"clicks"`
	Position  int       `json:"position"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicLink omits the owner reference.
type PublicLink struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Icon     string `json:"icon"`
	Clicks   int64  `json:"clicks"`
	Position int    `json:"position"`
}

func (l Link) Public() PublicLink {
	return PublicLink{
		ID:       l.ID,
		Title:    l.Title,
		URL:      l.URL,
		Icon:     l.Icon,
		Clicks:   l.Clicks,
		Position: l.Position,
	}
}

// LinkPatch is a partial update; nil fields are left unchanged.
type LinkPatch struct {
	Title    *string
	URL      *string
	Icon     *string
	Position *int
	IsActive *bool
}

func (p LinkPatch) Apply(l *Link) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.URL != nil {
		l.URL = *p.URL
	}
	if p.Icon != nil {
		l.Icon = *p.Icon
	}
	if p.Position != nil {
		l.Position = *p.Position
	}
	if p.IsActive != nil {
		l.IsActive = *p.IsActive
	}
}
