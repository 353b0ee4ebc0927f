package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/linkbio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkbio/pkg/ports"
)

type LinkService struct {
	repo ports.LinkRepository
	now  func() time.Time
}

func NewLinkService(repo ports.LinkRepository) *LinkService {
	return &LinkService{repo: repo, now: time.Now}
}

type linkFields struct {
	Title string `json:"title" validate:"required,max=50"`
	URL   string `json:"url" validate:"required,http_url"`
	Icon  string `json:"icon" validate:"max=10"`
}

type linkPatchFields struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=50"`
	URL      *string `json:"url" validate:"omitnil,http_url"`
	Icon     *string `json:"icon" validate:"omitnil,max=10"`
	Position *int    `json:"position" validate:"omitnil,min=0"`
}

func (s *LinkService) List(ctx context.Context, userID string) ([]domain.Link, error) {
	links, err := s.repo.ListLinks(ctx, userID, false)
	if err != nil {
		return nil, storageError(err)
	}
	return links, nil
}

func (s *LinkService) Create(ctx context.Context, userID string, in ports.LinkInput) (*domain.Link, error) {
	fields := linkFields{
		Title: strings.TrimSpace(in.Title),
		URL:   strings.TrimSpace(in.URL),
		Icon:  in.Icon,
	}
	if err := ValidateStruct(fields); err != nil {
		return nil, err
	}

	icon := fields.Icon
	if icon == "" {
		icon = domain.DefaultIcon
	}

	now := s.now().UTC()
	link := &domain.Link{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     fields.Title,
		URL:       fields.URL,
		Icon:      icon,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, storageError(err)
	}
	return link, nil
}

// Update applies patch to a link owned by userID. A link owned by someone
// else is reported exactly like a missing one, even when the patch is
// invalid.
func (s *LinkService) Update(ctx context.Context, userID, linkID string, patch domain.LinkPatch) (*domain.Link, error) {
	link, err := s.ownedLink(ctx, userID, linkID)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.URL != nil {
		u := strings.TrimSpace(*patch.URL)
		patch.URL = &u
	}
	if err := ValidateStruct(linkPatchFields{
		Title:    patch.Title,
		URL:      patch.URL,
		Icon:     patch.Icon,
		Position: patch.Position,
	}); err != nil {
		return nil, err
	}

	patch.Apply(link)
	if link.Icon == "" {
		link.Icon = domain.DefaultIcon
	}
	link.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateLink(ctx, link); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errLinkNotFound
		}
		return nil, storageError(err)
	}
	return link, nil
}

func (s *LinkService) Delete(ctx context.Context, userID, linkID string) error {
	if !validID(linkID) {
		return errLinkNotFound
	}
	if err := s.repo.DeleteLink(ctx, userID, linkID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return errLinkNotFound
		}
		return storageError(err)
	}
	return nil
}

// Reorder rewrites positions to 0..n-1 in the order of linkIDs, which must
// name every link of the user exactly once.
func (s *LinkService) Reorder(ctx context.Context, userID string, linkIDs []string) ([]domain.Link, error) {
	current, err := s.repo.ListLinks(ctx, userID, false)
	if err != nil {
		return nil, storageError(err)
	}

	owned := make(map[string]bool, len(current))
	for _, l := range current {
		owned[l.ID] = true
	}
	seen := make(map[string]bool, len(linkIDs))
	for _, id := range linkIDs {
		if !owned[id] {
			return nil, errLinkNotFound
		}
		if seen[id] {
			return nil, domain.ValidationError("Validation failed",
				domain.FieldError{Field: "linkIds", Message: "linkIds must not repeat a link"})
		}
		seen[id] = true
	}
	if len(seen) != len(owned) {
		return nil, domain.ValidationError("Validation failed",
			domain.FieldError{Field: "linkIds", Message: "linkIds must list every link"})
	}

	if err := s.repo.ReorderLinks(ctx, userID, linkIDs); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, errLinkNotFound
		}
		return nil, storageError(err)
	}
	return s.List(ctx, userID)
}

// RecordClick bumps the link counter and appends a click event attributed
// to the requesting user. Both writes commit together.
func (s *LinkService) RecordClick(ctx context.Context, in ports.ClickInput) error {
	if !validID(in.LinkID) {
		return errLinkNotFound
	}

	event := &domain.ClickEvent{
		ID:        uuid.NewString(),
		LinkID:    in.LinkID,
		UserID:    in.UserID,
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
		Timestamp: s.now().UTC(),
	}
	if in.Referrer != "" {
		ref := in.Referrer
		event.Referrer = &ref
	}

	if err := s.repo.RecordClick(ctx, event); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return errLinkNotFound
		}
		return storageError(err)
	}
	return nil
}

func (s *LinkService) ownedLink(ctx context.Context, userID, linkID string) (*domain.Link, error) {
	if !validID(linkID) {
		return nil, errLinkNotFound
	}
	link, err := s.repo.GetUserLink(ctx, userID, linkID)
	if err != nil {
		return nil, storageError(err)
	}
	if link == nil {
		return nil, errLinkNotFound
	}
	return link, nil
}
