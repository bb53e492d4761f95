package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/model"
)

// ItemService manages the item catalog, comments and the item views that
// combine both with bookings.
type ItemService struct {
	repo Repository
	now  func() time.Time
	log  *zap.Logger
}

// NewItemService creates an item service.
func NewItemService(repo Repository, opts ...Option) *ItemService {
	o := buildOptions(opts)
	return &ItemService{repo: repo, now: o.now, log: o.logger}
}

// NewItem holds the fields of an item to create.
type NewItem struct {
	Name        string
	Description string
	Available   bool
	RequestID   *int64
}

// ItemPatch holds the item fields to change. Nil fields are kept.
type ItemPatch struct {
	Name        *string
	Description *string
	Available   *bool
}

// Get returns an item by id.
func (s *ItemService) Get(ctx context.Context, id int64) (*model.Item, error) {
	return getItem(ctx, s.repo, id)
}

// ListByOwner returns a page of the owner's items ordered by id.
func (s *ItemService) ListByOwner(ctx context.Context, ownerID int64, from, size int) ([]model.Item, error) {
	page, err := newPage(from, size)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// Search returns available items whose name or description contains text.
// Blank text matches nothing.
func (s *ItemService) Search(ctx context.Context, text string, from, size int) ([]model.Item, error) {
	page, err := newPage(from, size)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []model.Item{}, nil
	}
	items, err := s.repo.SearchItems(ctx, text, page)
	if err != nil {
		return nil, fmt.Errorf("searching items: %w", err)
	}
	return items, nil
}

// Create adds an item owned by ownerID.
func (s *ItemService) Create(ctx context.Context, ownerID int64, n NewItem) (*model.Item, error) {
	if strings.TrimSpace(n.Name) == "" {
		return nil, badRequest("name must not be blank")
	}
	if strings.TrimSpace(n.Description) == "" {
		return nil, badRequest("description must not be blank")
	}
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}
	if n.RequestID != nil {
		req, err := s.repo.GetRequest(ctx, *n.RequestID)
		if err != nil {
			return nil, fmt.Errorf("getting request: %w", err)
		}
		if req == nil {
			return nil, notFound("Request with id=%d not found", *n.RequestID)
		}
	}

	item, err := s.repo.CreateItem(ctx, model.Item{
		Name:        n.Name,
		Description: n.Description,
		Available:   n.Available,
		OwnerID:     ownerID,
		RequestID:   n.RequestID,
	})
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.log.Info("item created", zap.Int64("item_id", item.ID), zap.Int64("owner_id", ownerID))
	return item, nil
}

// Patch changes an item. Only the owner may patch it; anyone else sees
// the item as missing.
func (s *ItemService) Patch(ctx context.Context, userID, itemID int64, p ItemPatch) (*model.Item, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	item, err := getItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	if !item.OwnedBy(userID) {
		return nil, notFound("User with id=%d is not the owner of Item with id=%d", userID, itemID)
	}

	if p.Name != nil && strings.TrimSpace(*p.Name) != "" {
		item.Name = *p.Name
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) != "" {
		item.Description = *p.Description
	}
	if p.Available != nil {
		item.Available = *p.Available
	}

	updated, err := s.repo.UpdateItem(ctx, *item)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}

	s.log.Info("item updated", zap.Int64("item_id", itemID))
	return updated, nil
}

// AddComment stores a review of itemID by authorID. Only users with a
// finished, approved booking of the item may comment.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, badRequest("comment text must not be blank")
	}

	now := s.now()
	b, err := s.repo.FindCompletedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("finding completed booking: %w", err)
	}
	if b == nil {
		return nil, badRequest("User id=%d did not book Item=%d", authorID, itemID)
	}

	c, err := s.repo.CreateComment(ctx, model.Comment{
		Text:     text,
		ItemID:   b.ItemID,
		AuthorID: b.BookerID,
		Created:  now,
	})
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	s.log.Info("comment added", zap.Int64("comment_id", c.ID), zap.Int64("item_id", itemID))
	return c, nil
}

// GetItemDetail returns an item with its comments. The owner also sees the
// latest approved booking that has started and the earliest one that has not.
func (s *ItemService) GetItemDetail(ctx context.Context, itemID, requesterID int64) (*model.ItemDetail, error) {
	item, err := getItem(ctx, s.repo, itemID)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, requesterID); err != nil {
		return nil, err
	}

	comments, err := s.repo.ListCommentsByItems(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}

	detail := &model.ItemDetail{Item: *item, Comments: nonNil(comments)}
	if !item.OwnedBy(requesterID) {
		return detail, nil
	}

	now := s.now()
	last, err := s.repo.LastApprovedBooking(ctx, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("finding last booking: %w", err)
	}
	next, err := s.repo.NextApprovedBooking(ctx, itemID, now)
	if err != nil {
		return nil, fmt.Errorf("finding next booking: %w", err)
	}
	detail.LastBooking = model.RefOf(last)
	detail.NextBooking = model.RefOf(next)
	return detail, nil
}

// GetOwnerItemList returns a page of the owner's items with comments and
// booking references, sorted by item id.
//
// Bookings are scanned in ascending start order and the first match wins,
// so the last booking here is the earliest finished one.
func (s *ItemService) GetOwnerItemList(ctx context.Context, ownerID int64, from, size int) ([]model.ItemDetail, error) {
	page, err := newPage(from, size)
	if err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.repo, ownerID); err != nil {
		return nil, err
	}

	items, err := s.repo.ListItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	if len(items) == 0 {
		return []model.ItemDetail{}, nil
	}

	now := s.now()
	bookings, err := s.repo.ListBookings(ctx, BookingFilter{
		OwnerID:   ownerID,
		State:     model.StateAll,
		Now:       now,
		Ascending: true,
	})
	if err != nil {
		return nil, fmt.Errorf("listing owner bookings: %w", err)
	}
	byItem := make(map[int64][]model.Booking)
	for _, b := range bookings {
		byItem[b.ItemID] = append(byItem[b.ItemID], b)
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	comments, err := s.repo.ListCommentsByItems(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	commentsByItem := make(map[int64][]model.Comment)
	for _, c := range comments {
		commentsByItem[c.ItemID] = append(commentsByItem[c.ItemID], c)
	}

	result := make([]model.ItemDetail, 0, len(items))
	for _, it := range items {
		d := model.ItemDetail{Item: it, Comments: nonNil(commentsByItem[it.ID])}
		for _, b := range byItem[it.ID] {
			if d.LastBooking == nil && !b.Start.After(now) && b.End.Before(now) {
				d.LastBooking = model.RefOf(&b)
			}
			if d.NextBooking == nil && b.Start.After(now) {
				d.NextBooking = model.RefOf(&b)
			}
		}
		result = append(result, d)
	}
	slices.SortFunc(result, func(a, b model.ItemDetail) int { return cmp.Compare(a.ID, b.ID) })
	return result, nil
}

func getItem(ctx context.Context, items ItemRepository, id int64) (*model.Item, error) {
	item, err := items.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if item == nil {
		return nil, notFound("Item with id=%d not found", id)
	}
	return item, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
