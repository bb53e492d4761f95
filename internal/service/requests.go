package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erazemk/shareit/internal/model"
)

// RequestService manages item requests.
type RequestService struct {
	repo Repository
	now  func() time.Time
	log  *zap.Logger
}

// NewRequestService creates a request service.
func NewRequestService(repo Repository, opts ...Option) *RequestService {
	o := buildOptions(opts)
	return &RequestService{repo: repo, now: o.now, log: o.logger}
}

// Create posts a request on behalf of userID.
func (s *RequestService) Create(ctx context.Context, userID int64, description string) (*model.Request, error) {
	if strings.TrimSpace(description) == "" {
		return nil, badRequest("description must not be blank")
	}
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}

	r, err := s.repo.CreateRequest(ctx, model.Request{
		Description: description,
		RequestorID: userID,
		Created:     s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	r.Items = []model.Item{}

	s.log.Info("request created", zap.Int64("request_id", r.ID), zap.Int64("user_id", userID))
	return r, nil
}

// Get returns a request with the items offered in answer to it.
func (s *RequestService) Get(ctx context.Context, userID, requestID int64) (*model.Request, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	r, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	if r == nil {
		return nil, notFound("Request with id=%d not found", requestID)
	}

	reqs := []model.Request{*r}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return &reqs[0], nil
}

// ListOwn returns the user's requests, oldest first.
func (s *RequestService) ListOwn(ctx context.Context, userID int64) ([]model.Request, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListRequestsByRequestor(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return nonNil(reqs), nil
}

// ListOthers returns a page of other users' requests, oldest first.
func (s *RequestService) ListOthers(ctx context.Context, userID int64, from, size int) ([]model.Request, error) {
	if err := requireUser(ctx, s.repo, userID); err != nil {
		return nil, err
	}
	page, err := newPage(from, size)
	if err != nil {
		return nil, err
	}
	reqs, err := s.repo.ListRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	if err := s.attachItems(ctx, reqs); err != nil {
		return nil, err
	}
	return nonNil(reqs), nil
}

func (s *RequestService) attachItems(ctx context.Context, reqs []model.Request) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]int64, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ID
	}
	items, err := s.repo.ListItemsByRequests(ctx, ids...)
	if err != nil {
		return fmt.Errorf("listing request items: %w", err)
	}

	byRequest := make(map[int64][]model.Item)
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}
	for i := range reqs {
		reqs[i].Items = nonNil(byRequest[reqs[i].ID])
	}
	return nil
}
