package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/shareit/internal/model"
)

// CreateRequest inserts an item request.
func (s *Store) CreateRequest(ctx context.Context, r model.Request) (*model.Request, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (description, requestor_id, created) VALUES (?, ?, ?)`,
		r.Description, r.RequestorID, toNanos(r.Created),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting request id: %w", err)
	}
	return s.GetRequest(ctx, id)
}

// GetRequest returns a request by ID without its items.
func (s *Store) GetRequest(ctx context.Context, id int64) (*model.Request, error) {
	var r model.Request
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, description, requestor_id, created FROM requests WHERE id = ?`, id,
	).Scan(&r.ID, &r.Description, &r.RequestorID, &created)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	r.Created = fromNanos(created)
	return &r, nil
}

// ListRequestsByRequestor returns the user's requests, oldest first.
func (s *Store) ListRequestsByRequestor(ctx context.Context, requestorID int64) ([]model.Request, error) {
	return s.queryRequests(ctx, s.requestSelect().Where(goqu.C("requestor_id").Eq(requestorID)))
}

// ListRequestsExcept returns a page of requests by users other than userID,
// oldest first.
func (s *Store) ListRequestsExcept(ctx context.Context, userID int64, page model.Page) ([]model.Request, error) {
	return s.queryRequests(ctx, paged(s.requestSelect().Where(goqu.C("requestor_id").Neq(userID)), page))
}

func (s *Store) requestSelect() *goqu.SelectDataset {
	return s.dialect.From("requests").
		Select("id", "description", "requestor_id", "created").
		Order(goqu.C("created").Asc(), goqu.C("id").Asc())
}

func (s *Store) queryRequests(ctx context.Context, ds *goqu.SelectDataset) ([]model.Request, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building request query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying requests: %w", err)
	}
	defer rows.Close()

	var reqs []model.Request
	for rows.Next() {
		var r model.Request
		var created int64
		if err := rows.Scan(&r.ID, &r.Description, &r.RequestorID, &created); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		r.Created = fromNanos(created)
		reqs = append(reqs, r)
	}
	return reqs, rows.Err()
}
