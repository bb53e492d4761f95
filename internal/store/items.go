package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/shareit/internal/model"
)

var itemColumns = []any{"id", "name", "description", "available", "owner_id", "request_id"}

// CreateItem inserts an item.
func (s *Store) CreateItem(ctx context.Context, item model.Item) (*model.Item, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO items (name, description, available, owner_id, request_id) VALUES (?, ?, ?, ?, ?)`,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, available, owner_id, request_id FROM items WHERE id = ?`, id,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// UpdateItem stores the mutable fields of an item. The owner never changes.
func (s *Store) UpdateItem(ctx context.Context, item model.Item) (*model.Item, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`,
		item.Name, item.Description, item.Available, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating item: %w", err)
	}
	return s.GetItem(ctx, item.ID)
}

// ListItemsByOwner returns a page of the owner's items ordered by ID.
func (s *Store) ListItemsByOwner(ctx context.Context, ownerID int64, page model.Page) ([]model.Item, error) {
	ds := s.dialect.From("items").
		Select(itemColumns...).
		Where(goqu.C("owner_id").Eq(ownerID)).
		Order(goqu.C("id").Asc())
	return s.queryItems(ctx, paged(ds, page))
}

// SearchItems returns a page of available items whose name or description
// contains text, ignoring case.
func (s *Store) SearchItems(ctx context.Context, text string, page model.Page) ([]model.Item, error) {
	needle := strings.ToLower(text)
	ds := s.dialect.From("items").
		Select(itemColumns...).
		Where(
			goqu.C("available").Eq(true),
			goqu.Or(
				goqu.L("instr(LOWER(?), ?) > 0", goqu.C("name"), needle),
				goqu.L("instr(LOWER(?), ?) > 0", goqu.C("description"), needle),
			),
		).
		Order(goqu.C("id").Asc())
	return s.queryItems(ctx, paged(ds, page))
}

// ListItemsByRequests returns the items offered in answer to the requests.
func (s *Store) ListItemsByRequests(ctx context.Context, requestIDs ...int64) ([]model.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}
	ds := s.dialect.From("items").
		Select(itemColumns...).
		Where(goqu.C("request_id").In(requestIDs)).
		Order(goqu.C("id").Asc())
	return s.queryItems(ctx, ds)
}

func (s *Store) queryItems(ctx context.Context, ds *goqu.SelectDataset) ([]model.Item, error) {
	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building item query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(sc scanner) (*model.Item, error) {
	item := &model.Item{}
	var requestID sql.NullInt64
	if err := sc.Scan(&item.ID, &item.Name, &item.Description, &item.Available, &item.OwnerID, &requestID); err != nil {
		return nil, err
	}
	if requestID.Valid {
		item.RequestID = &requestID.Int64
	}
	return item, nil
}

func paged(ds *goqu.SelectDataset, page model.Page) *goqu.SelectDataset {
	return ds.Limit(uint(page.Size)).Offset(uint(page.Offset()))
}
