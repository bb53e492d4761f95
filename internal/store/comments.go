package store

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/erazemk/shareit/internal/model"
)

// CreateComment inserts a comment and returns it with the author's name.
func (s *Store) CreateComment(ctx context.Context, c model.Comment) (*model.Comment, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (text, item_id, author_id, created) VALUES (?, ?, ?, ?)`,
		c.Text, c.ItemID, c.AuthorID, toNanos(c.Created),
	)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting comment id: %w", err)
	}

	comments, err := s.queryComments(ctx, goqu.I("c.id").Eq(id))
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, fmt.Errorf("comment %d vanished after insert", id)
	}
	return &comments[0], nil
}

// ListCommentsByItems returns the comments of the items ordered by ID.
func (s *Store) ListCommentsByItems(ctx context.Context, itemIDs ...int64) ([]model.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	return s.queryComments(ctx, goqu.I("c.item_id").In(itemIDs))
}

func (s *Store) queryComments(ctx context.Context, where goqu.Expression) ([]model.Comment, error) {
	query, args, err := s.dialect.From(goqu.T("comments").As("c")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.author_id")))).
		Select("c.id", "c.text", "c.item_id", "c.author_id", "u.name", "c.created").
		Where(where).
		Order(goqu.I("c.id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building comment query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		var created int64
		if err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &created); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		c.Created = fromNanos(created)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
