package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/pagequiz/internal/shop"
)

var itemColumns = []string{"id", "name", "description", "price", "type", "value", "sort_order"}

func scanItem(row rowScanner) (shop.Item, error) {
	var (
		it  shop.Item
		typ string
	)
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Price, &typ, &it.Value, &it.SortOrder)
	it.Type = shop.ItemType(typ)
	return it, err
}

// ListItems returns every store item by sort order.
func (s *Store) ListItems(ctx context.Context) ([]shop.Item, error) {
	query, args := sqlite().
		Select(itemColumns...).
		From(entsql.Table(tableItems)).
		OrderBy("sort_order", "id").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query store items: %w", err)
	}
	defer rows.Close()

	var out []shop.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// GetItem loads one store item.
func (s *Store) GetItem(ctx context.Context, id string) (shop.Item, error) {
	query, args := sqlite().
		Select(itemColumns...).
		From(entsql.Table(tableItems)).
		Where(entsql.EQ("id", id)).
		Query()

	it, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return shop.Item{}, &NotFoundError{Entity: "store item", Key: id}
	}
	if err != nil {
		return shop.Item{}, fmt.Errorf("query store item: %w", err)
	}
	return it, nil
}

// UpsertItem validates and stores it, replacing an item with the same id.
func (s *Store) UpsertItem(ctx context.Context, it shop.Item) error {
	if err := shop.Validate(it); err != nil {
		return err
	}
	return upsertItem(ctx, s.db, it)
}

func upsertItem(ctx context.Context, q querier, it shop.Item) error {
	query, args := sqlite().
		Insert(tableItems).
		Columns(itemColumns...).
		Values(it.ID, it.Name, it.Description, it.Price, string(it.Type), it.Value, it.SortOrder).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert store item %q: %w", it.ID, err)
	}
	return nil
}

// DeleteItem removes a store item. Owned copies stay in inventories.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	query, args := sqlite().
		Delete(tableItems).
		Where(entsql.EQ("id", id)).
		Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete store item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &NotFoundError{Entity: "store item", Key: id}
	}
	return nil
}
