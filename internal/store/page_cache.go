package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/bytedance/sonic"

	"github.com/abhisek/pagequiz/internal/content"
)

// GetPage returns a cached page of the content edition.
func (s *Store) GetPage(ctx context.Context, page int) ([]content.Ayah, bool, error) {
	query, args := sqlite().
		Select("payload").
		From(entsql.Table(tablePageCache)).
		Where(entsql.And(
			entsql.EQ("page", page),
			entsql.EQ("edition", content.Edition),
		)).
		Query()

	var payload string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query page cache: %w", err)
	}

	var ayahs []content.Ayah
	if err := sonic.UnmarshalString(payload, &ayahs); err != nil {
		return nil, false, fmt.Errorf("decode cached page %d: %w", page, err)
	}
	return ayahs, true, nil
}

// PutPage stores or replaces a cached page.
func (s *Store) PutPage(ctx context.Context, page int, ayahs []content.Ayah) error {
	payload, err := sonic.MarshalString(ayahs)
	if err != nil {
		return fmt.Errorf("encode page %d: %w", page, err)
	}
	query, args := sqlite().
		Insert(tablePageCache).
		Columns("page", "edition", "payload", "fetched_at").
		Values(page, content.Edition, payload, formatTime(time.Now())).
		OnConflict(entsql.ConflictColumns("page", "edition"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("store page %d: %w", page, err)
	}
	return nil
}

// CachedPages returns the page numbers held in the cache, ascending.
func (s *Store) CachedPages(ctx context.Context) ([]int, error) {
	query, args := sqlite().
		Select("page").
		From(entsql.Table(tablePageCache)).
		Where(entsql.EQ("edition", content.Edition)).
		OrderBy("page").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cached pages: %w", err)
	}
	defer rows.Close()

	var pages []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// PurgePageCache empties the cache and returns the number of pages removed.
func (s *Store) PurgePageCache(ctx context.Context) (int64, error) {
	query, args := sqlite().Delete(tablePageCache).Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge page cache: %w", err)
	}
	return res.RowsAffected()
}
