package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sabyy027/portfolio/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps validation failures of a record at the store boundary.
	ErrInvalid = errors.New("invalid record")
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func validateRecord(kind string, record any) error {
	if err := domain.Validate(record); err != nil {
		return fmt.Errorf("%s: %w: %v", kind, ErrInvalid, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	values := []string{}
	if raw == "" {
		return values, nil
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return values, nil
}

// orderedTable holds the statements shared by every table whose rows form
// one user-ordered list.
type orderedTable struct {
	db   *sql.DB
	name string
	kind string
}

func (t orderedTable) delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", t.kind, err)
	}
	return expectOneRow(res, t.kind)
}

func (t orderedTable) setOrder(ctx context.Context, id string, order int) error {
	res, err := t.db.ExecContext(ctx,
		`UPDATE `+t.name+` SET sort_order = ?, updated_at = ? WHERE id = ?`,
		order, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("setting %s order: %w", t.kind, err)
	}
	return expectOneRow(res, t.kind)
}

func (t orderedTable) nextOrder(ctx context.Context) (int, error) {
	var next int
	err := t.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(sort_order) + 1, 0) FROM `+t.name).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("computing next %s order: %w", t.kind, err)
	}
	return next, nil
}

func (t orderedTable) count(ctx context.Context) (int, error) {
	var n int
	if err := t.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+t.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", t.kind, err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, kind string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", kind, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", kind, ErrNotFound)
	}
	return nil
}
