package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sabyy027/portfolio/internal/domain"
)

const timelineColumns = `id, title, date, description, category, institution, tags,
	is_highlighted, sort_order, created_at, updated_at`

// TimelineRepo stores career-timeline nodes as one ordered list.
type TimelineRepo struct {
	db *sql.DB
	orderedTable
}

func NewTimelineRepo(db *sql.DB) *TimelineRepo {
	return &TimelineRepo{db: db, orderedTable: orderedTable{db: db, name: "timeline_nodes", kind: "timeline node"}}
}

func (r *TimelineRepo) Create(ctx context.Context, n *domain.TimelineNode) error {
	n.Normalize()
	if err := validateRecord("timeline node", n); err != nil {
		return err
	}
	tags, err := encodeList(n.Tags)
	if err != nil {
		return err
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt

	_, err = r.db.ExecContext(ctx, `INSERT INTO timeline_nodes (`+timelineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Date, n.Description, string(n.Category), n.Institution, tags,
		boolToInt(n.IsHighlighted), n.Order, formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting timeline node: %w", err)
	}
	return nil
}

func (r *TimelineRepo) GetByID(ctx context.Context, id string) (domain.TimelineNode, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+timelineColumns+` FROM timeline_nodes WHERE id = ?`, id)
	n, err := scanTimelineNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TimelineNode{}, fmt.Errorf("timeline node %s: %w", id, ErrNotFound)
	}
	return n, err
}

func (r *TimelineRepo) List(ctx context.Context) ([]domain.TimelineNode, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+timelineColumns+` FROM timeline_nodes ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing timeline nodes: %w", err)
	}
	defer rows.Close()

	list := []domain.TimelineNode{}
	for rows.Next() {
		n, err := scanTimelineNode(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *TimelineRepo) Update(ctx context.Context, n *domain.TimelineNode) error {
	n.Normalize()
	if err := validateRecord("timeline node", n); err != nil {
		return err
	}
	tags, err := encodeList(n.Tags)
	if err != nil {
		return err
	}
	n.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `UPDATE timeline_nodes SET
		title = ?, date = ?, description = ?, category = ?, institution = ?, tags = ?,
		is_highlighted = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		n.Title, n.Date, n.Description, string(n.Category), n.Institution, tags,
		boolToInt(n.IsHighlighted), n.Order, formatTime(n.UpdatedAt),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating timeline node: %w", err)
	}
	if err := expectOneRow(res, "timeline node"); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, n.ID)
	if err != nil {
		return err
	}
	n.CreatedAt = stored.CreatedAt
	return nil
}

func (r *TimelineRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *TimelineRepo) SetOrder(ctx context.Context, id string, order int) error {
	return r.setOrder(ctx, id, order)
}

func (r *TimelineRepo) NextOrder(ctx context.Context) (int, error) {
	return r.nextOrder(ctx)
}

func (r *TimelineRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

func scanTimelineNode(row rowScanner) (domain.TimelineNode, error) {
	var (
		n                    domain.TimelineNode
		category, tags       string
		createdAt, updatedAt string
		isHighlighted        int
	)
	err := row.Scan(
		&n.ID, &n.Title, &n.Date, &n.Description, &category, &n.Institution, &tags,
		&isHighlighted, &n.Order, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TimelineNode{}, err
		}
		return domain.TimelineNode{}, fmt.Errorf("scanning timeline node: %w", err)
	}
	if n.Tags, err = decodeList(tags); err != nil {
		return domain.TimelineNode{}, fmt.Errorf("timeline node %s tags: %w", n.ID, err)
	}
	n.Category = domain.TimelineCategory(category)
	n.IsHighlighted = isHighlighted != 0
	n.CreatedAt = parseTime(createdAt)
	n.UpdatedAt = parseTime(updatedAt)
	return n, nil
}
