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

const projectColumns = `id, title, description, tech_stack, repo_link, demo_link, image_url,
	category, project_type, is_published, is_featured, is_ongoing, sort_order,
	long_description, features, created_at, updated_at`

// ProjectRepo stores projects as one ordered list.
type ProjectRepo struct {
	db *sql.DB
	orderedTable
}

func NewProjectRepo(db *sql.DB) *ProjectRepo {
	return &ProjectRepo{db: db, orderedTable: orderedTable{db: db, name: "projects", kind: "project"}}
}

// Create assigns an id and timestamps, validates and inserts p.
func (r *ProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	p.Normalize()
	if err := validateRecord("project", p); err != nil {
		return err
	}
	techStack, err := encodeList(p.TechStack)
	if err != nil {
		return err
	}
	features, err := encodeList(p.Features)
	if err != nil {
		return err
	}

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt

	_, err = r.db.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, techStack, p.RepoLink, p.DemoLink, p.ImageURL,
		string(p.Category), p.ProjectType, boolToInt(p.IsPublished), boolToInt(p.IsFeatured),
		boolToInt(p.IsOngoing), p.Order, p.LongDescription, features,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return p, err
}

// List returns every project by order, oldest first among equal orders.
func (r *ProjectRepo) List(ctx context.Context) ([]domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	list := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update overwrites every field of p except its creation time.
func (r *ProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	p.Normalize()
	if err := validateRecord("project", p); err != nil {
		return err
	}
	techStack, err := encodeList(p.TechStack)
	if err != nil {
		return err
	}
	features, err := encodeList(p.Features)
	if err != nil {
		return err
	}
	p.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `UPDATE projects SET
		title = ?, description = ?, tech_stack = ?, repo_link = ?, demo_link = ?, image_url = ?,
		category = ?, project_type = ?, is_published = ?, is_featured = ?, is_ongoing = ?,
		sort_order = ?, long_description = ?, features = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, techStack, p.RepoLink, p.DemoLink, p.ImageURL,
		string(p.Category), p.ProjectType, boolToInt(p.IsPublished), boolToInt(p.IsFeatured),
		boolToInt(p.IsOngoing), p.Order, p.LongDescription, features, formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if err := expectOneRow(res, "project"); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.CreatedAt = stored.CreatedAt
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

// SetOrder writes only the order of one project.
func (r *ProjectRepo) SetOrder(ctx context.Context, id string, order int) error {
	return r.setOrder(ctx, id, order)
}

// NextOrder returns the append position of the list.
func (r *ProjectRepo) NextOrder(ctx context.Context) (int, error) {
	return r.nextOrder(ctx)
}

func (r *ProjectRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (domain.Project, error) {
	var (
		p                                  domain.Project
		category, techStack, features      string
		createdAt, updatedAt               string
		isPublished, isFeatured, isOngoing int
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &techStack, &p.RepoLink, &p.DemoLink, &p.ImageURL,
		&category, &p.ProjectType, &isPublished, &isFeatured, &isOngoing, &p.Order,
		&p.LongDescription, &features, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Project{}, err
		}
		return domain.Project{}, fmt.Errorf("scanning project: %w", err)
	}
	if p.TechStack, err = decodeList(techStack); err != nil {
		return domain.Project{}, fmt.Errorf("project %s tech stack: %w", p.ID, err)
	}
	if p.Features, err = decodeList(features); err != nil {
		return domain.Project{}, fmt.Errorf("project %s features: %w", p.ID, err)
	}
	p.Category = domain.ProjectCategory(category)
	p.IsPublished = isPublished != 0
	p.IsFeatured = isFeatured != 0
	p.IsOngoing = isOngoing != 0
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}
