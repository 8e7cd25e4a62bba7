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

// ProfileRepo stores the single site profile.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// Get returns the stored profile, or ErrNotFound before the first save.
func (r *ProfileRepo) Get(ctx context.Context) (domain.Profile, error) {
	var (
		p                    domain.Profile
		maintenance          int
		createdAt, updatedAt string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, role, about, email, resume_link, github_link, linkedin_link,
			maintenance_mode, created_at, updated_at
		FROM profile ORDER BY created_at LIMIT 1`).Scan(
		&p.ID, &p.Name, &p.Role, &p.About, &p.Email, &p.ResumeLink, &p.GithubLink,
		&p.LinkedinLink, &maintenance, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("profile: %w", ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("scanning profile: %w", err)
	}
	p.MaintenanceMode = maintenance != 0
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// Upsert replaces the profile, creating it on first save. The stored id
// and creation time survive updates.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.Profile) error {
	p.Normalize()
	if err := validateRecord("profile", p); err != nil {
		return err
	}

	now := time.Now().UTC()
	existing, err := r.Get(ctx)
	switch {
	case err == nil:
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	case errors.Is(err, ErrNotFound):
		p.ID = uuid.NewString()
		p.CreatedAt = now
	default:
		return err
	}
	p.UpdatedAt = now

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, role, about, email, resume_link, github_link,
			linkedin_link, maintenance_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, role = excluded.role, about = excluded.about,
			email = excluded.email, resume_link = excluded.resume_link,
			github_link = excluded.github_link, linkedin_link = excluded.linkedin_link,
			maintenance_mode = excluded.maintenance_mode, updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Role, p.About, p.Email, p.ResumeLink, p.GithubLink,
		p.LinkedinLink, boolToInt(p.MaintenanceMode), formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}
