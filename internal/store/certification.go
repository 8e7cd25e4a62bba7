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

const certificationColumns = `id, name, issuer, date, image_url, credential_link,
	is_featured, priority, sort_order, created_at, updated_at`

// CertificationRepo stores certifications as one ordered list.
type CertificationRepo struct {
	db *sql.DB
	orderedTable
}

func NewCertificationRepo(db *sql.DB) *CertificationRepo {
	return &CertificationRepo{db: db, orderedTable: orderedTable{db: db, name: "certifications", kind: "certification"}}
}

func (r *CertificationRepo) Create(ctx context.Context, c *domain.Certification) error {
	if err := validateRecord("certification", c); err != nil {
		return err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt

	_, err := r.db.ExecContext(ctx, `INSERT INTO certifications (`+certificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Issuer, c.Date, c.ImageURL, c.CredentialLink,
		boolToInt(c.IsFeatured), c.Priority, c.Order, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting certification: %w", err)
	}
	return nil
}

func (r *CertificationRepo) GetByID(ctx context.Context, id string) (domain.Certification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+certificationColumns+` FROM certifications WHERE id = ?`, id)
	c, err := scanCertification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Certification{}, fmt.Errorf("certification %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *CertificationRepo) List(ctx context.Context) ([]domain.Certification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+certificationColumns+` FROM certifications ORDER BY sort_order, created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing certifications: %w", err)
	}
	defer rows.Close()

	list := []domain.Certification{}
	for rows.Next() {
		c, err := scanCertification(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CertificationRepo) Update(ctx context.Context, c *domain.Certification) error {
	if err := validateRecord("certification", c); err != nil {
		return err
	}
	c.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `UPDATE certifications SET
		name = ?, issuer = ?, date = ?, image_url = ?, credential_link = ?,
		is_featured = ?, priority = ?, sort_order = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, c.Issuer, c.Date, c.ImageURL, c.CredentialLink,
		boolToInt(c.IsFeatured), c.Priority, c.Order, formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating certification: %w", err)
	}
	if err := expectOneRow(res, "certification"); err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.CreatedAt = stored.CreatedAt
	return nil
}

func (r *CertificationRepo) Delete(ctx context.Context, id string) error {
	return r.delete(ctx, id)
}

func (r *CertificationRepo) SetOrder(ctx context.Context, id string, order int) error {
	return r.setOrder(ctx, id, order)
}

func (r *CertificationRepo) NextOrder(ctx context.Context) (int, error) {
	return r.nextOrder(ctx)
}

func (r *CertificationRepo) Count(ctx context.Context) (int, error) {
	return r.count(ctx)
}

func scanCertification(row rowScanner) (domain.Certification, error) {
	var (
		c                    domain.Certification
		isFeatured           int
		createdAt, updatedAt string
	)
	err := row.Scan(
		&c.ID, &c.Name, &c.Issuer, &c.Date, &c.ImageURL, &c.CredentialLink,
		&isFeatured, &c.Priority, &c.Order, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Certification{}, err
		}
		return domain.Certification{}, fmt.Errorf("scanning certification: %w", err)
	}
	c.IsFeatured = isFeatured != 0
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)
	return c, nil
}
