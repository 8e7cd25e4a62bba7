package service

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/store"
)

// ProjectService is the project list plus its public views.
type ProjectService struct {
	*Ordered[domain.Project]
}

func NewProjectService(list *Ordered[domain.Project]) *ProjectService {
	return &ProjectService{Ordered: list}
}

// Published returns published projects by order, optionally only those
// flagged featured.
func (s *ProjectService) Published(ctx context.Context, featuredOnly bool) ([]domain.Project, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Project{}
	for _, p := range all {
		if !p.IsPublished || (featuredOnly && !p.IsFeatured) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// ProjectSections groups published projects for the projects page.
type ProjectSections struct {
	Featured []domain.Project `json:"featured"`
	Personal []domain.Project `json:"personal"`
	Mini     []domain.Project `json:"mini"`
}

// Sections splits published projects by section. A project shows as
// featured when flagged or filed under Featured; the other sections take
// only unflagged projects.
func (s *ProjectService) Sections(ctx context.Context) (ProjectSections, error) {
	published, err := s.Published(ctx, false)
	if err != nil {
		return ProjectSections{}, err
	}
	sec := ProjectSections{
		Featured: []domain.Project{},
		Personal: []domain.Project{},
		Mini:     []domain.Project{},
	}
	for _, p := range published {
		switch {
		case p.ShowsAsFeatured():
			sec.Featured = append(sec.Featured, p)
		case p.Category == domain.CategoryPersonal:
			sec.Personal = append(sec.Personal, p)
		case p.Category == domain.CategoryMini:
			sec.Mini = append(sec.Mini, p)
		}
	}
	return sec, nil
}

// CertificationService is the certification list plus its public views.
type CertificationService struct {
	*Ordered[domain.Certification]
}

func NewCertificationService(list *Ordered[domain.Certification]) *CertificationService {
	return &CertificationService{Ordered: list}
}

// Featured returns featured certifications, highest priority first, then
// by order.
func (s *CertificationService) Featured(ctx context.Context) ([]domain.Certification, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []domain.Certification{}
	for _, c := range all {
		if c.IsFeatured {
			out = append(out, c)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Certification) int {
		if a.Priority != b.Priority {
			return cmp.Compare(b.Priority, a.Priority)
		}
		return cmp.Compare(a.Order, b.Order)
	})
	return out, nil
}

type CertificationSections struct {
	Featured []domain.Certification `json:"featured"`
	Others   []domain.Certification `json:"others"`
}

// Sections splits all certifications into featured and the rest, each by order.
func (s *CertificationService) Sections(ctx context.Context) (CertificationSections, error) {
	all, err := s.List(ctx)
	if err != nil {
		return CertificationSections{}, err
	}
	sec := CertificationSections{Featured: []domain.Certification{}, Others: []domain.Certification{}}
	for _, c := range all {
		if c.IsFeatured {
			sec.Featured = append(sec.Featured, c)
		} else {
			sec.Others = append(sec.Others, c)
		}
	}
	return sec, nil
}

// TimelineService is the career timeline ("learning curve").
type TimelineService struct {
	*Ordered[domain.TimelineNode]
}

func NewTimelineService(list *Ordered[domain.TimelineNode]) *TimelineService {
	return &TimelineService{Ordered: list}
}

// ProfileRepo is the store surface of the profile.
type ProfileRepo interface {
	Get(ctx context.Context) (domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
}

// ProfileService serves the site profile, falling back to a built-in
// default until one is saved.
type ProfileService struct {
	repo     ProfileRepo
	fallback domain.Profile
}

func NewProfileService(r ProfileRepo, fallback domain.Profile) *ProfileService {
	return &ProfileService{repo: r, fallback: fallback}
}

func (s *ProfileService) Get(ctx context.Context) (domain.Profile, error) {
	p, err := s.repo.Get(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return s.fallback, nil
	}
	return p, err
}

func (s *ProfileService) Save(ctx context.Context, p domain.Profile) (domain.Profile, error) {
	if err := s.repo.Upsert(ctx, &p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}
