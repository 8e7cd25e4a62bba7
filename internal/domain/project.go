package domain

import "time"

// ProjectCategory groups projects on the projects page.
type ProjectCategory string

const (
	CategoryFeatured ProjectCategory = "Featured"
	CategoryPersonal ProjectCategory = "Personal"
	CategoryMini     ProjectCategory = "Mini"
)

const defaultProjectType = "Web App"

// Project is one portfolio project.
type Project struct {
	ID              string          `json:"id" yaml:"-"`
	Title           string          `json:"title" yaml:"title" validate:"required,max=200"`
	Description     string          `json:"description" yaml:"description" validate:"required,max=2000"`
	TechStack       []string        `json:"techStack" yaml:"techStack" validate:"dive,required,max=60"`
	RepoLink        string          `json:"repoLink,omitempty" yaml:"repoLink,omitempty" validate:"omitempty,url"`
	DemoLink        string          `json:"demoLink,omitempty" yaml:"demoLink,omitempty" validate:"omitempty,url"`
	ImageURL        string          `json:"imageUrl" yaml:"imageUrl" validate:"required,max=2048"`
	Category        ProjectCategory `json:"category" yaml:"category" validate:"required,oneof=Featured Personal Mini"`
	ProjectType     string          `json:"projectType" yaml:"projectType" validate:"max=80"`
	IsPublished     bool            `json:"isPublished" yaml:"isPublished"`
	IsFeatured      bool            `json:"isFeatured" yaml:"isFeatured"`
	IsOngoing       bool            `json:"isOngoing" yaml:"isOngoing"`
	Order           int             `json:"order" yaml:"order" validate:"min=0"`
	LongDescription string          `json:"longDescription,omitempty" yaml:"longDescription,omitempty" validate:"max=20000"`
	Features        []string        `json:"features" yaml:"features" validate:"dive,required,max=300"`
	CreatedAt       time.Time       `json:"createdAt" yaml:"-"`
	UpdatedAt       time.Time       `json:"updatedAt" yaml:"-"`
}

func (p Project) ItemID() string { return p.ID }
func (p Project) ItemOrder() int { return p.Order }

func (p Project) WithOrder(order int) Project {
	p.Order = order
	return p
}

// Normalize fills defaults for fields left empty.
func (p *Project) Normalize() {
	if p.Category == "" {
		p.Category = CategoryPersonal
	}
	if p.ProjectType == "" {
		p.ProjectType = defaultProjectType
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
}

// ShowsAsFeatured reports whether the project belongs in the featured
// section: flagged featured or filed under the Featured category.
func (p Project) ShowsAsFeatured() bool {
	return p.IsFeatured || p.Category == CategoryFeatured
}
