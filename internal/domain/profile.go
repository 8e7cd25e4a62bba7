package domain

import "time"

// Profile is the single owner profile shown across the site.
type Profile struct {
	ID              string    `json:"id,omitempty" yaml:"-"`
	Name            string    `json:"name" yaml:"name" validate:"required,max=120"`
	Role            string    `json:"role" yaml:"role" validate:"required,max=120"`
	About           string    `json:"about" yaml:"about" validate:"required,max=5000"`
	Email           string    `json:"email" yaml:"email" validate:"required,email"`
	ResumeLink      string    `json:"resumeLink" yaml:"resumeLink" validate:"max=2048"`
	GithubLink      string    `json:"githubLink,omitempty" yaml:"githubLink,omitempty" validate:"omitempty,url"`
	LinkedinLink    string    `json:"linkedinLink,omitempty" yaml:"linkedinLink,omitempty" validate:"omitempty,url"`
	MaintenanceMode bool      `json:"maintenanceMode" yaml:"maintenanceMode"`
	CreatedAt       time.Time `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt       time.Time `json:"updatedAt,omitzero" yaml:"-"`
}

// Normalize fills defaults for fields left empty.
func (p *Profile) Normalize() {
	if p.ResumeLink == "" {
		p.ResumeLink = "#"
	}
}
