package handlers

import (
	"strings"

	"github.com/sabyy027/portfolio/internal/domain"
)

// Input is a request body for one list entity. Only the fields present in
// the body are applied, so the same type serves create and partial update.
type Input[T any] interface {
	Apply(item *T)
	OrderValue() *int
}

type ProjectInput struct {
	Title           *string   `json:"title"`
	Description     *string   `json:"description"`
	TechStack       *[]string `json:"techStack"`
	RepoLink        *string   `json:"repoLink"`
	DemoLink        *string   `json:"demoLink"`
	ImageURL        *string   `json:"imageUrl"`
	Category        *string   `json:"category"`
	ProjectType     *string   `json:"projectType"`
	IsPublished     *bool     `json:"isPublished"`
	IsFeatured      *bool     `json:"isFeatured"`
	IsOngoing       *bool     `json:"isOngoing"`
	Order           *int      `json:"order"`
	LongDescription *string   `json:"longDescription"`
	Features        *[]string `json:"features"`
}

func (in *ProjectInput) Apply(p *domain.Project) {
	setString(&p.Title, in.Title)
	setString(&p.Description, in.Description)
	setList(&p.TechStack, in.TechStack)
	setString(&p.RepoLink, in.RepoLink)
	setString(&p.DemoLink, in.DemoLink)
	setString(&p.ImageURL, in.ImageURL)
	if in.Category != nil {
		p.Category = domain.ProjectCategory(strings.TrimSpace(*in.Category))
	}
	setString(&p.ProjectType, in.ProjectType)
	setBool(&p.IsPublished, in.IsPublished)
	setBool(&p.IsFeatured, in.IsFeatured)
	setBool(&p.IsOngoing, in.IsOngoing)
	setInt(&p.Order, in.Order)
	setString(&p.LongDescription, in.LongDescription)
	setList(&p.Features, in.Features)
}

func (in *ProjectInput) OrderValue() *int { return in.Order }

type CertificationInput struct {
	Name           *string `json:"name"`
	Issuer         *string `json:"issuer"`
	Date           *string `json:"date"`
	ImageURL       *string `json:"imageUrl"`
	CredentialLink *string `json:"credentialLink"`
	IsFeatured     *bool   `json:"isFeatured"`
	Priority       *int    `json:"priority"`
	Order          *int    `json:"order"`
}

func (in *CertificationInput) Apply(c *domain.Certification) {
	setString(&c.Name, in.Name)
	setString(&c.Issuer, in.Issuer)
	setString(&c.Date, in.Date)
	setString(&c.ImageURL, in.ImageURL)
	setString(&c.CredentialLink, in.CredentialLink)
	setBool(&c.IsFeatured, in.IsFeatured)
	setInt(&c.Priority, in.Priority)
	setInt(&c.Order, in.Order)
}

func (in *CertificationInput) OrderValue() *int { return in.Order }

type TimelineInput struct {
	Title         *string   `json:"title"`
	Date          *string   `json:"date"`
	Description   *string   `json:"description"`
	Category      *string   `json:"category"`
	Institution   *string   `json:"institution"`
	Tags          *[]string `json:"tags"`
	IsHighlighted *bool     `json:"isHighlighted"`
	Order         *int      `json:"order"`
}

func (in *TimelineInput) Apply(n *domain.TimelineNode) {
	setString(&n.Title, in.Title)
	setString(&n.Date, in.Date)
	setString(&n.Description, in.Description)
	if in.Category != nil {
		n.Category = domain.TimelineCategory(strings.ToLower(strings.TrimSpace(*in.Category)))
	}
	setString(&n.Institution, in.Institution)
	setList(&n.Tags, in.Tags)
	setBool(&n.IsHighlighted, in.IsHighlighted)
	setInt(&n.Order, in.Order)
}

func (in *TimelineInput) OrderValue() *int { return in.Order }

// ProfileInput replaces the whole profile.
type ProfileInput struct {
	Name            string `json:"name"`
	Role            string `json:"role"`
	About           string `json:"about"`
	Email           string `json:"email"`
	ResumeLink      string `json:"resumeLink"`
	GithubLink      string `json:"githubLink"`
	LinkedinLink    string `json:"linkedinLink"`
	MaintenanceMode bool   `json:"maintenanceMode"`
}

func (in ProfileInput) Profile() domain.Profile {
	return domain.Profile{
		Name:            strings.TrimSpace(in.Name),
		Role:            strings.TrimSpace(in.Role),
		About:           strings.TrimSpace(in.About),
		Email:           strings.TrimSpace(in.Email),
		ResumeLink:      strings.TrimSpace(in.ResumeLink),
		GithubLink:      strings.TrimSpace(in.GithubLink),
		LinkedinLink:    strings.TrimSpace(in.LinkedinLink),
		MaintenanceMode: in.MaintenanceMode,
	}
}

// MoveRequest is the body of a one-shot reorder.
type MoveRequest struct {
	From *int `json:"from" binding:"required"`
	To   *int `json:"to" binding:"required"`
}

// IndexRequest carries the list position of a drag event.
type IndexRequest struct {
	Index *int `json:"index" binding:"required"`
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	out := make([]string, 0, len(*v))
	for _, s := range *v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	*dst = out
}
