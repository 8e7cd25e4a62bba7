package domain

import "time"

// TimelineCategory classifies a career-timeline node.
type TimelineCategory string

const (
	TimelineEducation     TimelineCategory = "education"
	TimelineExperience    TimelineCategory = "experience"
	TimelineProject       TimelineCategory = "project"
	TimelineCertification TimelineCategory = "certification"
	TimelineInternship    TimelineCategory = "internship"
)

// TimelineNode is one entry of the career timeline ("learning curve").
type TimelineNode struct {
	ID            string           `json:"id" yaml:"-"`
	Title         string           `json:"title" yaml:"title" validate:"required,max=200"`
	Date          string           `json:"date" yaml:"date" validate:"required,max=40"`
	Description   string           `json:"description" yaml:"description" validate:"required,max=5000"`
	Category      TimelineCategory `json:"category" yaml:"category" validate:"required,oneof=education experience project certification internship"`
	Institution   string           `json:"institution,omitempty" yaml:"institution,omitempty" validate:"max=200"`
	Tags          []string         `json:"tags" yaml:"tags" validate:"dive,required,max=60"`
	IsHighlighted bool             `json:"isHighlighted" yaml:"isHighlighted"`
	Order         int              `json:"order" yaml:"order" validate:"min=0"`
	CreatedAt     time.Time        `json:"createdAt" yaml:"-"`
	UpdatedAt     time.Time        `json:"updatedAt" yaml:"-"`
}

func (n TimelineNode) ItemID() string { return n.ID }
func (n TimelineNode) ItemOrder() int { return n.Order }

func (n TimelineNode) WithOrder(order int) TimelineNode {
	n.Order = order
	return n
}

// Normalize fills defaults for fields left empty.
func (n *TimelineNode) Normalize() {
	if n.Category == "" {
		n.Category = TimelineExperience
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
}
