package domain

import "time"

// MaxPriority is the highest certification priority.
const MaxPriority = 10

// Certification is one earned certificate. Priority ranks featured
// certificates; higher shows first.
type Certification struct {
	ID             string    `json:"id" yaml:"-"`
	Name           string    `json:"name" yaml:"name" validate:"required,max=200"`
	Issuer         string    `json:"issuer" yaml:"issuer" validate:"required,max=200"`
	Date           string    `json:"date" yaml:"date" validate:"required,max=40"`
	ImageURL       string    `json:"imageUrl" yaml:"imageUrl" validate:"required,max=2048"`
	CredentialLink string    `json:"credentialLink,omitempty" yaml:"credentialLink,omitempty" validate:"omitempty,url"`
	IsFeatured     bool      `json:"isFeatured" yaml:"isFeatured"`
	Priority       int       `json:"priority" yaml:"priority" validate:"min=0,max=10"`
	Order          int       `json:"order" yaml:"order" validate:"min=0"`
	CreatedAt      time.Time `json:"createdAt" yaml:"-"`
	UpdatedAt      time.Time `json:"updatedAt" yaml:"-"`
}

func (c Certification) ItemID() string { return c.ID }
func (c Certification) ItemOrder() int { return c.Order }

func (c Certification) WithOrder(order int) Certification {
	c.Order = order
	return c
}
