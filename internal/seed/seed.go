// Package seed reads and writes YAML snapshots of the site content.
package seed

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/service"
)

// Snapshot is the whole content of the site. Lists keep their orders.
type Snapshot struct {
	Profile        *domain.Profile        `yaml:"profile,omitempty"`
	Projects       []domain.Project       `yaml:"projects"`
	Certifications []domain.Certification `yaml:"certifications"`
	Timeline       []domain.TimelineNode  `yaml:"timeline"`
}

// Result counts what Apply wrote.
type Result struct {
	Profile        bool
	Projects       int
	Certifications int
	Timeline       int
}

func (r Result) String() string {
	return fmt.Sprintf("profile=%t projects=%d certifications=%d timeline=%d",
		r.Profile, r.Projects, r.Certifications, r.Timeline)
}

// Export reads the current content. Before a profile is saved the
// built-in default is exported.
func Export(ctx context.Context, svcs *service.Services) (Snapshot, error) {
	profile, err := svcs.Profile.Get(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting profile: %w", err)
	}
	projects, err := svcs.Projects.FetchAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting projects: %w", err)
	}
	certs, err := svcs.Certifications.FetchAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting certifications: %w", err)
	}
	timeline, err := svcs.Timeline.FetchAll(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("exporting timeline: %w", err)
	}
	return Snapshot{Profile: &profile, Projects: projects, Certifications: certs, Timeline: timeline}, nil
}

// Apply upserts the profile and creates every listed item at its listed
// order. Items are added next to existing content, never merged with it.
func Apply(ctx context.Context, svcs *service.Services, snap Snapshot) (Result, error) {
	var res Result
	if snap.Profile != nil {
		if _, err := svcs.Profile.Save(ctx, *snap.Profile); err != nil {
			return res, fmt.Errorf("seeding profile: %w", err)
		}
		res.Profile = true
	}

	var err error
	if res.Projects, err = createAll(ctx, svcs.Projects.Ordered, snap.Projects); err != nil {
		return res, err
	}
	if res.Certifications, err = createAll(ctx, svcs.Certifications.Ordered, snap.Certifications); err != nil {
		return res, err
	}
	if res.Timeline, err = createAll(ctx, svcs.Timeline.Ordered, snap.Timeline); err != nil {
		return res, err
	}
	return res, nil
}

type creator[T any] interface {
	Kind() string
	Create(ctx context.Context, item T, order *int) (T, error)
}

type orderedItem interface {
	ItemOrder() int
}

func createAll[T orderedItem](ctx context.Context, svc creator[T], items []T) (int, error) {
	for i, item := range items {
		order := item.ItemOrder()
		if _, err := svc.Create(ctx, item, &order); err != nil {
			return i, fmt.Errorf("seeding %s item %d: %w", svc.Kind(), i, err)
		}
	}
	return len(items), nil
}

// Read decodes a YAML snapshot.
func Read(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&snap); err != nil {
		if err == io.EOF {
			return Snapshot{}, nil
		}
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

// Write encodes snap as YAML.
func Write(w io.Writer, snap Snapshot) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return enc.Close()
}
