package seed

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/service"
	"github.com/sabyy027/portfolio/internal/store"
)

const sample = `
profile:
  name: Ada
  role: Engineer
  about: Builds things
  email: ada@example.com
projects:
  - title: Portfolio
    description: This site
    imageUrl: /images/portfolio.png
    techStack: [Go, SQLite]
    category: Featured
    isPublished: true
    order: 1
  - title: CLI
    description: A tool
    imageUrl: /images/cli.png
    isPublished: true
    order: 0
certifications:
  - name: CKA
    issuer: CNCF
    date: "2024"
    imageUrl: /images/cka.png
    isFeatured: true
    priority: 5
    order: 0
timeline:
  - title: University
    date: 2019 - 2023
    description: BSc Computer Science
    category: education
    tags: [cs]
    order: 0
`

func newServices(t *testing.T) *service.Services {
	t.Helper()
	db, err := store.Open(context.Background(), store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return service.New(db, nil, 0, domain.Profile{}, zap.NewNop())
}

func TestRead_RejectsUnknownFields(t *testing.T) {
	_, err := Read(strings.NewReader("projects:\n  - title: x\n    colour: red\n"))
	assert.Error(t, err)

	snap, err := Read(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, snap.Profile)
}

func TestApply_KeepsListedOrder(t *testing.T) {
	svcs := newServices(t)
	ctx := context.Background()

	snap, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	res, err := Apply(ctx, svcs, snap)
	require.NoError(t, err)
	assert.Equal(t, Result{Profile: true, Projects: 2, Certifications: 1, Timeline: 1}, res)

	projects, err := svcs.Projects.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "CLI", projects[0].Title)
	assert.Equal(t, "Portfolio", projects[1].Title)
	assert.Equal(t, []string{"Go", "SQLite"}, projects[1].TechStack)

	profile, err := svcs.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.Name)
}

func TestApply_StopsAtInvalidItem(t *testing.T) {
	svcs := newServices(t)
	snap := Snapshot{Projects: []domain.Project{{Title: "no description"}}}
	_, err := Apply(context.Background(), svcs, snap)
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newServices(t)
	snap, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	_, err = Apply(ctx, src, snap)
	require.NoError(t, err)

	exported, err := Export(ctx, src)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exported))

	dst := newServices(t)
	reread, err := Read(&buf)
	require.NoError(t, err)
	_, err = Apply(ctx, dst, reread)
	require.NoError(t, err)

	again, err := Export(ctx, dst)
	require.NoError(t, err)

	ignore := cmp.Options{
		cmpopts.IgnoreFields(domain.Profile{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(domain.Project{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(domain.Certification{}, "ID", "CreatedAt", "UpdatedAt"),
		cmpopts.IgnoreFields(domain.TimelineNode{}, "ID", "CreatedAt", "UpdatedAt"),
	}
	if diff := cmp.Diff(exported, again, ignore); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
