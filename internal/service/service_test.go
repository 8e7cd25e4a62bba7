package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/reorder"
	"github.com/sabyy027/portfolio/internal/store"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := store.Open(context.Background(), store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newProject(title string) domain.Project {
	return domain.Project{
		Title:       title,
		Description: title + " description",
		ImageURL:    "/images/" + title + ".png",
		IsPublished: true,
	}
}

func titles(list []domain.Project) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Title
	}
	return out
}

func seedProjects(t *testing.T, s *ProjectService, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := s.Create(context.Background(), newProject(n), nil)
		require.NoError(t, err)
	}
}

// failingRepo rejects order writes for the listed ids.
type failingRepo struct {
	*store.ProjectRepo
	fail map[string]bool
}

func (r failingRepo) SetOrder(ctx context.Context, id string, order int) error {
	if r.fail[id] {
		return errors.New("disk full")
	}
	return r.ProjectRepo.SetOrder(ctx, id, order)
}

func TestOrdered_CreateAppends(t *testing.T) {
	svcs := New(newTestDB(t), nil, 0, domain.Profile{}, zap.NewNop())
	ctx := context.Background()

	a, err := svcs.Projects.Create(ctx, newProject("a"), nil)
	require.NoError(t, err)
	b, err := svcs.Projects.Create(ctx, newProject("b"), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Order)
	assert.Equal(t, 1, b.Order)

	explicit := 7
	c, err := svcs.Projects.Create(ctx, newProject("c"), &explicit)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Order)

	d, err := svcs.Projects.Create(ctx, newProject("d"), nil)
	require.NoError(t, err)
	assert.Equal(t, 8, d.Order)
}

func TestOrdered_UpdateAndDelete(t *testing.T) {
	svcs := New(newTestDB(t), nil, 0, domain.Profile{}, zap.NewNop())
	ctx := context.Background()

	p, err := svcs.Projects.Create(ctx, newProject("a"), nil)
	require.NoError(t, err)

	p.Title = "renamed"
	updated, err := svcs.Projects.Update(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	require.NoError(t, svcs.Projects.Delete(ctx, p.ID))
	_, err = svcs.Projects.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svcs.Projects.Delete(ctx, p.ID), ErrNotFound)

	_, err = svcs.Projects.Update(ctx, p)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrdered_ReorderPersistsDenseOrder(t *testing.T) {
	svcs := New(newTestDB(t), nil, 0, domain.Profile{}, zap.NewNop())
	ctx := context.Background()
	seedProjects(t, svcs.Projects, "a", "b", "c")

	items, moved, err := svcs.Projects.Reorder(ctx, 0, 2)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, []string{"b", "c", "a"}, titles(items))

	stored, err := svcs.Projects.List(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"b", "c", "a"}, titles(stored)); diff != "" {
		t.Errorf("stored order mismatch (-want +got):\n%s", diff)
	}
	for i, p := range stored {
		assert.Equal(t, i, p.Order)
	}
}

func TestOrdered_ReorderNoOp(t *testing.T) {
	svcs := New(newTestDB(t), nil, 0, domain.Profile{}, zap.NewNop())
	ctx := context.Background()
	seedProjects(t, svcs.Projects, "a", "b")

	items, moved, err := svcs.Projects.Reorder(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, []string{"a", "b"}, titles(items))

	_, moved, err = svcs.Projects.Reorder(ctx, 0, 5)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestOrdered_ReorderFailureReturnsAuthoritativeList(t *testing.T) {
	db := newTestDB(t)
	repo := store.NewProjectRepo(db)
	svc := NewProjectService(NewOrdered[domain.Project]("projects", repo, nil, zap.NewNop()))
	ctx := context.Background()
	seedProjects(t, svc, "a", "b", "c")

	all, err := svc.List(ctx)
	require.NoError(t, err)
	failing := NewProjectService(NewOrdered[domain.Project]("projects",
		failingRepo{ProjectRepo: repo, fail: map[string]bool{all[0].ID: true}}, nil, zap.NewNop()))

	items, moved, err := failing.Reorder(ctx, 0, 2)
	require.Error(t, err)
	assert.True(t, moved)
	assert.ErrorIs(t, err, reorder.ErrPersistenceBatch)

	var batch *reorder.BatchError
	require.True(t, errors.As(err, &batch))
	assert.Equal(t, []string{all[0].ID}, batch.FailedIDs())
	assert.Len(t, batch.Succeeded, 2)

	// a kept order 0 while b and c moved to 0 and 1
	require.Len(t, items, 3)
	orders := map[string]int{}
	for _, p := range items {
		orders[p.Title] = p.Order
	}
	assert.Equal(t, map[string]int{"a": 0, "b": 0, "c": 1}, orders)
}

func TestProjectService_Views(t *testing.T) {
	svcs := New(newTestDB(t), nil, 0, domain.Profile{}, zap.NewNop())
	ctx := context.Background()

	flagged := newProject("flagged")
	flagged.IsFeatured = true
	filed := newProject("filed")
	filed.Category = domain.CategoryFeatured
	mini := newProject("mini")
	mini.Category = domain.CategoryMini
	draft := newProject("draft")
	draft.IsPublished = false
	personal := newProject("personal")

	for _, p := range []domain.Project{flagged, filed, mini, draft, personal} {
		_, err := svcs.Projects.Create(ctx, p, nil)
		require.NoError(t, err)
	}

	published, err := svcs.Projects.Published(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"flagged", "filed", "mini", "personal"}, titles(published))

	featured, err := svcs.Projects.Published(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"flagged"}, titles(featured))

	sec, err := svcs.Projects.Sections(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"flagged", "filed"}, titles(sec.Featured))
	assert.Equal(t, []string{"personal"}, titles(sec.Personal))
	assert.Equal(t, []string{"mini"}, titles(sec.Mini))
	assert.Len(t, published, len(sec.Featured)+len(sec.Personal)+len(sec.Mini),
		"every published project lands in exactly one section")
}

func TestCertificationService_FeaturedByPriority(t *testing.T) {
	svcs := New(newTestDB(t), nil, 0, domain.Profile{}, zap.NewNop())
	ctx := context.Background()

	certs := []domain.Certification{
		{Name: "low", Priority: 1, IsFeatured: true},
		{Name: "plain", Priority: 9},
		{Name: "high", Priority: 8, IsFeatured: true},
		{Name: "low-later", Priority: 1, IsFeatured: true},
	}
	for _, c := range certs {
		c.Issuer, c.Date, c.ImageURL = "Issuer", "2024", "cert.png"
		_, err := svcs.Certifications.Create(ctx, c, nil)
		require.NoError(t, err)
	}

	featured, err := svcs.Certifications.Featured(ctx)
	require.NoError(t, err)
	names := []string{}
	for _, c := range featured {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"high", "low", "low-later"}, names)

	sec, err := svcs.Certifications.Sections(ctx)
	require.NoError(t, err)
	assert.Len(t, sec.Featured, 3)
	require.Len(t, sec.Others, 1)
	assert.Equal(t, "plain", sec.Others[0].Name)
}

func TestProfileService_FallsBackToDefault(t *testing.T) {
	fallback := domain.Profile{Name: "Default", Role: "Dev", About: "About", Email: "me@example.com", ResumeLink: "#"}
	svcs := New(newTestDB(t), nil, 0, fallback, zap.NewNop())
	ctx := context.Background()

	got, err := svcs.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	saved, err := svcs.Profile.Save(ctx, domain.Profile{Name: "Saved", Role: "Dev", About: "About", Email: "me@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	got, err = svcs.Profile.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Saved", got.Name)

	_, err = svcs.Profile.Save(ctx, domain.Profile{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalid)
}
