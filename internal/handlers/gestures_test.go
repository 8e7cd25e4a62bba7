package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/auth"
	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/service"
	"github.com/sabyy027/portfolio/internal/store"
)

type dragRig struct {
	h        *ListHandler[domain.Project]
	router   *gin.Engine
	sessions *auth.MemoryStore
}

func newDragRig(t *testing.T, titles ...string) *dragRig {
	t.Helper()
	db, err := store.Open(context.Background(), store.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svcs := service.New(db, nil, 0, domain.Profile{}, zap.NewNop())
	for _, title := range titles {
		_, err := svcs.Projects.Create(context.Background(), domain.Project{
			Title: title, Description: "d", ImageURL: "/i.png", IsPublished: true,
		}, nil)
		require.NoError(t, err)
	}

	sessions := auth.NewMemoryStore(time.Hour)
	h := NewProjectHandler(svcs.Projects, zap.NewNop())
	r := gin.New()
	h.Register(r.Group("/projects", auth.RequireSession(sessions)))
	return &dragRig{h: h, router: r, sessions: sessions}
}

func (d *dragRig) login(t *testing.T) string {
	t.Helper()
	sess, err := d.sessions.Create(context.Background())
	require.NoError(t, err)
	return sess.ID
}

func (d *dragRig) post(t *testing.T, session, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: session})
	w := httptest.NewRecorder()
	d.router.ServeHTTP(w, req)
	return w
}

func (d *dragRig) held() int {
	d.h.gestures.mu.Lock()
	defer d.h.gestures.mu.Unlock()
	return len(d.h.gestures.m)
}

func TestGestures_FinishedDropsAreReleased(t *testing.T) {
	d := newDragRig(t, "a", "b", "c")

	for i := 0; i < 20; i++ {
		session := d.login(t)
		w := d.post(t, session, "/projects/drag/start", `{"index":0}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = d.post(t, session, "/projects/drag/drop", `{"index":2}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Zero(t, d.held())

	session := d.login(t)
	require.Equal(t, http.StatusOK, d.post(t, session, "/projects/drag/start", `{"index":1}`).Code)
	w := d.post(t, session, "/projects/drag/drop", `{"index":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"moved":false`)
	assert.Zero(t, d.held(), "a no-op drop also ends the gesture")
}

func TestGestures_CancelAndLogoutRelease(t *testing.T) {
	d := newDragRig(t, "a", "b")

	cancelled := d.login(t)
	require.Equal(t, http.StatusOK, d.post(t, cancelled, "/projects/drag/start", `{"index":0}`).Code)
	require.Equal(t, http.StatusOK, d.post(t, cancelled, "/projects/drag/cancel", "").Code)
	assert.Zero(t, d.held())

	loggedOut := d.login(t)
	require.Equal(t, http.StatusOK, d.post(t, loggedOut, "/projects/drag/start", `{"index":0}`).Code)
	require.Equal(t, 1, d.held())
	d.h.EndSession(loggedOut)
	assert.Zero(t, d.held())
}

func TestGestures_InvalidDropKeepsGesture(t *testing.T) {
	d := newDragRig(t, "a", "b")
	session := d.login(t)

	require.Equal(t, http.StatusOK, d.post(t, session, "/projects/drag/start", `{"index":0}`).Code)
	require.Equal(t, http.StatusOK, d.post(t, session, "/projects/drag/cancel", "").Code)
	require.Equal(t, http.StatusOK, d.post(t, session, "/projects/drag/start", `{"index":0}`).Code)

	w := d.post(t, session, "/projects/drag/drop", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 1, d.held(), "a malformed drop leaves the drag in progress")
}

func TestGestures_IdleEntriesArePruned(t *testing.T) {
	d := newDragRig(t, "a", "b")
	now := time.Now()
	d.h.gestures.now = func() time.Time { return now }

	abandoned := d.login(t)
	require.Equal(t, http.StatusOK, d.post(t, abandoned, "/projects/drag/start", `{"index":0}`).Code)

	now = now.Add(gestureIdleTimeout + time.Minute)
	active := d.login(t)
	require.Equal(t, http.StatusOK, d.post(t, active, "/projects/drag/start", `{"index":1}`).Code)

	assert.Equal(t, 1, d.held())
	_, ok := d.h.gestures.get(abandoned)
	assert.False(t, ok)
	_, ok = d.h.gestures.get(active)
	assert.True(t, ok)
}

func TestGestures_ReleaseKeepsNewerGesture(t *testing.T) {
	d := newDragRig(t, "a", "b")
	session := d.login(t)
	ctx := context.Background()

	older, err := d.h.svc.Reorderer().Begin(ctx)
	require.NoError(t, err)
	newer, err := d.h.svc.Reorderer().Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, d.h.gestures.claim(session, older))
	require.NoError(t, d.h.gestures.claim(session, newer))
	d.h.gestures.release(session, older)

	got, ok := d.h.gestures.get(session)
	require.True(t, ok)
	assert.Same(t, newer, got)
}
