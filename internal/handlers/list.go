package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/auth"
	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/reorder"
	"github.com/sabyy027/portfolio/internal/service"
)

// ListHandler serves the admin API of one ordered list: CRUD, one-shot
// reorder and the step-by-step drag protocol.
type ListHandler[T reorder.Orderable[T]] struct {
	svc      *service.Ordered[T]
	newInput func() Input[T]
	blank    func() T
	gestures *gestures[T]
	logger   *zap.Logger
}

// NewListHandler creates the handler. blank returns the record a create
// request starts from, carrying the defaults of absent fields.
func NewListHandler[T reorder.Orderable[T]](svc *service.Ordered[T], newInput func() Input[T], blank func() T, logger *zap.Logger) *ListHandler[T] {
	return &ListHandler[T]{
		svc:      svc,
		newInput: newInput,
		blank:    blank,
		gestures: newGestures[T](),
		logger:   logger.With(zap.String("list", svc.Kind())),
	}
}

// Register mounts the list routes on rg.
func (h *ListHandler[T]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/reorder", h.Reorder)
	rg.GET("/drag", h.DragState)
	rg.POST("/drag/start", h.DragStart)
	rg.POST("/drag/over", h.DragOver)
	rg.POST("/drag/cancel", h.DragCancel)
	rg.POST("/drag/drop", h.DragDrop)
}

func (h *ListHandler[T]) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *ListHandler[T]) Create(c *gin.Context) {
	in := h.newInput()
	if err := c.ShouldBindJSON(in); err != nil {
		badRequest(c, err)
		return
	}
	item := h.blank()
	in.Apply(&item)
	created, err := h.svc.Create(c.Request.Context(), item, in.OrderValue())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ListHandler[T]) Update(c *gin.Context) {
	in := h.newInput()
	if err := c.ShouldBindJSON(in); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	item, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	in.Apply(&item)
	updated, err := h.svc.Update(ctx, item)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ListHandler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.svc.Kind() + " item deleted"})
}

// Reorder moves one item in a single request.
func (h *ListHandler[T]) Reorder(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	items, moved, err := h.svc.Reorder(ctx, *req.From, *req.To)
	respondReorder(c, h.logger, items, moved, err)
}

func (h *ListHandler[T]) DragState(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}
	g, ok := h.gestures.get(session)
	if !ok {
		c.JSON(http.StatusOK, reorder.Snapshot[T]{Phase: reorder.Idle, Source: -1, Target: -1, Items: []T{}})
		return
	}
	c.JSON(http.StatusOK, g.Snapshot())
}

// DragStart loads the current list and picks up the item at index.
func (h *ListHandler[T]) DragStart(c *gin.Context) {
	session, ok := sessionID(c)
	if !ok {
		return
	}
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	g, err := h.svc.Reorderer().Begin(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := g.Start(*req.Index); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.gestures.claim(session, g); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, g.Snapshot())
}

func (h *ListHandler[T]) DragOver(c *gin.Context) {
	_, g, ok := h.activeGesture(c)
	if !ok {
		return
	}
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := g.Over(*req.Index); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, g.Snapshot())
}

func (h *ListHandler[T]) DragCancel(c *gin.Context) {
	session, g, ok := h.activeGesture(c)
	if !ok {
		return
	}
	if err := g.Cancel(); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.gestures.release(session, g)
	c.JSON(http.StatusOK, g.Snapshot())
}

// DragDrop drops the dragged item at index and persists the new order.
// After a partial failure the gesture is resynced and the response carries
// the authoritative list. A finished drop ends the gesture.
func (h *ListHandler[T]) DragDrop(c *gin.Context) {
	session, g, ok := h.activeGesture(c)
	if !ok {
		return
	}
	var req IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := context.WithoutCancel(c.Request.Context())
	items, moved, err := g.Drop(ctx, *req.Index)
	if err == nil || errors.Is(err, reorder.ErrPersistenceBatch) {
		defer h.gestures.release(session, g)
	}
	if errors.Is(err, reorder.ErrPersistenceBatch) {
		fresh, rerr := g.Resync(ctx)
		if rerr != nil {
			h.logger.Error("resync after failed drop", zap.Error(rerr))
			fresh = nil
		}
		items = fresh
	}
	respondReorder(c, h.logger, items, moved, err)
}

func (h *ListHandler[T]) activeGesture(c *gin.Context) (string, *reorder.Gesture[T], bool) {
	session, ok := sessionID(c)
	if !ok {
		return "", nil, false
	}
	g, ok := h.gestures.get(session)
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": "no drag in progress"})
		return "", nil, false
	}
	return session, g, true
}

// EndSession drops any gesture the session holds on this list.
func (h *ListHandler[T]) EndSession(session string) {
	h.gestures.forget(session)
}

func sessionID(c *gin.Context) (string, bool) {
	sess, ok := auth.FromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return "", false
	}
	return sess.ID, true
}

func NewProjectHandler(svc *service.ProjectService, logger *zap.Logger) *ListHandler[domain.Project] {
	return NewListHandler(svc.Ordered,
		func() Input[domain.Project] { return &ProjectInput{} },
		func() domain.Project { return domain.Project{IsPublished: true} },
		logger)
}

func NewCertificationHandler(svc *service.CertificationService, logger *zap.Logger) *ListHandler[domain.Certification] {
	return NewListHandler(svc.Ordered,
		func() Input[domain.Certification] { return &CertificationInput{} },
		func() domain.Certification { return domain.Certification{} },
		logger)
}

func NewTimelineHandler(svc *service.TimelineService, logger *zap.Logger) *ListHandler[domain.TimelineNode] {
	return NewListHandler(svc.Ordered,
		func() Input[domain.TimelineNode] { return &TimelineInput{} },
		func() domain.TimelineNode { return domain.TimelineNode{} },
		logger)
}
