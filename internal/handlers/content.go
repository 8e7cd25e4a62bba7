package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/service"
)

// Content serves the public read API and the admin profile endpoints.
type Content struct {
	svcs   *service.Services
	logger *zap.Logger
}

func NewContent(svcs *service.Services, logger *zap.Logger) *Content {
	return &Content{svcs: svcs, logger: logger}
}

// RegisterPublic mounts the read-only routes on rg.
func (h *Content) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/profile", h.Profile)
	rg.GET("/projects", h.Projects)
	rg.GET("/projects/sections", h.ProjectSections)
	rg.GET("/certifications", h.Certifications)
	rg.GET("/certifications/sections", h.CertificationSections)
	rg.GET("/learning", h.Timeline)
}

func (h *Content) Profile(c *gin.Context) {
	p, err := h.svcs.Profile.Get(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// SaveProfile replaces the stored profile.
func (h *Content) SaveProfile(c *gin.Context) {
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.svcs.Profile.Save(c.Request.Context(), in.Profile())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Projects returns published projects; ?featured=true keeps flagged ones only.
func (h *Content) Projects(c *gin.Context) {
	list, err := h.svcs.Projects.Published(c.Request.Context(), queryBool(c, "featured"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Content) ProjectSections(c *gin.Context) {
	sec, err := h.svcs.Projects.Sections(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sec)
}

// Certifications returns every certification by order, or with
// ?featured=true the featured ones by priority.
func (h *Content) Certifications(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list any
		err  error
	)
	if queryBool(c, "featured") {
		list, err = h.svcs.Certifications.Featured(ctx)
	} else {
		list, err = h.svcs.Certifications.List(ctx)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Content) CertificationSections(c *gin.Context) {
	sec, err := h.svcs.Certifications.Sections(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sec)
}

func (h *Content) Timeline(c *gin.Context) {
	list, err := h.svcs.Timeline.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
