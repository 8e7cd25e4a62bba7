// admin.go - password-gated admin area and privacy-conscious visitor tracking
package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/auth"
	"github.com/sabyy027/portfolio/internal/handlers"
	"github.com/sabyy027/portfolio/internal/seed"
	"github.com/sabyy027/portfolio/internal/store"
)

// AdminStats is the dashboard summary: visitor figures plus content sizes.
type AdminStats struct {
	store.VisitorStats
	Projects       int `json:"projects"`
	Certifications int `json:"certifications"`
	TimelineNodes  int `json:"timeline_nodes"`
}

type loginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashIP hashes an address with the process salt so visitors can be told
// apart without storing their IP.
func (a *app) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// visitorTrackingMiddleware records public page views with hashed IPs.
// Admin and static paths are skipped, as is any request sending DNT: 1.
func (a *app) visitorTrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method == http.MethodOptions ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/admin") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") ||
			path == "/health" || path == "/version" {
			c.Next()
			return
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		hashed, userAgent := a.hashIP(c.ClientIP()), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := a.svcs.Visitors.Record(ctx, hashed, userAgent, path); err != nil {
				a.logger.Warn("recording visitor", zap.Error(err))
			}
		}()
		c.Next()
	}
}

// cleanupOldVisitorData purges visits past the retention period.
func (a *app) cleanupOldVisitorData(ctx context.Context) (int64, error) {
	removed, err := a.svcs.Visitors.PurgeOlderThan(ctx, a.cfg.Admin.VisitorRetention.Duration())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		a.logger.Info("privacy cleanup: removed old visitor records",
			zap.Int64("removed", removed),
			zap.Duration("retention", a.cfg.Admin.VisitorRetention.Duration()))
	}
	return removed, nil
}

// retentionLoop runs the visitor cleanup now and then every interval.
func (a *app) retentionLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := a.cleanupOldVisitorData(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("privacy cleanup failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *app) adminStats(ctx context.Context) (AdminStats, error) {
	visitors, err := a.svcs.Visitors.Stats(ctx, 50)
	if err != nil {
		return AdminStats{}, err
	}
	stats := AdminStats{VisitorStats: visitors}

	if stats.Projects, err = a.svcs.Projects.Count(ctx); err != nil {
		return AdminStats{}, err
	}
	if stats.Certifications, err = a.svcs.Certifications.Count(ctx); err != nil {
		return AdminStats{}, err
	}
	if stats.TimelineNodes, err = a.svcs.Timeline.Count(ctx); err != nil {
		return AdminStats{}, err
	}
	return stats, nil
}

// setupAdminRoutes mounts login, the protected content API and the
// stats and export endpoints.
func (a *app) setupAdminRoutes(r *gin.Engine, content *handlers.Content) {
	ttl := a.sessions.TTL()
	secure := a.cfg.Admin.SecureCookie

	projects := handlers.NewProjectHandler(a.svcs.Projects, a.logger)
	certifications := handlers.NewCertificationHandler(a.svcs.Certifications, a.logger)
	timeline := handlers.NewTimelineHandler(a.svcs.Timeline, a.logger)

	r.POST("/admin/login", func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
			return
		}
		if err := a.password.Check(req.Password); err != nil {
			a.logger.Warn("failed admin login attempt", zap.String("from", a.hashIP(c.ClientIP())))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		sess, err := a.sessions.Create(c.Request.Context())
		if err != nil {
			a.logger.Error("creating admin session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
			return
		}
		auth.SetCookie(c, sess, int(ttl.Seconds()), secure)
		a.logger.Info("admin login successful", zap.String("from", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "expiresAt": sess.ExpiresAt})
	})

	r.POST("/admin/logout", func(c *gin.Context) {
		if id, err := c.Cookie(auth.CookieName); err == nil && id != "" {
			if err := a.sessions.Delete(c.Request.Context(), id); err != nil {
				a.logger.Warn("deleting admin session", zap.Error(err))
			}
			projects.EndSession(id)
			certifications.EndSession(id)
			timeline.EndSession(id)
		}
		auth.ClearCookie(c, secure)
		a.logger.Info("admin logout", zap.String("from", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
	})

	r.GET("/admin/session", func(c *gin.Context) {
		id, err := c.Cookie(auth.CookieName)
		if err != nil || id == "" {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		sess, err := a.sessions.Get(c.Request.Context(), id)
		if errors.Is(err, auth.ErrNoSession) {
			c.JSON(http.StatusOK, gin.H{"authenticated": false})
			return
		}
		if err != nil {
			a.logger.Error("loading admin session", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": true, "expiresAt": sess.ExpiresAt})
	})

	adminGroup := r.Group("/admin", auth.RequireSession(a.sessions))

	api := adminGroup.Group("/api")
	api.GET("/profile", content.Profile)
	api.POST("/profile", content.SaveProfile)
	projects.Register(api.Group("/projects"))
	certifications.Register(api.Group("/certifications"))
	timeline.Register(api.Group("/learning"))

	api.GET("/stats", func(c *gin.Context) {
		stats, err := a.adminStats(c.Request.Context())
		if err != nil {
			a.logger.Error("loading admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.adminStats(c.Request.Context())
		if err != nil {
			a.logger.Error("exporting admin stats", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", zap.String("by", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})

	adminGroup.GET("/export/content", func(c *gin.Context) {
		snap, err := seed.Export(c.Request.Context(), a.svcs)
		if err != nil {
			a.logger.Error("exporting content", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export content"})
			return
		}
		var buf bytes.Buffer
		if err := seed.Write(&buf, snap); err != nil {
			a.logger.Error("encoding content export", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export content"})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=portfolio-content.yaml")
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", buf.Bytes())
	})

	adminGroup.POST("/privacy/cleanup", func(c *gin.Context) {
		removed, err := a.cleanupOldVisitorData(c.Request.Context())
		if err != nil {
			a.logger.Error("privacy cleanup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": removed})
	})
}
