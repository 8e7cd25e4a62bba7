package service

import (
	"database/sql"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sabyy027/portfolio/internal/cache"
	"github.com/sabyy027/portfolio/internal/domain"
	"github.com/sabyy027/portfolio/internal/store"
)

// Services bundles every content service over one database.
type Services struct {
	Profile        *ProfileService
	Projects       *ProjectService
	Certifications *CertificationService
	Timeline       *TimelineService
	Visitors       *store.VisitorRepo
}

// New wires the services. rdb may be nil, which disables list caching.
func New(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, fallback domain.Profile, logger *zap.Logger) *Services {
	return &Services{
		Profile: NewProfileService(store.NewProfileRepo(db), fallback),
		Projects: NewProjectService(NewOrdered[domain.Project]("projects",
			store.NewProjectRepo(db),
			cache.NewListCache[domain.Project](rdb, "projects", cacheTTL),
			logger)),
		Certifications: NewCertificationService(NewOrdered[domain.Certification]("certifications",
			store.NewCertificationRepo(db),
			cache.NewListCache[domain.Certification](rdb, "certifications", cacheTTL),
			logger)),
		Timeline: NewTimelineService(NewOrdered[domain.TimelineNode]("learning",
			store.NewTimelineRepo(db),
			cache.NewListCache[domain.TimelineNode](rdb, "learning", cacheTTL),
			logger)),
		Visitors: store.NewVisitorRepo(db),
	}
}
