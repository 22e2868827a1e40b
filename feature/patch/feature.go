package patch

import (
	"patch-tracker/core/fetch"
	"patch-tracker/core/notify"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the patch crawler feature. archive and publisher may be
// nil when their backends are disabled.
func NewFeature(db *gorm.DB, fetcher fetch.Fetcher, archive *Archive, publisher notify.Publisher, logger *zap.Logger) *Feature {
	svc := NewService(NewStore(db), fetcher, archive, publisher, logger)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "patch"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the crawl service for CLI use.
func (f *Feature) Service() *Service {
	return f.service
}
