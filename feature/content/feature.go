package content

import (
	"gyrinx-content/core/datasource"
	"gyrinx-content/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the content feature.
func NewFeature(db *gorm.DB, client storage.Client, bucket string, cfg datasource.Config, logger *zap.Logger) *Feature {
	svc := NewService(db, client, bucket, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service exposes the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "content"
}

// IsEnabled reports whether a database is available.
func (f *Feature) IsEnabled() bool {
	return f.service.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
