package gallery

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the gallery feature.
func NewFeature(deps Deps, requestTimeout time.Duration) *Feature {
	svc := NewService(deps)
	return &Feature{service: svc, handler: NewHandler(svc, requestTimeout)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "gallery"
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

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
