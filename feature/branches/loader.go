package branches

import (
	"github.com/VinniZP/lingx/core/reconcile"
	"github.com/VinniZP/lingx/core/storage"
	"github.com/VinniZP/lingx/feature/branches/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	db      *gorm.DB
}

// NewFeature creates a new Branches feature.
func NewFeature(db *gorm.DB, client storage.Client, archiveCfg storage.Config, cfg reconcile.Config, logger *zap.Logger) *Feature {
	store := NewStore(db)
	svc := NewService(store, client, archiveCfg, cfg, logger)
	h := NewHandler(svc, logger)
	return &Feature{service: svc, handler: h, db: db}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "branches"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Migrate creates or updates the feature's tables.
func Migrate(db *gorm.DB) error {
	return models.Migrate(db)
}
