package storage

import (
	catalogapp "github.com/foodcourt/pos/internal/application/catalog"
	"github.com/foodcourt/pos/internal/infrastructure/config"
	"go.uber.org/zap"
)

// LocalURLPrefix is where the HTTP server serves locally stored images
const LocalURLPrefix = "/uploads"

// NewImageStorage returns S3 storage when a bucket is configured and local
// disk storage otherwise
func NewImageStorage(cfg config.StorageConfig, logger *zap.Logger) (catalogapp.ImageStorage, error) {
	if cfg.UsesS3() {
		logger.Info("Using S3 image storage", zap.String("bucket", cfg.Bucket))
		return NewS3ImageStorage(cfg, WithLogger(logger))
	}
	logger.Info("Using local image storage", zap.String("dir", cfg.LocalDir))
	return NewLocalImageStorage(cfg.LocalDir, LocalURLPrefix)
}
