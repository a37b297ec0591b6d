package form

import (
	"context"
	"fmt"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/database"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

// NewFormStore picks the form store named by FORM_STORE.
func NewFormStore(lc fx.Lifecycle, cfg *config.Config, mongodb *database.MongodbDB, logger *zap.Logger) (FormRepository, error) {
	switch cfg.FormStore {
	case "", StoreMongo:
		logger.Info("Reading forms from MongoDB", zap.String("db", cfg.DBName))
		return NewFormRepository(mongodb), nil

	case StorePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		repo, err := NewPostgresFormRepository(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				logger.Info("Closing Postgres form store")
				return repo.Close()
			},
		})
		logger.Info("Reading forms from Postgres")
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown form store %q", cfg.FormStore)
	}
}
