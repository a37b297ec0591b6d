package form

import (
	"testing"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewFormStoreRejectsUnknownStore(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	_, err := NewFormStore(lc, &config.Config{FormStore: "cassandra"}, nil, zap.NewNop())
	assert.ErrorContains(t, err, `unknown form store "cassandra"`)
}

func TestNewFormStorePostgresUnreachable(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	_, err := NewFormStore(lc, &config.Config{
		FormStore:   StorePostgres,
		PostgresDSN: "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
	}, nil, zap.NewNop())
	assert.Error(t, err)
}
