package allocator

import (
	"errors"

	"timely-scheduler/pkg/category"
	"timely-scheduler/pkg/log"
)

type implUseCase struct {
	cfg     Config
	rec     Recommender
	catalog *category.Catalog
	l       log.Logger
}

// New creates an Allocator. A nil catalog uses the embedded default.
func New(cfg Config, rec Recommender, catalog *category.Catalog, l log.Logger) (*implUseCase, error) {
	if rec == nil {
		return nil, errors.New("allocator: recommender is required")
	}
	if l == nil {
		return nil, errors.New("allocator: logger is required")
	}
	def := DefaultConfig()
	if cfg.MaxTasksPerPass <= 0 {
		cfg.MaxTasksPerPass = def.MaxTasksPerPass
	}
	if cfg.TopK <= 0 {
		cfg.TopK = def.TopK
	}
	if cfg.MinChunkHours <= 0 {
		cfg.MinChunkHours = def.MinChunkHours
	}
	if catalog == nil {
		catalog = category.Default()
	}
	return &implUseCase{cfg: cfg, rec: rec, catalog: catalog, l: l}, nil
}
