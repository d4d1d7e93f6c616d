package sqlite

import (
	"database/sql"
	"time"

	"timely-scheduler/pkg/category"
	"timely-scheduler/pkg/log"
)

type implRepository struct {
	db      *sql.DB
	catalog *category.Catalog
	l       log.Logger
	now     func() time.Time
}

// New creates the sqlite-backed task and placement repository. A nil catalog
// uses the embedded default.
func New(db *sql.DB, catalog *category.Catalog, l log.Logger) *implRepository {
	if catalog == nil {
		catalog = category.Default()
	}
	return &implRepository{db: db, catalog: catalog, l: l, now: time.Now}
}

func (r *implRepository) dsn(op string) string {
	return "schedule.repository.sqlite." + op
}
