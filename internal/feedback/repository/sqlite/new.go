package sqlite

import (
	"database/sql"

	"timely-scheduler/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New creates the sqlite-backed invite repository.
func New(db *sql.DB, l log.Logger) *implRepository {
	return &implRepository{db: db, l: l}
}

func (r *implRepository) dsn(op string) string {
	return "feedback.repository.sqlite." + op
}
