package repository

import "errors"

var (
	ErrFailedToInsert = errors.New("failed to insert invite")
	ErrFailedToGet    = errors.New("failed to get invite")
	ErrFailedToList   = errors.New("failed to list invites")
	ErrFailedToUpdate = errors.New("failed to update invite")
	ErrDuplicate      = errors.New("invite already tracked")
)
