package repository

import "errors"

var (
	ErrFailedToInsert  = errors.New("failed to insert record")
	ErrFailedToList    = errors.New("failed to list records")
	ErrFailedToUpdate  = errors.New("failed to update record")
	ErrFailedToPublish = errors.New("failed to publish event")
	ErrNotFound        = errors.New("record not found")
)
