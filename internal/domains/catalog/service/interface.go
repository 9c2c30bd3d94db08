package service

import (
	"context"

	"leafside-client/internal/domains/catalog/model"
)

type ServiceInterface interface {
	// ListBooks returns the full catalog.
	ListBooks(ctx context.Context) ([]model.Book, error)

	// GetBook returns a single book by id.
	// Returns model.ErrBookNotFound when the API answers 404.
	GetBook(ctx context.Context, id string) (*model.Book, error)
}
