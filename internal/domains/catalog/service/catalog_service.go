package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"leafside-client/internal/domains/catalog/model"
	"leafside-client/pkg/apiclient"
)

type CatalogService struct {
	api *apiclient.Client
}

func NewCatalogService(api *apiclient.Client) ServiceInterface {
	return &CatalogService{api: api}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := s.api.Get(ctx, "/api/books", &books); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	path := "/api/books/" + url.PathEscape(id)
	if err := s.api.Get(ctx, path, &book); err != nil {
		if apiclient.IsStatus(err, http.StatusNotFound) {
			return nil, fmt.Errorf("book %s: %w", id, model.ErrBookNotFound)
		}
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return &book, nil
}
