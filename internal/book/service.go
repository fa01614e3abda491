// AngelaMos | 2026
// service.go

package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/carterperez-dev/boi-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(
	ctx context.Context,
	params ListBooksParams,
) ([]Book, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id int64) (*Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateBookRequest) (*Book, error) {
	if req.Price == nil {
		return nil, fmt.Errorf("create book: price required: %w", core.ErrInvalidInput)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("create book: negative price: %w", core.ErrInvalidInput)
	}

	book := &Book{
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Category:      strings.TrimSpace(req.Category),
		Description:   req.Description,
		Price:         req.Price.Round(2),
		CoverImage:    req.CoverImage,
		PublishYear:   req.PublishYear,
		Pages:         req.Pages,
		Language:      req.Language,
		Publisher:     req.Publisher,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsBestseller:  req.IsBestseller,
	}
	if book.Language == "" {
		book.Language = DefaultLanguage
	}
	if req.ISBN != nil {
		book.ISBN = nullable(*req.ISBN)
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

func (s *Service) Update(
	ctx context.Context,
	id int64,
	req UpdateBookRequest,
) (*Book, error) {
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("update book: negative price: %w", core.ErrInvalidInput)
		}
		rounded := req.Price.Round(2)
		req.Price = &rounded
	}
	if req.Rating != nil && (req.Rating.IsNegative() || req.Rating.GreaterThan(maxRating)) {
		return nil, fmt.Errorf("update book: rating out of range: %w", core.ErrInvalidInput)
	}

	return s.repo.Update(ctx, id, req)
}

func (s *Service) Delete(ctx context.Context, id int64) (string, error) {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	return s.repo.Categories(ctx)
}
