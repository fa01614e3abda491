// AngelaMos | 2026
// service.go

package userbook

import (
	"context"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, userID int64) ([]Owned, error) {
	return s.repo.List(ctx, userID)
}

func (s *Service) Check(ctx context.Context, userID, bookID int64) (*Ownership, error) {
	return s.repo.Find(ctx, userID, bookID)
}

func (s *Service) Categories(ctx context.Context, userID int64) ([]Category, error) {
	categories, err := s.repo.Categories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []Category{}
	}
	return categories, nil
}

func (s *Service) Stats(ctx context.Context, userID int64) (*Stats, error) {
	return s.repo.Stats(ctx, userID)
}
