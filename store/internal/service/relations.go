package service

import (
	"context"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

// UpdateRelation applies req to the requester's relation with the book, creating it on first use.
func (s *Service) UpdateRelation(ctx context.Context, bookID int64, req model.RelationRequest) (model.UserBookRelation, error) {
	requester := auth.FromContext(ctx)
	if !requester.IsAuthenticated() {
		return model.UserBookRelation{}, errs.ErrUnauthenticated
	}
	if req.Rate != nil && (*req.Rate < 1 || *req.Rate > 5) {
		return model.UserBookRelation{}, errs.NewValidationError("rate", errs.InvalidChoice(*req.Rate))
	}
	rel, err := s.repo.UpsertRelation(ctx, requester.ID, bookID, req)
	if err != nil {
		return model.UserBookRelation{}, err
	}
	s.publish(ctx, EventRelationUpdated, bookID, requester.ID)
	return rel, nil
}
