package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

func (s *Service) RegisterUser(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	user, err := s.repo.CreateUser(ctx, model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	})
	if err != nil {
		if errors.Is(err, errs.ErrUserExists) {
			return model.User{}, errs.NewValidationError("username", errs.ErrUserExists.Error())
		}
		return model.User{}, err
	}
	s.log.Info("user registered", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *Service) Authorize(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error) {
	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.AuthResponse{}, errs.ErrInvalidCredentials
		}
		return model.AuthResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResponse{}, errs.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(auth.User{ID: user.ID, Username: user.Username, IsStaff: user.IsStaff})
	if err != nil {
		return model.AuthResponse{}, err
	}
	return model.AuthResponse{
		AccessToken: token,
		ExpiresIn:   int(time.Until(expiresAt).Seconds()),
	}, nil
}

// Me returns the profile of the authenticated requester.
func (s *Service) Me(ctx context.Context) (model.User, error) {
	requester := auth.FromContext(ctx)
	if !requester.IsAuthenticated() {
		return model.User{}, errs.ErrUnauthenticated
	}
	return s.repo.GetUser(ctx, requester.ID)
}
