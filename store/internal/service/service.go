package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	storeRepo "github.com/Astemirdum/bookstore-service/store/internal/repository"
)

type TokenIssuer interface {
	Issue(u auth.User) (string, time.Time, error)
}

type Service struct {
	log       *zap.Logger
	repo      storeRepo.Repository
	tokens    TokenIssuer
	publisher Publisher
}

func NewService(repo storeRepo.Repository, tokens TokenIssuer, publisher Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		log:       log.Named("service"),
		repo:      repo,
		tokens:    tokens,
		publisher: publisher,
	}
}
