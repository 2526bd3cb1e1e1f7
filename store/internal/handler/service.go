package handler

import (
	"context"

	"github.com/Astemirdum/bookstore-service/store/internal/model"
	"github.com/Astemirdum/bookstore-service/store/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type StoreService interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	CheckBookWrite(ctx context.Context, id int64) error
	UpdateBook(ctx context.Context, id int64, req model.BookRequest, partial bool) (model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	UpdateRelation(ctx context.Context, bookID int64, req model.RelationRequest) (model.UserBookRelation, error)
	RegisterUser(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Authorize(ctx context.Context, req model.AuthRequest) (model.AuthResponse, error)
	Me(ctx context.Context) (model.User, error)
}

var _ StoreService = (*service.Service)(nil)
