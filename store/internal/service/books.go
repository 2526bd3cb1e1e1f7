package service

import (
	"context"
	"net/http"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
	"github.com/Astemirdum/bookstore-service/store/internal/permission"
	storeRepo "github.com/Astemirdum/bookstore-service/store/internal/repository"
)

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) GetBook(ctx context.Context, id int64) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

// CreateBook stores a book owned by the requester. req must carry every field.
func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	requester := auth.FromContext(ctx)
	if !requester.IsAuthenticated() {
		return model.Book{}, errs.ErrUnauthenticated
	}
	upd, err := bookUpdate(req)
	if err != nil {
		return model.Book{}, err
	}
	if upd.Name == nil || upd.Price == nil || upd.AuthorName == nil {
		return model.Book{}, missingFields(upd)
	}
	id, err := s.repo.CreateBook(ctx, requester.ID, upd)
	if err != nil {
		return model.Book{}, err
	}
	s.publish(ctx, EventBookCreated, id, requester.ID)
	return s.repo.GetBook(ctx, id)
}

// CheckBookWrite reports whether the requester may change the book: ErrNotFound first,
// then the permission errors. Writes repeat the check under the row lock.
func (s *Service) CheckBookWrite(ctx context.Context, id int64) error {
	book, err := s.repo.GetBook(ctx, id)
	if err != nil {
		return err
	}
	return ownerCheck(http.MethodPut, auth.FromContext(ctx))(book.OwnerID)
}

// UpdateBook replaces (partial=false) or patches the book when the requester may write it.
func (s *Service) UpdateBook(ctx context.Context, id int64, req model.BookRequest, partial bool) (model.Book, error) {
	requester := auth.FromContext(ctx)
	upd, err := bookUpdate(req)
	if err != nil {
		return model.Book{}, err
	}
	method := http.MethodPatch
	if !partial {
		method = http.MethodPut
		if upd.Name == nil || upd.Price == nil || upd.AuthorName == nil {
			return model.Book{}, missingFields(upd)
		}
	}
	if err := s.repo.UpdateBook(ctx, id, ownerCheck(method, requester), upd); err != nil {
		return model.Book{}, err
	}
	s.publish(ctx, EventBookUpdated, id, requester.ID)
	return s.repo.GetBook(ctx, id)
}

func (s *Service) DeleteBook(ctx context.Context, id int64) error {
	requester := auth.FromContext(ctx)
	if err := s.repo.DeleteBook(ctx, id, ownerCheck(http.MethodDelete, requester)); err != nil {
		return err
	}
	s.publish(ctx, EventBookDeleted, id, requester.ID)
	return nil
}

func ownerCheck(method string, requester auth.User) storeRepo.OwnerCheck {
	return func(owner *int64) error {
		if permission.CanWrite(method, requester, owner) {
			return nil
		}
		if !requester.IsAuthenticated() {
			return errs.ErrUnauthenticated
		}
		return errs.ErrForbidden
	}
}

func bookUpdate(req model.BookRequest) (model.BookUpdate, error) {
	upd := model.BookUpdate{
		Name:       req.Name,
		AuthorName: req.AuthorName,
	}
	if req.Price != nil {
		price, err := req.Price.Decimal()
		if err != nil {
			return model.BookUpdate{}, errs.NewValidationError("price", err.Error())
		}
		upd.Price = &price
	}
	return upd, nil
}

func missingFields(upd model.BookUpdate) errs.ValidationError {
	const msg = "This field is required."
	verr := errs.ValidationError{}
	if upd.Name == nil {
		verr.Add("name", msg)
	}
	if upd.Price == nil {
		verr.Add("price", msg)
	}
	if upd.AuthorName == nil {
		verr.Add("author_name", msg)
	}
	return verr
}
