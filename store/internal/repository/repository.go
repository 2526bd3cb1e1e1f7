package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=repository.go -destination=mocks/mock.go

// OwnerCheck is called with the locked book's owner before a write; a non-nil error aborts it.
type OwnerCheck func(owner *int64) error

type Repository interface {
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int64) (model.Book, error)
	CreateBook(ctx context.Context, ownerID int64, book model.BookUpdate) (int64, error)
	UpdateBook(ctx context.Context, id int64, check OwnerCheck, upd model.BookUpdate) error
	DeleteBook(ctx context.Context, id int64, check OwnerCheck) error

	UpsertRelation(ctx context.Context, userID, bookID int64, req model.RelationRequest) (model.UserBookRelation, error)

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName     = `users`
	booksTableName     = `books`
	relationsTableName = `user_book_relations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	txMaxAttempts = 3
	txBaseDelay   = 20 * time.Millisecond
)

// withTx runs fn in a transaction, retrying serialization failures and deadlocks.
func (r *repository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt < txMaxAttempts; attempt++ {
		if attempt > 0 {
			delay := txBaseDelay * time.Duration(1<<(attempt-1))
			r.log.Debug("retry tx", zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, fn)
		if !isRetryable(err) {
			return err
		}
	}
	return err
}

func isRetryable(err error) bool {
	return hasCode(err, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected)
}

func hasCode(err error, codes ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	for _, code := range codes {
		if pgErr.Code == code {
			return true
		}
	}
	return false
}
