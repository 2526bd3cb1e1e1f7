package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

var userColumns = []string{"id", "username", "password_hash", "first_name", "last_name", "is_staff"}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	q := `
insert into users (username, password_hash, first_name, last_name, is_staff)
values (@username, @password_hash, @first_name, @last_name, @is_staff)
returning id, username, password_hash, first_name, last_name, is_staff`
	args := pgx.NamedArgs{
		"username":      user.Username,
		"password_hash": user.PasswordHash,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"is_staff":      user.IsStaff,
	}
	created, err := func() (model.User, error) {
		rows, err := r.db.Query(ctx, q, args)
		if err != nil {
			return model.User{}, err
		}
		return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	}()
	if err != nil {
		if hasCode(err, pgerrcode.UniqueViolation) {
			return model.User{}, errs.ErrUserExists
		}
		return model.User{}, err
	}
	return created, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": id})
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"username": username})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.User{}, err
	}
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
