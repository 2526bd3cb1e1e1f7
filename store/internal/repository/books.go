package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	query, args, err := listBooksQuery(filter).ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books, err := r.collectBooks(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(books))
	for i := range books {
		ids = append(ids, books[i].ID)
	}
	readers, err := r.readers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].Readers = readersOf(readers, books[i].ID)
	}
	return books, nil
}

func (r *repository) GetBook(ctx context.Context, id int64) (model.Book, error) {
	query, args, err := selectBooks().Where(sq.Eq{"b.id": id}).ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var (
		books   []model.Book
		readers map[int64][]model.Reader
	)
	gg, gctx := errgroup.WithContext(ctx)
	gg.Go(func() (err error) {
		books, err = r.collectBooks(gctx, query, args...)
		return err
	})
	gg.Go(func() (err error) {
		readers, err = r.readers(gctx, []int64{id})
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.Book{}, err
	}
	if len(books) == 0 {
		return model.Book{}, errs.ErrNotFound
	}

	book := books[0]
	book.Readers = readersOf(readers, id)
	return book, nil
}

func (r *repository) collectBooks(ctx context.Context, query string, args ...any) ([]model.Book, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("collectBooks", zap.String("q", query), zap.Any("args", args), zap.Error(err))
		return nil, err
	}
	defer rows.Close()
	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return nil, fmt.Errorf("pgx.CollectRows: %w", err)
	}
	return books, nil
}

// readers loads the first/last names of every user related to the given books in one query,
// keeping relation insertion order.
func (r *repository) readers(ctx context.Context, bookIDs []int64) (map[int64][]model.Reader, error) {
	out := make(map[int64][]model.Reader, len(bookIDs))
	if len(bookIDs) == 0 {
		return out, nil
	}
	query, args, err := readersQuery(bookIDs).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			bookID int64
			reader model.Reader
		)
		if err := rows.Scan(&bookID, &reader.FirstName, &reader.LastName); err != nil {
			return nil, err
		}
		out[bookID] = append(out[bookID], reader)
	}
	return out, rows.Err()
}

// readersQuery binds the ids as one array parameter, so long lists stay within the bind limit.
func readersQuery(bookIDs []int64) sq.SelectBuilder {
	return qb.Select("r.book_id", "u.first_name", "u.last_name").
		From(relationsTableName + " r").
		Join(fmt.Sprintf("%s u on u.id = r.user_id", usersTableName)).
		Where("r.book_id = any(?)", bookIDs).
		OrderBy("r.id")
}

func readersOf(readers map[int64][]model.Reader, id int64) []model.Reader {
	if rs, ok := readers[id]; ok {
		return rs
	}
	return []model.Reader{}
}

func (r *repository) CreateBook(ctx context.Context, ownerID int64, book model.BookUpdate) (int64, error) {
	if book.Name == nil || book.Price == nil || book.AuthorName == nil {
		return 0, errors.New("create book: incomplete payload")
	}
	query, args, err := qb.Insert(booksTableName).
		Columns("name", "price", "author_name", "owner_id").
		Values(*book.Name, *book.Price, *book.AuthorName, ownerID).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int64, check OwnerCheck, upd model.BookUpdate) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockBook(ctx, tx, id, check); err != nil {
			return err
		}
		if upd.Empty() {
			return nil
		}
		set := make(map[string]any, 3)
		if upd.Name != nil {
			set["name"] = *upd.Name
		}
		if upd.Price != nil {
			set["price"] = *upd.Price
		}
		if upd.AuthorName != nil {
			set["author_name"] = *upd.AuthorName
		}
		query, args, err := qb.Update(booksTableName).
			SetMap(set).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, query, args...)
		return err
	})
}

func (r *repository) DeleteBook(ctx context.Context, id int64, check OwnerCheck) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockBook(ctx, tx, id, check); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `delete from books where id = $1`, id)
		return err
	})
}

func lockBook(ctx context.Context, tx pgx.Tx, id int64, check OwnerCheck) error {
	var owner *int64
	err := tx.QueryRow(ctx, `select owner_id from books where id = $1 for update`, id).Scan(&owner)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrNotFound
		}
		return err
	}
	if check == nil {
		return nil
	}
	return check(owner)
}
