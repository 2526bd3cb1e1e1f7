package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"

	"github.com/Astemirdum/bookstore-service/store/internal/errs"
	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

var relationColumns = []string{"id", "user_id", "book_id", "liked", "in_bookmarks", "rate"}

// UpsertRelation creates the (user, book) row on first use and applies the supplied fields.
// Concurrent first writes converge on one row through the unique (user_id, book_id) constraint.
func (r *repository) UpsertRelation(ctx context.Context, userID, bookID int64, req model.RelationRequest) (model.UserBookRelation, error) {
	var rel model.UserBookRelation
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		insert, args, err := qb.Insert(relationsTableName).
			Columns("user_id", "book_id").
			Values(userID, bookID).
			Suffix("on conflict (user_id, book_id) do nothing").
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insert, args...); err != nil {
			if hasCode(err, pgerrcode.ForeignKeyViolation) {
				return errs.ErrNotFound
			}
			return err
		}

		var query string
		if req.Empty() {
			query, args, err = qb.Select(relationColumns...).
				From(relationsTableName).
				Where(sq.Eq{"user_id": userID, "book_id": bookID}).
				ToSql()
		} else {
			query, args, err = qb.Update(relationsTableName).
				SetMap(relationSet(req)).
				Where(sq.Eq{"user_id": userID, "book_id": bookID}).
				Suffix(fmt.Sprintf("returning %s", strings.Join(relationColumns, ", "))).
				ToSql()
		}
		if err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		rel, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.UserBookRelation])
		return err
	})
	if err != nil {
		return model.UserBookRelation{}, err
	}
	return rel, nil
}

func relationSet(req model.RelationRequest) map[string]any {
	set := make(map[string]any, 3)
	if req.Like != nil {
		set["liked"] = *req.Like
	}
	if req.InBookmarks != nil {
		set["in_bookmarks"] = *req.InBookmarks
	}
	if req.RateSet {
		set["rate"] = req.Rate
	}
	return set
}
