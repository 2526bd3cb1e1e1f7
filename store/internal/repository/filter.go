package repository

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/Astemirdum/bookstore-service/store/internal/model"
)

var orderingColumns = map[string]string{
	"price":       "b.price",
	"author_name": "b.author_name",
}

// selectBooks is the aggregate read of books: one row per book with likes, rating and owner name.
func selectBooks() sq.SelectBuilder {
	return qb.Select(
		"b.id",
		"b.name",
		"b.price",
		"b.author_name",
		"b.owner_id",
		"count(r.id) filter (where r.liked) as likes",
		"round(avg(r.rate), 2) as rating",
		"coalesce(u.username, '') as owner_name",
	).
		From(booksTableName + " b").
		LeftJoin(fmt.Sprintf("%s r on r.book_id = b.id", relationsTableName)).
		LeftJoin(fmt.Sprintf("%s u on u.id = b.owner_id", usersTableName)).
		GroupBy("b.id", "u.username")
}

func listBooksQuery(f model.BookFilter) sq.SelectBuilder {
	q := selectBooks()
	if f.Price != nil {
		q = q.Where(sq.Eq{"b.price": *f.Price})
	}
	for _, term := range searchTerms(f.Search) {
		pattern := "%" + escapeLike(term) + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.name": pattern},
			sq.ILike{"b.author_name": pattern},
		})
	}
	q = q.OrderBy(orderBy(f.Ordering)...)
	if f.Page > 0 && f.Size > 0 {
		q = q.Limit(uint64(f.Size)).Offset(uint64((f.Page - 1) * f.Size))
	}
	return q
}

// searchTerms splits on whitespace and commas; every term has to match.
func searchTerms(search string) []string {
	search = strings.ReplaceAll(search, "\x00", "")
	return strings.Fields(strings.ReplaceAll(search, ",", " "))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// orderBy keeps known fields only and always ends with the book id.
func orderBy(fields []string) []string {
	out := make([]string, 0, len(fields)+1)
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		dir := ""
		if strings.HasPrefix(f, "-") {
			f, dir = f[1:], " DESC"
		}
		col, ok := orderingColumns[f]
		if !ok {
			continue
		}
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col+dir)
	}
	return append(out, "b.id")
}
