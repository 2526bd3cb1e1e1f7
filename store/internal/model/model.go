package model

import (
	"bytes"
	"encoding/json"
)

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	FirstName    string `json:"first_name" db:"first_name"`
	LastName     string `json:"last_name" db:"last_name"`
	IsStaff      bool   `json:"is_staff" db:"is_staff"`
}

// Book is a catalog entry together with its aggregates.
type Book struct {
	ID         int64    `json:"id" db:"id"`
	Name       string   `json:"name" db:"name"`
	Price      Decimal  `json:"price" db:"price"`
	AuthorName string   `json:"author_name" db:"author_name"`
	Likes      int      `json:"likes" db:"likes"`
	Rating     *Decimal `json:"rating" db:"rating"`
	OwnerName  string   `json:"owner_name" db:"owner_name"`
	Readers    []Reader `json:"readers" db:"-"`
	OwnerID    *int64   `json:"-" db:"owner_id"`
}

type Reader struct {
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
}

type UserBookRelation struct {
	ID          int64 `json:"-" db:"id"`
	UserID      int64 `json:"-" db:"user_id"`
	BookID      int64 `json:"book" db:"book_id"`
	Like        bool  `json:"like" db:"liked"`
	InBookmarks bool  `json:"in_bookmarks" db:"in_bookmarks"`
	Rate        *int  `json:"rate" db:"rate"`
}

// BookRequest is the write payload of a book. Nil fields were absent from the request
// or sent as null; Nulls lists the json names of the latter.
type BookRequest struct {
	Name       *string       `json:"name" validate:"required,notblank,max=255"`
	Price      *DecimalInput `json:"price" validate:"required,price"`
	AuthorName *string       `json:"author_name" validate:"required,notblank,max=255"`
	Nulls      []string      `json:"-"`
}

func (r *BookRequest) UnmarshalJSON(b []byte) error {
	type plain BookRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	nulls, err := nullKeys(b, "name", "price", "author_name")
	if err != nil {
		return err
	}
	p.Nulls = nulls
	*r = BookRequest(p)
	return nil
}

// Present returns the Go names of the supplied fields.
func (r BookRequest) Present() []string {
	fields := make([]string, 0, 3)
	if r.Name != nil {
		fields = append(fields, "Name")
	}
	if r.Price != nil {
		fields = append(fields, "Price")
	}
	if r.AuthorName != nil {
		fields = append(fields, "AuthorName")
	}
	return fields
}

// BookUpdate is a validated write; nil fields are left untouched.
type BookUpdate struct {
	Name       *string
	Price      *Decimal
	AuthorName *string
}

func (u BookUpdate) Empty() bool {
	return u.Name == nil && u.Price == nil && u.AuthorName == nil
}

// RelationRequest is a partial update of the requester's relation to a book.
type RelationRequest struct {
	Like        *bool `json:"like"`
	InBookmarks *bool `json:"in_bookmarks"`
	Rate        *int  `json:"rate" validate:"omitempty,rating"`
	// RateSet distinguishes "rate": null (clear) from an absent key.
	RateSet bool `json:"-"`
}

func (r *RelationRequest) UnmarshalJSON(b []byte) error {
	type plain RelationRequest
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(b, &keys); err != nil {
		return err
	}
	raw, ok := keys["rate"]
	p.RateSet = ok && (p.Rate != nil || bytes.Equal(bytes.TrimSpace(raw), []byte("null")))
	*r = RelationRequest(p)
	return nil
}

// nullKeys returns which of keys are present in the JSON object b with an explicit null.
func nullKeys(b []byte, keys ...string) ([]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if v, ok := raw[k]; ok && bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r RelationRequest) Empty() bool {
	return r.Like == nil && r.InBookmarks == nil && !r.RateSet
}

type BookFilter struct {
	Price    *Decimal
	Search   string
	Ordering []string
	Page     int
	Size     int
}

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,notblank,max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}
