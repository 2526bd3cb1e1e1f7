// Package permission decides whether a requester may act on a single book.
package permission

import (
	"net/http"

	"github.com/Astemirdum/bookstore-service/pkg/auth"
)

func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CanWrite reports whether requester may perform method on an object owned by owner.
// Safe methods are always allowed; anything else needs an authenticated owner or staff member.
func CanWrite(method string, requester auth.User, owner *int64) bool {
	if IsSafeMethod(method) {
		return true
	}
	if !requester.IsAuthenticated() {
		return false
	}
	if requester.IsStaff {
		return true
	}
	return owner != nil && *owner == requester.ID
}
