package auth

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// TokenCookie is the cookie carrying an anonymous list token.
const TokenCookie = "list_token"

// userIDHeader is set by the upstream gateway after authentication.
const userIDHeader = "X-User-ID"

// Identity is the authenticated-or-anonymous actor behind a request:
// a registered user id, an anonymous list token, or neither.
type Identity struct {
	UserID uint
	Token  string
}

// Authenticated reports whether the actor is a registered user.
func (id Identity) Authenticated() bool {
	return id.UserID != 0
}

// Anonymous reports whether the actor only holds an anonymous list token.
func (id Identity) Anonymous() bool {
	return !id.Authenticated() && id.Token != ""
}

type ctxKey struct{}

// Middleware extracts the actor identity from the request and stores it in
// the context. Authentication itself happens upstream; this layer only
// trusts what the gateway forwarded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id Identity
		if raw := r.Header.Get(userIDHeader); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 32); err == nil {
				id.UserID = uint(v)
			}
		}
		if c, err := r.Cookie(TokenCookie); err == nil {
			id.Token = c.Value
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}

// NewContext returns a context carrying the identity.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in the context, or the zero
// identity when none is present.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

// NewToken mints an opaque token anchoring a new anonymous list.
func NewToken() string {
	return uuid.NewString()
}
