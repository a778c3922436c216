package handlers

import (
	"context"
	"net/http"
	"strconv"

	"communityAPI/internal/service"

	"github.com/gorilla/mux"
)

type identityKey struct{}

// WithUser stores the authenticated caller in ctx.
func WithUser(ctx context.Context, identity service.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func CurrentUser(ctx context.Context) (service.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(service.Identity)
	return identity, ok
}

func requireUser(w http.ResponseWriter, r *http.Request) (service.Identity, bool) {
	identity, ok := CurrentUser(r.Context())
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return service.Identity{}, false
	}
	return identity, true
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (service.Identity, bool) {
	identity, ok := requireUser(w, r)
	if !ok {
		return identity, false
	}
	if !identity.IsAdmin() {
		WriteError(w, "Доступ запрещен", http.StatusForbidden)
		return identity, false
	}
	return identity, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		WriteError(w, "Неверный ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
