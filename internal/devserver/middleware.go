package devserver

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/cbtcompanion/internal/common"
	"github.com/dmitrijs2005/cbtcompanion/internal/devserver/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// requireUser rejects requests without a valid bearer token with 401.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := common.ParseBearer(r.Header.Get(common.AuthorizationHeaderName))
		if !ok {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		id, err := auth.GetUserIDFromToken(token, []byte(s.cfg.SecretKey))
		if err != nil {
			s.log.Debug(r.Context(), "token rejected", "token", common.MaskToken(token), "error", err)
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		if _, err := s.store.UserByID(id); err != nil {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, id)))
	})
}
