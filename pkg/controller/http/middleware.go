package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/crmdesk/agenda/pkg/domain/types"
	"github.com/crmdesk/agenda/pkg/utils/logging"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type subjectKey struct{}

func contextWithSubject(ctx context.Context, id types.UserID) context.Context {
	return context.WithValue(ctx, subjectKey{}, id)
}

// subjectFromContext returns the verified token subject, empty when
// authentication is disabled
func subjectFromContext(ctx context.Context) types.UserID {
	if id, ok := ctx.Value(subjectKey{}).(types.UserID); ok {
		return id
	}
	return ""
}

// bearerAuth verifies an HS256 signed JWT in the Authorization header
func bearerAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				writeError(w, r, http.StatusUnauthorized, "authentication required")
				return
			}

			token, err := jwt.ParseString(raw, jwt.WithKey(jwa.HS256, secret), jwt.WithValidate(true))
			if err != nil {
				logging.From(r.Context()).Warn("rejected bearer token", "error", err.Error())
				writeError(w, r, http.StatusUnauthorized, "invalid authentication token")
				return
			}

			ctx := contextWithSubject(r.Context(), types.UserID(token.Subject()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
