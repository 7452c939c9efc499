package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/database"
)

// TenantScope resolves the {oid} path parameter, opens a row-level-security
// scoped connection for that organisation and attaches it to the request
// context. The scope is released when the handler returns.
func TenantScope(db *database.DB, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			orgID, err := uuid.Parse(r.PathValue("oid"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid organisation id"}`))
				return
			}

			scope, err := db.WithTenant(r.Context(), orgID)
			if err != nil {
				logger.Error("Failed to acquire tenant scope",
					zap.String("organisation_id", orgID.String()),
					zap.Error(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}`))
				return
			}
			defer scope.Close()

			ctx := database.SetTenantScope(r.Context(), scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
