package middleware

import (
	"errors"
	"net/http"

	"github.com/corebank/ledger/pkg/web"
	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeaderKey carries the authenticated user id set by the upstream
	// gateway. Authentication itself terminates before this service.
	UserIDHeaderKey = "X-User-ID"
	// UserIDKey is the gin context key the user id is stored under.
	UserIDKey = "request_user_id"
)

// RequireUser rejects requests that arrive without an authenticated user id
// and makes the id available to handlers via the gin context.
func RequireUser() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetHeader(UserIDHeaderKey)
		if userID == "" {
			err := errors.New("user id header is not provided")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Error(err))

			return
		}

		ctx.Set(UserIDKey, userID)
		ctx.Next()
	}
}

// UserID returns the request scoped user id set by RequireUser.
func UserID(ctx *gin.Context) string {
	return ctx.MustGet(UserIDKey).(string)
}

// SetUserID sets the user id header on an outgoing request. Used by tests
// and internal clients.
func SetUserID(r *http.Request, userID string) {
	r.Header.Set(UserIDHeaderKey, userID)
}
