package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storefront/merchant-admin/internal/api/handler/v1/response"
	"github.com/storefront/merchant-admin/internal/domain"
)

const sessionKey = "session"

var errMissingSession = errors.New("no live session")

type SessionReader interface {
	Read(ctx *gin.Context) domain.Session
}

type SessionLoader struct {
	store SessionReader
	now   func() time.Time
}

func NewSessionLoader(store SessionReader) *SessionLoader {
	return &SessionLoader{
		store: store,
		now:   time.Now,
	}
}

// Load reads the session cookie once per request and stores it in the
// gin context. It never rejects a request; the services decide.
func (l *SessionLoader) Load() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set(sessionKey, l.store.Read(ctx))
		ctx.Next()
	}
}

// RequirePage redirects page requests without a live session to the login
// page.
func (l *SessionLoader) RequirePage(loginPath string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !SessionFrom(ctx).Valid(l.now()) {
			ctx.Redirect(http.StatusFound, loginPath)
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// RequireSession answers 401 before the handler reads the request when the
// session is missing or expired. Public routes pass through.
func (l *SessionLoader) RequireSession(public bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !public && !SessionFrom(ctx).Valid(l.now()) {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingSession))
			return
		}
		ctx.Next()
	}
}

// SessionFrom returns the session loaded for this request, or the zero
// Session.
func SessionFrom(ctx *gin.Context) domain.Session {
	v, ok := ctx.Get(sessionKey)
	if !ok {
		return domain.Session{}
	}
	sess, _ := v.(domain.Session)

	return sess
}
