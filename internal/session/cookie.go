package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/storefront/merchant-admin/internal/config"
	"github.com/storefront/merchant-admin/internal/domain"
)

// CookieStore keeps the backend bearer token in a single cookie. The cookie
// is deliberately readable from browser scripts.
type CookieStore struct {
	name   string
	secure bool
	maxAge time.Duration
}

func NewCookieStore(conf config.SessionConfig) *CookieStore {
	return &CookieStore{
		name:   conf.CookieName,
		secure: conf.Secure,
		maxAge: conf.MaxAge,
	}
}

// Read returns the session carried by the request. The zero Session is
// returned when the cookie is absent.
func (s *CookieStore) Read(ctx *gin.Context) domain.Session {
	token, err := ctx.Cookie(s.name)
	if err != nil || token == "" {
		return domain.Session{}
	}

	return domain.Session{
		Token:     token,
		ExpiresAt: expiryHint(token),
	}
}

func (s *CookieStore) Write(ctx *gin.Context, sess domain.Session) {
	maxAge := int(s.maxAge.Seconds())
	if sess.ExpiresAt.IsZero() {
		sess.ExpiresAt = expiryHint(sess.Token)
	}
	if !sess.ExpiresAt.IsZero() {
		if remaining := int(time.Until(sess.ExpiresAt).Seconds()); remaining < maxAge || maxAge == 0 {
			maxAge = remaining
		}
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(s.name, sess.Token, maxAge, "/", "", s.secure, false)
}

func (s *CookieStore) Clear(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(s.name, "", -1, "/", "", s.secure, false)
}

// expiryHint reads the exp claim of a JWT without verifying the signature.
// Only the backend can verify the token; the hint just avoids forwarding
// a token that is certainly expired. Opaque tokens yield the zero time.
func expiryHint(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}

	return exp.Time
}
