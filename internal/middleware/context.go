package middleware

import (
	"context"

	"bizdesk/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	ctxIdentityKey     = "identity"
	ctxSessionTokenKey = "sessionToken"
)

type identityCtxKey struct{}
type sessionTokenCtxKey struct{}

// WithIdentity stores the resolved identity on both the gin context and the
// request context, so services reached outside gin handlers can see it too.
func WithIdentity(c *gin.Context, identity model.Identity) {
	c.Set(ctxIdentityKey, identity)
	ctx := context.WithValue(c.Request.Context(), identityCtxKey{}, identity)
	c.Request = c.Request.WithContext(ctx)
}

// IdentityFrom returns the identity set by RequireAuth, if any.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(ctxIdentityKey)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}

// WithSessionToken records the session key (the JWT jti) for this request.
func WithSessionToken(c *gin.Context, token string) {
	c.Set(ctxSessionTokenKey, token)
	ctx := context.WithValue(c.Request.Context(), sessionTokenCtxKey{}, token)
	c.Request = c.Request.WithContext(ctx)
}

// SessionToken extracts the session key from a plain context. The store
// client's unauthorized hook uses this to revoke the right session.
func SessionToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(sessionTokenCtxKey{}).(string)
	return token, ok && token != ""
}
