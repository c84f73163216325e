package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/healx-backend/internal/http/response"
	"github.com/yungbote/healx-backend/internal/platform/authz"
	"github.com/yungbote/healx-backend/internal/platform/ctxutil"
	"github.com/yungbote/healx-backend/internal/platform/logger"
)

// Authz gates a route on the caller's role. It must run after RequireAuth.
type Authz struct {
	log        *logger.Logger
	authorizer *authz.Authorizer
}

func NewAuthz(log *logger.Logger, authorizer *authz.Authorizer) *Authz {
	return &Authz{log: log.With("Middleware", "Authz"), authorizer: authorizer}
}

func (a *Authz) Require(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a == nil || a.authorizer == nil {
			c.Next()
			return
		}
		role := ""
		if id := ctxutil.GetIdentity(c.Request.Context()); id != nil {
			role = id.Role
		}
		subject := authz.SubjectFromRole(role)
		allowed, enforced, err := a.authorizer.Authorize(subject, object, action)
		if err != nil {
			a.log.Error("authz evaluation failed", "subject", subject, "object", object, "error", err)
			if enforced {
				response.AbortError(c, http.StatusInternalServerError, "internal", "internal error")
				return
			}
		}
		if !allowed {
			if enforced {
				response.AbortError(c, http.StatusForbidden, "forbidden", "forbidden")
				return
			}
			a.log.Warn("authz shadow deny", "subject", subject, "object", object, "action", action)
		}
		c.Next()
	}
}
