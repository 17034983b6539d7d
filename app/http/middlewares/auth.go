package middlewares

import (
	"github.com/gin-gonic/gin"

	"sekolah/pkg/response"
)

// Context keys populated by the upstream authentication layer.
// Token issuance and verification live outside this service; by the
// time a request reaches these routes the identity middleware in
// front of the API has resolved the caller.
const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

// RoleAdmin marks back-office callers
const RoleAdmin = "admin"

// RequireUser rejects requests without a resolved identity. Payments
// are owner-scoped, so an anonymous caller has nothing to see.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			response.Abort401(c, "authentication required")
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests not made by back-office staff.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserID) == "" {
			response.Abort401(c, "authentication required")
			return
		}
		if c.GetString(ContextUserRole) != RoleAdmin {
			response.Abort403(c, "admin access required")
			return
		}
		c.Next()
	}
}
