package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskdesk.com/taskdesk/internal/constants"
)

const (
	HeaderTenantID = "X-Tenant-Id"
	HeaderRole     = "X-Role"

	ContextTenantID = "tenant_id"
	ContextRole     = "role"
)

// RequireIdentity extracts the tenant and role headers every task route
// depends on. Role is checked against the known roles here; finer-grained
// authorization stays in the aggregate.
func RequireIdentity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID := c.Request().Header.Get(HeaderTenantID)
			if tenantID == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing required header: X-Tenant-Id")
			}

			role := constants.Role(c.Request().Header.Get(HeaderRole))
			if !constants.ValidRole(role) {
				return echo.NewHTTPError(http.StatusBadRequest, `missing or invalid header: X-Role (must be "agent" or "manager")`)
			}

			c.Set(ContextTenantID, tenantID)
			c.Set(ContextRole, role)

			return next(c)
		}
	}
}
