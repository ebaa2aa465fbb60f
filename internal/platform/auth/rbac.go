package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user holds one of the
// given roles. Admin passes every check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role == "admin" {
				return next(c)
			}
			for _, required := range roles {
				if role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// OwnsPatient reports whether the authenticated identity may read records
// belonging to the given patient. Patients match on the patient record id
// carried in their token; any other role has already passed RequireRole.
func OwnsPatient(ctx context.Context, patientID string) bool {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return false
	}
	if claims.Role != "patient" {
		return true
	}
	return claims.PatientID == patientID
}
