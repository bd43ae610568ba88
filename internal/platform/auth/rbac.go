package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Role is a session role. Admin subsumes user.
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Action names a guarded operation.
type Action string

const (
	ActionViewInventory   Action = "inventory.view"
	ActionAddMedicine     Action = "medicine.add"
	ActionEditMedicine    Action = "medicine.edit"
	ActionDeleteMedicine  Action = "medicine.delete"
	ActionImportBatch     Action = "medicine.import"
	ActionExportData      Action = "data.export"
	ActionViewAuditLog    Action = "auditlog.view"
	ActionViewAnalytics   Action = "analytics.view"
	ActionSyncRemote      Action = "sync.remote"
	ActionManageUsers     Action = "users.manage"
)

// capabilities is the single capability table. Mutations and administrative
// actions require admin; read paths are open to any authenticated role.
var capabilities = map[Action]Role{
	ActionViewInventory:  RoleUser,
	ActionAddMedicine:    RoleAdmin,
	ActionEditMedicine:   RoleAdmin,
	ActionDeleteMedicine: RoleAdmin,
	ActionImportBatch:    RoleAdmin,
	ActionExportData:     RoleUser,
	ActionViewAuditLog:   RoleUser,
	ActionViewAnalytics:  RoleUser,
	ActionSyncRemote:     RoleAdmin,
	ActionManageUsers:    RoleAdmin,
}

// Can reports whether a role may perform an action. Unknown actions are
// denied for everyone.
func Can(role Role, action Action) bool {
	required, ok := capabilities[action]
	if !ok {
		return false
	}
	switch required {
	case RoleUser:
		return role == RoleUser || role == RoleAdmin
	case RoleAdmin:
		return role == RoleAdmin
	default:
		return false
	}
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	return Role(s) == RoleUser || Role(s) == RoleAdmin
}

// Require returns echo middleware that rejects requests whose session role
// cannot perform the given action.
func Require(action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role == RoleNone {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !Can(role, action) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
			}
			return next(c)
		}
	}
}
