package domain

import (
	"kiwiledger/internal/db/models/postgres/public/model"
)

// Session identifies the authenticated caller for the duration of a request.
// It carries the role captured at login, so a role change takes effect on
// the next authentication.
type Session struct {
	UserID   int32
	Username string
	Role     model.UserRole
}

func (s Session) IsAdmin() bool {
	return s.Role == model.UserRole_Admin
}
