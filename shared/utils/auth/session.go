package auth

import (
	"github.com/google/uuid"

	"marketplace-backend/shared/database/models"
)

// Session is the resolved identity for one request. User is nil for
// anonymous callers; every read path stays reachable without a session so
// visibility rules can mask rather than reject.
type Session struct {
	User *models.User
}

// Anonymous is the session of an unauthenticated request.
func Anonymous() Session {
	return Session{}
}

func (s Session) IsAuthenticated() bool {
	return s.User != nil
}

func (s Session) IsAdmin() bool {
	return s.User != nil && s.User.IsAdmin()
}

func (s Session) IsVendor() bool {
	return s.User != nil && s.User.Type == models.UserTypeVendor
}

// IsOwnAccount reports whether the session belongs to the given user.
func (s Session) IsOwnAccount(id uuid.UUID) bool {
	return s.User != nil && s.User.ID == id
}

// UserID returns the session user's id, or uuid.Nil for anonymous callers.
func (s Session) UserID() uuid.UUID {
	if s.User == nil {
		return uuid.Nil
	}
	return s.User.ID
}
