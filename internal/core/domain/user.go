package domain

import "errors"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleMember}

// ValidRole reports whether r is an assignable role.
func ValidRole(r string) bool {
	return r == RoleAdmin || r == RoleMember
}

// ValidUserStatus reports whether s is a known user status.
func ValidUserStatus(s string) bool {
	return s == UserStatusActive || s == UserStatusInactive
}

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// User is the sample auditable entity served by the API.
type User struct {
	AuditableRecord `bson:",inline"`
	Email           string `json:"email" bson:"email"`
	Name            string `json:"name" bson:"name"`
	Role            string `json:"role" bson:"role"`
	Status          string `json:"status" bson:"status"`
}

// UserStats are derived counts over the users collection.
type UserStats struct {
	Total   int64            `json:"total"`
	Live    int64            `json:"live"`
	Deleted int64            `json:"deleted"`
	ByRole  map[string]int64 `json:"by_role"`
}
