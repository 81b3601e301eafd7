package ports

import (
	"github.com/99minutos/backend-boilerplate/internal/core/domain"
)

// Filter keys used when querying users.
const (
	UserFieldEmail  = "email"
	UserFieldRole   = "role"
	UserFieldStatus = "status"
	UserFieldName   = "name"
)

// UserRepository is the persistence contract for users: an auditable,
// soft-deletable collection.
type UserRepository interface {
	AuditRepository[domain.User]
}
