package domain

import (
	"fmt"
	"time"
)

// AccountRole enumerates roles held by service accounts.
type AccountRole string

const (
	RoleDispatcher AccountRole = "DISPATCHER"
	RoleSupervisor AccountRole = "SUPERVISOR"
	RoleAdmin      AccountRole = "ADMIN"
)

// ParseAccountRole validates a raw role value.
func ParseAccountRole(raw string) (AccountRole, error) {
	switch AccountRole(raw) {
	case RoleDispatcher, RoleSupervisor, RoleAdmin:
		return AccountRole(raw), nil
	}
	return "", fmt.Errorf("unknown account role %q", raw)
}

// ServiceAccount is an organization-scoped API credential.
type ServiceAccount struct {
	ID             string
	OrganizationID string
	Name           string
	SecretHash     string
	Role           AccountRole
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
