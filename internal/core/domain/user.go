package domain

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Role is an account category controlling which views and routes are permitted.
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleStagiaire  Role = "stagiaire"
	RoleEntreprise Role = "entreprise"
	RoleAdmin      Role = "admin"
)

// SignupRoles are the roles a user may pick for themselves at registration.
// Admin accounts are provisioned by an operator.
var SignupRoles = []Role{RoleFreelancer, RoleStagiaire, RoleEntreprise}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleFreelancer, RoleStagiaire, RoleEntreprise, RoleAdmin:
		return true
	}
	return false
}

// In reports whether r is contained in roles.
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}

// User models an account in the credential store.
type User struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Skills       []string  `json:"skills"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Public returns a copy of u that is safe to serialise to a caller.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	if clone.Skills == nil {
		clone.Skills = []string{}
	}
	return &clone
}

var emailFolder = cases.Fold()

// NormalizeEmail trims and case-folds an address so lookups and the unique
// index agree on a single spelling.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}
