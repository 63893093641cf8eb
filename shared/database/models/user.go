package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the marketplace-wide role vocabulary. Roles gate which workflow
// actions a user may trigger; tenant isolation is enforced separately via
// organization ownership.
type Role string

const (
	RoleOrgOwner Role = "ORG_OWNER"
	RoleAdmin    Role = "ADMIN"
	RoleBuyer    Role = "BUYER"
	RoleVendor   Role = "VENDOR"
	RoleViewer   Role = "VIEWER"
)

// IsBuyerSide reports whether the role can act for the buying organization.
func (r Role) IsBuyerSide() bool {
	return r == RoleOrgOwner || r == RoleAdmin || r == RoleBuyer
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID        uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	Email        string    `json:"email" gorm:"size:320;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         Role      `json:"role" gorm:"size:20;not null;default:'VIEWER'"`
	DisplayName  string    `json:"display_name" gorm:"size:120"`
	CreatedAt    time.Time `json:"created_at"`

	// Relations
	Organization Organization `json:"organization" gorm:"foreignKey:OrgID"`
}
