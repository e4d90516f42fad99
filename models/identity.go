package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role names recognized by the admin gate.
const (
	RoleAdmin      = "Admin"
	RoleSuperAdmin = "SuperAdmin"
	RoleUser       = "User"
)

type Role struct {
	ID             uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name           string    `json:"name" db:"name" gorm:"type:text;not null"`
	NormalizedName string    `json:"normalizedName" db:"normalized_name" gorm:"type:text;not null;uniqueIndex:idx_role_normalized_name"`
}

// User is an identity principal. Roles are joined through user_roles.
type User struct {
	ID                 uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserName           string    `json:"userName" db:"user_name" gorm:"type:text;not null"`
	NormalizedUserName string    `json:"-" db:"normalized_user_name" gorm:"type:text;not null;uniqueIndex:idx_user_normalized_user_name"`
	Email              string    `json:"email" db:"email" gorm:"type:text"`
	NormalizedEmail    string    `json:"-" db:"normalized_email" gorm:"type:text;index:idx_user_normalized_email"`
	PasswordHash       string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Roles              []Role    `json:"roles,omitempty" gorm:"many2many:user_roles;"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RoleNames returns the names of the roles loaded on the user.
func (u User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
