package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rpupo63/bloggie/models"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// Normalize is the lookup form of user names, emails and role names.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// FindByUserName returns the user with its roles, or nil when there is none.
func (r *UserRepo) FindByUserName(ctx context.Context, userName string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Where("normalized_user_name = ?", Normalize(userName)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", userName, err)
	}
	return &user, nil
}

// FindRole returns the role with the given name, or nil when there is none.
func (r *UserRepo) FindRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("normalized_name = ?", Normalize(name)).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find role %q: %w", name, err)
	}
	return &role, nil
}

// Create inserts the user and links it to the named roles. Unknown role names are an error.
func (r *UserRepo) Create(ctx context.Context, user *models.User, roleNames ...string) (*models.User, error) {
	roles := make([]models.Role, 0, len(roleNames))
	for _, name := range roleNames {
		role, err := r.FindRole(ctx, name)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, fmt.Errorf("create user %q: role %q does not exist", user.UserName, name)
		}
		roles = append(roles, *role)
	}

	user.NormalizedUserName = Normalize(user.UserName)
	user.NormalizedEmail = Normalize(user.Email)
	user.Roles = roles

	if err := r.db.WithContext(ctx).Omit("Roles.*").Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %q: %w", user.UserName, err)
	}
	return user, nil
}
