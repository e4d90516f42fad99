package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/rpupo63/bloggie/errs"
	"github.com/rpupo63/bloggie/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Fixed identities of the seeded rows, so that every environment agrees on them.
var (
	AdminRoleID      = uuid.MustParse("d6580e7a-dfb6-4545-a38c-5bab666e45ae")
	SuperAdminRoleID = uuid.MustParse("d6580e7a-dfb6-4545-a38c-5bab666e45af")
	UserRoleID       = uuid.MustParse("d6580e7a-dfb6-4545-a38c-5bab666e45a0")
	SuperAdminUserID = uuid.MustParse("d6580e7a-dfb6-4545-a38c-5bab666e45aa")
)

// SeedConfig describes the super-admin account created on first startup.
type SeedConfig struct {
	SuperAdminEmail string
	// SuperAdminPasswordHash is stored as is; hash it before calling Seed.
	SuperAdminPasswordHash string
}

// Seed creates the three roles and the super-admin account when they are missing.
// Running it again is a no-op.
func Seed(ctx context.Context, db *gorm.DB, cfg SeedConfig) error {
	roles := []models.Role{
		{ID: AdminRoleID, Name: models.RoleAdmin},
		{ID: SuperAdminRoleID, Name: models.RoleSuperAdmin},
		{ID: UserRoleID, Name: models.RoleUser},
	}

	for i := range roles {
		roles[i].NormalizedName = Normalize(roles[i].Name)
		created, err := firstOrCreate(ctx, db, &roles[i], "normalized_name = ?", roles[i].NormalizedName)
		if err != nil {
			return errs.NewSeedError("role "+roles[i].Name, err)
		}
		if created {
			log.Info().Str("role", roles[i].Name).Msg("seeded role")
		}
	}

	superAdmin := models.User{
		ID:                 SuperAdminUserID,
		UserName:           cfg.SuperAdminEmail,
		NormalizedUserName: Normalize(cfg.SuperAdminEmail),
		Email:              cfg.SuperAdminEmail,
		NormalizedEmail:    Normalize(cfg.SuperAdminEmail),
		PasswordHash:       cfg.SuperAdminPasswordHash,
	}
	created, err := firstOrCreate(ctx, db, &superAdmin, "normalized_user_name = ?", superAdmin.NormalizedUserName)
	if err != nil {
		return errs.NewSeedError("super admin", err)
	}
	if created {
		log.Info().Str("user", superAdmin.UserName).Msg("seeded super admin")
	}

	// Memberships are checked separately so a partially seeded database is completed.
	var linked []models.Role
	if err := db.WithContext(ctx).Model(&superAdmin).Association("Roles").Find(&linked); err != nil {
		return errs.NewSeedError("super admin roles", err)
	}
	have := make(map[uuid.UUID]bool, len(linked))
	for _, role := range linked {
		have[role.ID] = true
	}
	missing := []models.Role{}
	for _, role := range roles {
		if !have[role.ID] {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 {
		if err := db.WithContext(ctx).Model(&superAdmin).Omit("Roles.*").Association("Roles").Append(missing); err != nil {
			return errs.NewSeedError("super admin roles", err)
		}
	}

	return nil
}

// firstOrCreate loads into dest the row matching the condition, inserting dest when there is none.
// The lookup goes through a zero value because gorm adds a non-zero primary key of the
// destination to the conditions.
func firstOrCreate(ctx context.Context, db *gorm.DB, dest any, query string, args ...any) (bool, error) {
	found := reflect.New(reflect.TypeOf(dest).Elem())
	err := db.WithContext(ctx).Where(query, args...).First(found.Interface()).Error
	if err == nil {
		reflect.ValueOf(dest).Elem().Set(found.Elem())
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("lookup: %w", err)
	}
	if err := db.WithContext(ctx).Create(dest).Error; err != nil {
		return false, fmt.Errorf("create: %w", err)
	}
	return true, nil
}
