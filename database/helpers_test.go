package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpupo63/bloggie/config"
	"github.com/rpupo63/bloggie/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a migrated sqlite database in a temporary directory.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(&config.Config{
		DBType:     config.DBTypeSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "bloggie.db"),
		DBLogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func addTags(t *testing.T, repo *TagRepo, names ...string) []models.Tag {
	t.Helper()

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag := models.Tag{Name: name, DisplayName: "Display " + name}
		_, err := repo.Add(context.Background(), &tag)
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	return tags
}

func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func countJoinRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Table("blog_post_tags").Count(&count).Error)
	return count
}
