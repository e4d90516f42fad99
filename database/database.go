package database

import (
	"gorm.io/gorm"
)

type Database struct {
	tagRepo      *TagRepo
	blogPostRepo *BlogPostRepo
	userRepo     *UserRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		tagRepo:      NewTagRepo(db),
		blogPostRepo: NewBlogPostRepo(db),
		userRepo:     NewUserRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}
