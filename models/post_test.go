package models

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// A single connection keeps the in-memory database alive and
	// serializes writes.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&User{}, &Post{}, &Like{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestLikeUniquenessEnforcedByIndex(t *testing.T) {
	db := newTestDB(t)

	author := User{Username: "author", Email: "author@example.com", PasswordHash: "x"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	post := Post{UserID: author.ID, Title: "t", Content: "c"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := db.Create(&Like{UserID: author.ID, PostID: post.ID}).Error; err != nil {
		t.Fatalf("first like: %v", err)
	}
	err := db.Create(&Like{UserID: author.ID, PostID: post.ID}).Error
	if err == nil {
		t.Fatalf("expected duplicate like to fail")
	}
	if err != gorm.ErrDuplicatedKey {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}

	count, err := CountLikesFor(db, post.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 like, got %d", count)
	}
}

func TestPostViewIsLikedReflectsAuthorNotViewer(t *testing.T) {
	db := newTestDB(t)

	author := User{Username: "author", Email: "author@example.com", PasswordHash: "x"}
	reader := User{Username: "reader", Email: "reader@example.com", PasswordHash: "x"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	if err := db.Create(&reader).Error; err != nil {
		t.Fatalf("create reader: %v", err)
	}

	post := Post{UserID: author.ID, Title: "hello", Content: "world"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := db.Preload("User").First(&post, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}

	// Liked only by a non-author: the flag stays false because it is
	// computed against the post's author.
	if err := db.Create(&Like{UserID: reader.ID, PostID: post.ID}).Error; err != nil {
		t.Fatalf("reader like: %v", err)
	}
	view, err := post.ToView(db)
	if err != nil {
		t.Fatalf("to view: %v", err)
	}
	if view.LikesCount != 1 {
		t.Fatalf("expected 1 like, got %d", view.LikesCount)
	}
	if view.IsLiked {
		t.Fatalf("is_liked must track the author's like, not the reader's")
	}
	if view.Username != "author" {
		t.Fatalf("expected denormalized author username, got %q", view.Username)
	}

	// Once the author likes their own post the flag flips.
	if err := db.Create(&Like{UserID: author.ID, PostID: post.ID}).Error; err != nil {
		t.Fatalf("author like: %v", err)
	}
	view, err = post.ToView(db)
	if err != nil {
		t.Fatalf("to view: %v", err)
	}
	if !view.IsLiked {
		t.Fatalf("expected is_liked once the author has liked")
	}
	if view.LikesCount != 2 {
		t.Fatalf("expected 2 likes, got %d", view.LikesCount)
	}
}

func TestUserUniqueIndexes(t *testing.T) {
	db := newTestDB(t)

	u := User{Username: "sam", Email: "sam@example.com", PasswordHash: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	dupEmail := User{Username: "other", Email: "sam@example.com", PasswordHash: "x"}
	if err := db.Create(&dupEmail).Error; err != gorm.ErrDuplicatedKey {
		t.Fatalf("expected duplicate email to fail with ErrDuplicatedKey, got %v", err)
	}

	dupName := User{Username: "sam", Email: "sam2@example.com", PasswordHash: "x"}
	if err := db.Create(&dupName).Error; err != gorm.ErrDuplicatedKey {
		t.Fatalf("expected duplicate username to fail with ErrDuplicatedKey, got %v", err)
	}
}
