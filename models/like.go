package models

import (
	"time"

	"gorm.io/gorm"
)

// Like records that a user liked a post. The composite unique index
// enforces at most one like per (user, post) pair at the storage layer,
// so concurrent duplicate inserts fail instead of racing past an
// application-level existence check.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CountLikesFor returns the number of likes recorded for a post.
func CountLikesFor(db *gorm.DB, postID uint) (int64, error) {
	var count int64
	err := db.Model(&Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// LikeExists reports whether the given user has already liked the post.
func LikeExists(db *gorm.DB, postID, userID uint) (bool, error) {
	var count int64
	err := db.Model(&Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}
