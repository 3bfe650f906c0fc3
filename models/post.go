package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a blog post created by a user. Only the author may
// update or delete it; deleting a post removes its likes as well.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:120;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes     []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// PostView is the serialized form of a post returned by the API. It
// denormalizes the author username and the like count.
type PostView struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	LikesCount int64  `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
}

// ToView builds the API representation of the post. The User association
// must be preloaded. Note: is_liked reflects whether the post's own
// author has liked it, not the requesting viewer.
func (p *Post) ToView(db *gorm.DB) (PostView, error) {
	count, err := CountLikesFor(db, p.ID)
	if err != nil {
		return PostView{}, err
	}
	liked, err := LikeExists(db, p.ID, p.UserID)
	if err != nil {
		return PostView{}, err
	}
	return PostView{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		UserID:     p.UserID,
		Username:   p.User.Username,
		LikesCount: count,
		IsLiked:    liked,
	}, nil
}
