package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/blogpost/blogapi/middleware"
	"github.com/blogpost/blogapi/models"
	"github.com/blogpost/blogapi/utils"
)

// PostController manages CRUD operations for posts and likes.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// canMutate is the ownership predicate applied before post mutations.
// There is no admin override: is_admin is never consulted.
func canMutate(callerID, ownerID uint) bool {
	return callerID == ownerID
}

// CreatePost creates a post authored by the caller. The author is always
// the token subject; any user_id in the body is ignored.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	title := utils.Sanitize(strings.TrimSpace(req.Title))
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
		return
	}
	content := utils.Sanitize(req.Content)

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	post := models.Post{
		UserID:  userID,
		Title:   title,
		Content: content,
	}

	if err := p.db.Create(&post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create post")
		return
	}

	if err := p.db.Preload("User").First(&post, post.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return
	}

	view, err := post.ToView(p.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to serialize post")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Post created successfully",
		"post":    view,
	})
}

// ListPosts returns every post. No pagination or filtering.
func (p *PostController) ListPosts(ctx *gin.Context) {
	var posts []models.Post
	if err := p.db.Preload("User").Find(&posts).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to list posts")
		return
	}

	views := make([]models.PostView, 0, len(posts))
	for i := range posts {
		view, err := posts[i].ToView(p.db)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, "failed to serialize posts")
			return
		}
		views = append(views, view)
	}

	ctx.JSON(http.StatusOK, views)
}

// GetPost returns a single post by id.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, ok := p.findPost(ctx)
	if !ok {
		return
	}

	view, err := post.ToView(p.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to serialize post")
		return
	}

	ctx.JSON(http.StatusOK, view)
}

// UpdatePost applies a partial update to the caller's own post. Omitted
// fields keep their prior values.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	post, ok := p.findPost(ctx)
	if !ok {
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !canMutate(userID, post.UserID) {
		utils.Error(ctx, http.StatusForbidden, "You can only update your own posts")
		return
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.Title != nil {
		title := utils.Sanitize(strings.TrimSpace(*req.Title))
		if title == "" {
			utils.Error(ctx, http.StatusBadRequest, "title cannot be empty")
			return
		}
		post.Title = title
	}
	if req.Content != nil {
		post.Content = utils.Sanitize(*req.Content)
	}

	if err := p.db.Omit("User", "Likes").Save(post).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to update post")
		return
	}

	view, err := post.ToView(p.db)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to serialize post")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    view,
	})
}

// DeletePost removes the caller's own post together with its likes. The
// two deletes run in one transaction so no orphaned likes survive.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.findPost(ctx)
	if !ok {
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !canMutate(userID, post.UserID) {
		utils.Error(ctx, http.StatusForbidden, "You can only delete your own posts")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to delete post")
		return
	}

	utils.Sugar.Infow("post deleted", "post_id", post.ID, "user_id", userID)

	ctx.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// LikePost records a like by the caller. The composite unique index on
// (user_id, post_id) is the authority: a concurrent duplicate insert
// fails there even when the existence pre-check passed.
func (p *PostController) LikePost(ctx *gin.Context) {
	post, ok := p.findPost(ctx)
	if !ok {
		return
	}

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	exists, err := models.LikeExists(p.db, post.ID, userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to check likes")
		return
	}
	if exists {
		utils.Error(ctx, http.StatusBadRequest, "You have already liked this post")
		return
	}

	like := models.Like{UserID: userID, PostID: post.ID}
	if err := p.db.Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusBadRequest, "You have already liked this post")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to like post")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Post liked successfully"})
}

// findPost loads the post named by the :id param with its author, writing
// the error response itself when the post is missing.
func (p *PostController) findPost(ctx *gin.Context) (*models.Post, bool) {
	var post models.Post
	if err := p.db.Preload("User").First(&post, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, "post not found")
			return nil, false
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to load post")
		return nil, false
	}
	return &post, true
}
