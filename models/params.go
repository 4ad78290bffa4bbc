package models

import "strings"

type ParamCreateUser struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	ImageURL string `json:"imageUrl" binding:"omitempty,url"`
}

// ParamCreateCommunity arrives as multipart form fields next to the image.
type ParamCreateCommunity struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
}

// Trim strips surrounding whitespace before the length checks run.
func (p *ParamCreateCommunity) Trim() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

type ParamUpdateCommunityImage struct {
	ID string `form:"id" binding:"required"`
}

type ParamEmail struct {
	Email string `json:"email" binding:"required,email"`
}

type ParamSearchCommunity struct {
	Query string `json:"query" binding:"required"`
}

type ParamCreatePost struct {
	Title       string `form:"title" binding:"required"`
	Email       string `form:"email" binding:"required,email"`
	CommunityID string `form:"communityId" binding:"required"`
	Description string `form:"description"`
}

type ParamEditPost struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type ParamPostList struct {
	Page
}

type ParamFilterPosts struct {
	Date string `json:"date" binding:"required"`
}

type ParamAddComment struct {
	Content  string `json:"content" binding:"required"`
	PostID   string `json:"postId" binding:"required"`
	AuthorID string `json:"authorId" binding:"required"`
}

type ParamCommentList struct {
	PostID string `json:"postId" binding:"required"`
	Page
}

type ParamVote struct {
	Vote   VoteType `json:"vote" binding:"required,oneof=up down"`
	UserID string   `json:"userId" binding:"required"`
	PostID string   `json:"postId" binding:"required"`
}

type ParamVoteKey struct {
	UserID string `json:"userId" binding:"required"`
	PostID string `json:"postId" binding:"required"`
}

type ParamPostID struct {
	PostID string `json:"postId" binding:"required"`
}

// ParamUpdateVote removes the caller's vote when Destroy is set; otherwise
// Vote is required.
type ParamUpdateVote struct {
	Vote    VoteType `json:"vote" binding:"omitempty,oneof=up down"`
	Destroy *bool    `json:"destroy" binding:"required"`
	UserID  string   `json:"userId" binding:"required"`
	PostID  string   `json:"postId" binding:"required"`
}
