package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reddit/logic"
	"reddit/models"
)

type CommentHandler struct {
	comments *logic.CommentService
}

func NewCommentHandler(comments *logic.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// Add handles POST /comment/add.
func (h *CommentHandler) Add(c *gin.Context) {
	var p models.ParamAddComment
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	comment, err := h.comments.Add(ctx, &p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Comment added successfully", gin.H{"comment": comment})
}

// List handles POST /comment/getComments {postId, page, limit}.
func (h *CommentHandler) List(c *gin.Context) {
	var p models.ParamCommentList
	if !bindJSON(c, &p) {
		return
	}
	postID, ok := parseID(c, p.PostID)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	comments, total, err := h.comments.List(ctx, postID, p.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Comments fetched successfully", gin.H{
		"comments":      comments,
		"totalComments": total,
	})
}
