package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reddit/logic"
	"reddit/media"
	"reddit/models"
)

type PostHandler struct {
	posts  *logic.PostService
	stager *media.Stager
	policy media.Policy
}

func NewPostHandler(posts *logic.PostService, stager *media.Stager, postMaxBytes int64) *PostHandler {
	return &PostHandler{
		posts:  posts,
		stager: stager,
		policy: media.PostMediaPolicy(postMaxBytes),
	}
}

// Upload handles POST /post/uploadPost (multipart: postResource, title,
// email, communityId, description).
func (h *PostHandler) Upload(c *gin.Context) {
	var p models.ParamCreatePost
	if !bindForm(c, &p) {
		return
	}
	staged, ok := stage(c, h.stager, "postResource", h.policy)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	post, err := h.posts.Create(ctx, &p, staged)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Post uploaded", gin.H{"post": post})
}

// Edit handles PUT /post/edit/:postId. Requires auth.
func (h *PostHandler) Edit(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, c.Param("postId"))
	if !ok {
		return
	}
	var p models.ParamEditPost
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	post, err := h.posts.Edit(ctx, requester, postID, &p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Post updated", gin.H{"post": post})
}

// Delete handles DELETE /post/delete/:postId. Requires auth.
func (h *PostHandler) Delete(c *gin.Context) {
	requester, ok := requesterID(c)
	if !ok {
		return
	}
	postID, ok := parseID(c, c.Param("postId"))
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	if err := h.posts.Delete(ctx, requester, postID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Post deleted", nil)
}

// CommunityPosts handles GET /post/getCommunityPosts?q=<communityId>.
func (h *PostHandler) CommunityPosts(c *gin.Context) {
	communityID, ok := parseID(c, c.Query("q"))
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	posts, err := h.posts.ListByCommunity(ctx, communityID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"posts": posts})
}

// All handles POST /post/getAllPosts {page, limit}.
func (h *PostHandler) All(c *gin.Context) {
	var p models.ParamPostList
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	posts, total, err := h.posts.List(ctx, p.Page)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"posts": posts, "total": total})
}

// Get handles GET /post/getPost?postId=.
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseID(c, c.Query("postId"))
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	post, err := h.posts.Get(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"post": post})
}

// Recent handles GET /post/recent-posts.
func (h *PostHandler) Recent(c *gin.Context) {
	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	posts, err := h.posts.Recent(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"posts": posts})
}

// Filter handles POST /post/filterPosts {date}.
func (h *PostHandler) Filter(c *gin.Context) {
	var p models.ParamFilterPosts
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	posts, err := h.posts.CreatedSince(ctx, p.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"posts": posts})
}
