package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reddit/logic"
	"reddit/media"
	"reddit/models"
)

type CommunityHandler struct {
	communities *logic.CommunityService
	stager      *media.Stager
	policy      media.Policy
}

func NewCommunityHandler(communities *logic.CommunityService, stager *media.Stager, imageMaxBytes int64) *CommunityHandler {
	return &CommunityHandler{
		communities: communities,
		stager:      stager,
		policy:      media.ImagePolicy(imageMaxBytes),
	}
}

// stage pulls field out of the multipart form into the staging dir. A
// missing file yields nil so the service can report it after validation.
func stage(c *gin.Context, stager *media.Stager, field string, policy media.Policy) (*media.Staged, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, true
	}
	staged, err := stager.Stage(fh, policy)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return staged, true
}

// Create handles POST /community/create (multipart: image, name,
// description, email).
func (h *CommunityHandler) Create(c *gin.Context) {
	var p models.ParamCreateCommunity
	if !bindForm(c, &p) {
		return
	}
	staged, ok := stage(c, h.stager, "image", h.policy)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	community, err := h.communities.Create(ctx, &p, staged)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Community created successfully", gin.H{"community": community})
}

// List handles POST /community/getCommunities.
func (h *CommunityHandler) List(c *gin.Context) {
	var p models.ParamEmail
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	communities, err := h.communities.ListByEmail(ctx, p.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"communities": communities})
}

// Get handles GET /community/get-community?q=<id>.
func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := parseID(c, c.Query("q"))
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	community, err := h.communities.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"community": community})
}

// Search handles POST /community/search-community.
func (h *CommunityHandler) Search(c *gin.Context) {
	var p models.ParamSearchCommunity
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	result, err := h.communities.Search(ctx, p.Query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"result": result})
}

// UpdateImage handles POST /community/updateCommunityImage (multipart:
// communityImage, id).
func (h *CommunityHandler) UpdateImage(c *gin.Context) {
	var p models.ParamUpdateCommunityImage
	if !bindForm(c, &p) {
		return
	}
	id, ok := parseID(c, p.ID)
	if !ok {
		return
	}
	staged, ok := stage(c, h.stager, "communityImage", h.policy)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, uploadTimeout)
	defer cancel()

	community, err := h.communities.UpdateImage(ctx, id, staged)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Community image updated", gin.H{"community": community})
}
