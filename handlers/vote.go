package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/logic"
	"reddit/models"
)

type VoteHandler struct {
	votes *logic.VoteService
}

func NewVoteHandler(votes *logic.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

func parsePair(c *gin.Context, userHex, postHex string) (userID, postID primitive.ObjectID, ok bool) {
	if userID, ok = parseID(c, userHex); !ok {
		return
	}
	postID, ok = parseID(c, postHex)
	return
}

// React handles POST /vote/react. Voting again replaces the earlier vote.
func (h *VoteHandler) React(c *gin.Context) {
	var p models.ParamVote
	if !bindJSON(c, &p) {
		return
	}
	userID, postID, ok := parsePair(c, p.UserID, p.PostID)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	vote, err := h.votes.CastOrUpdateVote(ctx, userID, postID, p.Vote)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Vote added", gin.H{"vote": vote})
}

// Details handles POST /vote/getVoteDetails.
func (h *VoteHandler) Details(c *gin.Context) {
	var p models.ParamVoteKey
	if !bindJSON(c, &p) {
		return
	}
	userID, postID, ok := parsePair(c, p.UserID, p.PostID)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	vote, err := h.votes.GetVote(ctx, userID, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"vote": vote})
}

// Count handles POST /vote/voteCount. counts is the net score.
func (h *VoteHandler) Count(c *gin.Context) {
	var p models.ParamPostID
	if !bindJSON(c, &p) {
		return
	}
	postID, ok := parseID(c, p.PostID)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	tally, err := h.votes.Tally(ctx, postID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", gin.H{"counts": tally.Score, "tally": tally})
}

// Update handles POST /vote/updateVote. destroy=true removes the vote,
// otherwise vote must be up or down.
func (h *VoteHandler) Update(c *gin.Context) {
	var p models.ParamUpdateVote
	if !bindJSON(c, &p) {
		return
	}
	userID, postID, ok := parsePair(c, p.UserID, p.PostID)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	if *p.Destroy {
		if _, err := h.votes.RemoveVote(ctx, userID, postID); err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "Vote removed", nil)
		return
	}

	if !p.Vote.Valid() {
		respondError(c, apperr.ErrInvalidVote)
		return
	}
	vote, err := h.votes.CastOrUpdateVote(ctx, userID, postID, p.Vote)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Vote updated", gin.H{"newVote": vote})
}
