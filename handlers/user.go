package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reddit/logic"
	"reddit/models"
)

type UserHandler struct {
	users *logic.UserService
}

func NewUserHandler(users *logic.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Create handles POST /user/create.
func (h *UserHandler) Create(c *gin.Context) {
	var p models.ParamCreateUser
	if !bindJSON(c, &p) {
		return
	}

	ctx, cancel := requestContext(c, requestTimeout)
	defer cancel()

	user, err := h.users.Create(ctx, &p)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "User created successfully", gin.H{"user": user})
}
