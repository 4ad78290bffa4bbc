package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"reddit/apperr"
	"reddit/logger"
	"reddit/logic"
)

const (
	requestTimeout = 10 * time.Second
	uploadTimeout  = 30 * time.Second
)

func requestContext(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}

// respondOK writes {"success": true, "message": msg, ...payload}.
func respondOK(c *gin.Context, status int, msg string, payload gin.H) {
	body := gin.H{"success": true}
	if msg != "" {
		body["message"] = msg
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps err to its status. Internal errors are logged with their
// stack and reach the client only as a generic message.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		logger.ErrorWithStack(err)
	}
	c.JSON(kind.Status(), gin.H{
		"success": false,
		"message": apperr.Message(err),
	})
}

func respondInvalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request",
		"errors":  translate(err),
	})
}

// bindJSON binds and validates the body, answering 400 itself on failure.
func bindJSON(c *gin.Context, p any) bool {
	if err := c.ShouldBindJSON(p); err != nil {
		respondInvalid(c, err)
		return false
	}
	return true
}

func bindForm(c *gin.Context, p any) bool {
	if err := c.ShouldBind(p); err != nil {
		respondInvalid(c, err)
		return false
	}
	return true
}

// parseID answers 400 itself when raw is not an ObjectID hex string.
func parseID(c *gin.Context, raw string) (primitive.ObjectID, bool) {
	id, err := logic.ParseID(raw)
	if err != nil {
		respondError(c, err)
		return primitive.NilObjectID, false
	}
	return id, true
}

// requesterID is the user id the auth middleware put on the context.
func requesterID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}
