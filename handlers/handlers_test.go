package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddit/apperr"
	"reddit/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := InitTrans("en"); err != nil {
		panic(err)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRespondOKMergesPayload(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondOK(c, http.StatusCreated, "done", gin.H{"count": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "done", body["message"])
	assert.Equal(t, float64(2), body["count"])
}

func TestRespondErrorHidesInternalText(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.New("dial tcp 10.0.0.3:27017: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decode(t, w)["message"])
}

func TestRespondErrorUsesKind(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondError(c, errors.Wrap(apperr.ErrNotPostAuthor, "logic: edit post"))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Only the author can modify this post", body["message"])
}

func TestTranslateNamesFieldsByJSONKey(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p models.ParamVote
		if bindJSON(c, &p) {
			c.Status(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"vote":"sideways","postId":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs, ok := decode(t, w)["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "vote")
	assert.Contains(t, errs, "userId")
	assert.NotContains(t, errs, "postId")
}

func TestTranslateMalformedBody(t *testing.T) {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p models.ParamVote
		if bindJSON(c, &p) {
			c.Status(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", jsonBody(`{"vote":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Malformed request body", decode(t, w)["errors"])
}

func TestRequesterID(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userId", "not-hex")

	_, ok := requesterID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}
