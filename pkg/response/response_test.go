package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "sudooom.community/pkg/errors"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestCreated_FlattensExtraFields(t *testing.T) {
	c, w := newContext()

	Created(c, "Chat group created successfully", gin.H{"group_id": int64(7)})

	assert.Equal(t, http.StatusCreated, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Chat group created successfully", body["message"])
	assert.EqualValues(t, 7, body["group_id"])
}

func TestList_NilBecomesEmptyArray(t *testing.T) {
	c, w := newContext()

	var items []string
	List(c, items)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestFail_MapsKindToStatus(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"参数错误", appErrors.ErrValidation.WithMessage("Post content required"), http.StatusBadRequest, "Post content required"},
		{"用户名重复", appErrors.ErrDuplicateUsername, http.StatusBadRequest, "Username already exists"},
		{"凭证错误", appErrors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"存储错误", appErrors.ErrStorage.Wrap(errors.New("disk full")), http.StatusInternalServerError, "Storage error: disk full"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newContext()
			Fail(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantMsg, resp.Message)
		})
	}
}
