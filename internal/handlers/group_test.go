package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vibe-service/internal/mocks"
	"vibe-service/internal/models"
	"vibe-service/internal/services"
)

func setupGroupRouter(groups *mocks.GroupRepositoryMock) *gin.Engine {
	handler := NewGroupHandler(services.NewGroupService(groups, new(mocks.ObjectStoreMock)), nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "admin")
		c.Next()
	})
	r.POST("/groups", handler.CreateGroup)
	r.GET("/groups", handler.ListGroups)
	r.POST("/groups/:id/members", handler.AddMember)
	r.GET("/groups/:id/members", handler.Members)
	return r
}

func TestCreateGroupSuccess(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	r := setupGroupRouter(groups)

	groups.On("CreateGroup", mock.Anything, "admin", "Squad", "friends", (*string)(nil)).
		Return(models.Group{ID: "g1", Name: "Squad", AdminID: "admin"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"Squad","description":"friends"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	groups.AssertExpectations(t)
}

func TestCreateGroupBlankName(t *testing.T) {
	r := setupGroupRouter(new(mocks.GroupRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/groups", bytes.NewBufferString(`{"name":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddMemberNotAdmin(t *testing.T) {
	groups := new(mocks.GroupRepositoryMock)
	r := setupGroupRouter(groups)

	groups.On("GetGroup", mock.Anything, "g1").Return(models.Group{ID: "g1", AdminID: "someone-else"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/groups/g1/members", bytes.NewBufferString(`{"user_id":"f"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
