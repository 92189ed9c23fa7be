package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvisio/track-api/internal/models"
	"github.com/mlvisio/track-api/internal/service"
)

type userRepoStub struct {
	lastFilter models.UserFilter
	users      []models.User
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	s.lastFilter = filter
	return s.users, nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	return nil, nil
}

func (s *userRepoStub) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return nil, nil
}

func (s *userRepoStub) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return false, nil
}

func (s *userRepoStub) ExistsByRegistrationNumber(ctx context.Context, regNumber string, excludeID string) (bool, error) {
	return false, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error { return nil }

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error { return nil }

func (s *userRepoStub) Delete(ctx context.Context, id string) error { return nil }

func TestListHandlerFiltersLecturers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &userRepoStub{users: []models.User{
		{ID: "u-9", Name: "Nimal Weerasinghe", Role: models.RoleLecturer, Active: true},
	}}
	handler := NewUserHandler(service.NewUserService(repo, nil, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/users/list?role=LECTURER", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, repo.lastFilter.Role)
	assert.Equal(t, models.RoleLecturer, *repo.lastFilter.Role)

	var env struct {
		Success bool          `json:"success"`
		Data    []models.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	require.Len(t, env.Data, 1)
	assert.Equal(t, models.RoleLecturer, env.Data[0].Role)
}
