package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usehealthifier/healthifier/store"
)

// UserResponse is the public view of an account. Credentials and the
// stored refresh token never leave the store layer.
type UserResponse struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func convertUserResponse(user *store.User) *UserResponse {
	return &UserResponse{
		UID:   user.UID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func (s *APIV1Service) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	users, err := s.Store.ListUsers(ctx, &store.FindUser{})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list users").SetInternal(err)
	}
	response := make([]*UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, convertUserResponse(user))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	uid := c.Param("uid")
	user, err := s.Store.GetUser(ctx, &store.FindUser{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get user").SetInternal(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}
	return c.JSON(http.StatusOK, convertUserResponse(user))
}
