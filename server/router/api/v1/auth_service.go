package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/usehealthifier/healthifier/store"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPairResponse carries a fresh access/refresh token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates a new account. The email is the login identity and
// must not already be taken.
func (s *APIV1Service) Register(c echo.Context) error {
	ctx := c.Request().Context()
	req := &RegisterRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed register request").SetInternal(err)
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name, email and password are required")
	}

	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "email is already registered")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
	}
	user, err := s.Store.CreateUser(ctx, &store.User{
		UID:          uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		CreatedTs:    time.Now().Unix(),
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, convertUserResponse(user))
}

// Login verifies credentials and issues a token pair. The refresh token
// is persisted so it can be matched and rotated on refresh.
func (s *APIV1Service) Login(c echo.Context) error {
	ctx := c.Request().Context()
	req := &LoginRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed login request").SetInternal(err)
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	pair, err := s.issueTokenPair(c, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue tokens").SetInternal(err)
	}
	return c.JSON(http.StatusOK, pair)
}

// RefreshToken exchanges a valid refresh token for a new pair. The
// presented token must match the one stored at the last login or
// refresh; rotation invalidates it either way.
func (s *APIV1Service) RefreshToken(c echo.Context) error {
	ctx := c.Request().Context()
	req := &RefreshTokenRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed refresh request").SetInternal(err)
	}
	claims, err := s.Signer.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token").SetInternal(err)
	}

	user, err := s.Store.GetUser(ctx, &store.FindUser{UID: &claims.Subject})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil || user.RefreshToken != req.RefreshToken {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token has been revoked")
	}

	pair, err := s.issueTokenPair(c, user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue tokens").SetInternal(err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (s *APIV1Service) issueTokenPair(c echo.Context, user *store.User) (*TokenPairResponse, error) {
	accessToken, err := s.Signer.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "generate access token")
	}
	refreshToken, err := s.Signer.GenerateRefreshToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}
	if _, err := s.Store.UpdateUser(c.Request().Context(), &store.UpdateUser{
		ID:           user.ID,
		RefreshToken: &refreshToken,
	}); err != nil {
		return nil, errors.Wrap(err, "persist refresh token")
	}
	return &TokenPairResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
