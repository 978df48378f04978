package handler

import (
	"database/sql" // SQL database interactions
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/config"     // app configuration
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/model"      // persistence models
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/repository" // DB repositories
	"github.com/bilichijing/whu-software-system-practice-library-manager/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth and profile endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type registerReq struct {
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	Email     *string `json:"email"`
	RealName  *string `json:"real_name"`
	StudentID *string `json:"student_id"`
	Phone     *string `json:"phone"`
}
type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
type profileReq struct {
	Email    *string `json:"email"`
	RealName *string `json:"real_name"`
	Phone    *string `json:"phone"`
	Avatar   *string `json:"avatar"`
}

type userPart struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	RealName  *string `json:"real_name"`
	StudentID *string `json:"student_id"`
	Phone     *string `json:"phone"`
	Points    int     `json:"points"`
	Avatar    *string `json:"avatar"`
}

func toUserPart(u model.User) userPart {
	return userPart{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		RealName:  u.RealName,
		StudentID: u.StudentID,
		Phone:     u.Phone,
		Points:    u.Points,
		Avatar:    u.Avatar,
	}
}

// Register creates the account and logs the user in immediately: the
// response carries a fresh token alongside the user, so clients skip a
// second round trip to /login.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}
	if len(req.Password) < 6 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u := model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		RealName:     req.RealName,
		StudentID:    req.StudentID,
		Phone:        req.Phone,
	}
	if _, err := h.Users.Create(ctx, &u); err != nil {
		if err == repository.ErrUsernameExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "username already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registration successful",
		"token":   access.Token,
		"user":    toUserPart(u),
	})
}

// Login verifies credentials and returns a fresh token with the user.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, req.Username)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Username, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"token":   access.Token,
		"user":    toUserPart(u),
	})
}

// Logout is a no-op on the server: tokens are stateless and simply expire.
// The endpoint exists so clients have a uniform place to end a session.
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Profile returns the authenticated user's record.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

// UpdateProfile overwrites the mutable profile fields and echoes the
// updated record back.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	uid, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateProfile(ctx, uid, req.Email, req.RealName, req.Phone, req.Avatar); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated",
		"user":    toUserPart(u),
	})
}
