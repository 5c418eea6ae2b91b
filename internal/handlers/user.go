package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/dto"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/service"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/upload"
)

// UserHandler handles account listing, signup and login.
type UserHandler struct {
	svc *service.UserService
}

// NewUserHandler returns a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// List godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {object}  dto.ListUsersResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListUsersResponse{Users: dto.UsersToResponses(list)})
}

// Signup godoc
// @Summary      Sign up
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        name      formData  string  true  "Display name"
// @Param        email     formData  string  true  "Email"
// @Param        password  formData  string  true  "Password, at least 6 characters"
// @Param        image     formData  file    true  "Avatar (png, jpeg)"
// @Success      201  {object}  dto.AuthResponse
// @Failure      422  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, apperr.Validation("Invalid inputs, please check your data").Wrap(err))
		return
	}
	file, _ := upload.FromContext(c)
	res, err := h.svc.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Image:    file.URL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.AuthResponse{UserID: res.UserID, Email: res.Email, Token: res.Token})
}

// Login godoc
// @Summary      Log in
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200  {object}  dto.AuthResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation("Invalid inputs, please check your data").Wrap(err))
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AuthResponse{UserID: res.UserID, Email: res.Email, Token: res.Token})
}
