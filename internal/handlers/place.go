package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vaheaslanyan/hoopscoop-backend/internal/apperr"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/auth"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/dto"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/service"
	"github.com/vaheaslanyan/hoopscoop-backend/internal/upload"
)

const msgInvalidPlace = "Invalid inputs, please check the data"

type PlaceHandler struct {
	svc *service.PlaceService
}

func NewPlaceHandler(svc *service.PlaceService) *PlaceHandler {
	return &PlaceHandler{svc: svc}
}

// List godoc
// @Summary      List all places
// @Tags         places
// @Produce      json
// @Success      200  {object}  dto.ListPlacesResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /places [get]
func (h *PlaceHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListPlacesResponse{Places: dto.PlacesToResponses(list)})
}

// GetByID godoc
// @Summary      Get a place by ID
// @Tags         places
// @Produce      json
// @Param        pid  path      string  true  "Place ID"
// @Success      200  {object}  dto.PlaceEnvelope
// @Failure      404  {object}  dto.MessageResponse
// @Router       /places/{pid} [get]
func (h *PlaceHandler) GetByID(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("pid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PlaceEnvelope{Place: dto.PlaceToResponse(p)})
}

// ListByUser godoc
// @Summary      List places created by a user
// @Tags         places
// @Produce      json
// @Param        uid  path      string  true  "User ID"
// @Success      200  {object}  dto.ListPlacesResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /places/user/{uid} [get]
func (h *PlaceHandler) ListByUser(c *gin.Context) {
	list, err := h.svc.ListByUser(c.Request.Context(), c.Param("uid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListPlacesResponse{Places: dto.PlacesToResponses(list)})
}

// Create godoc
// @Summary      Create a place
// @Tags         places
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true  "Title"
// @Param        description  formData  string  true  "Description, at least 5 characters"
// @Param        address      formData  string  true  "Free-text address"
// @Param        image        formData  file    true  "Image (png, jpeg)"
// @Success      201  {object}  dto.PlaceEnvelope
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      422  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /places [post]
func (h *PlaceHandler) Create(c *gin.Context) {
	var req dto.CreatePlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		fail(c, apperr.Validation(msgInvalidPlace).Wrap(err))
		return
	}
	file, _ := upload.FromContext(c)
	p, err := h.svc.Create(c.Request.Context(), service.CreatePlaceInput{
		CreatorID:   auth.UserIDFromContext(c),
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Image:       file.URL,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.PlaceEnvelope{Place: dto.PlaceToResponse(p)})
}

// Update godoc
// @Summary      Update title and description of a place
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        pid   path      string                  true  "Place ID"
// @Param        body  body      dto.UpdatePlaceRequest  true  "New text"
// @Success      200   {object}  dto.PlaceEnvelope
// @Failure      401   {object}  dto.MessageResponse
// @Failure      404   {object}  dto.MessageResponse
// @Failure      422   {object}  dto.MessageResponse
// @Router       /places/{pid} [patch]
func (h *PlaceHandler) Update(c *gin.Context) {
	var req dto.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Validation(msgInvalidPlace).Wrap(err))
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("pid"), auth.UserIDFromContext(c), req.Title, req.Description)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PlaceEnvelope{Place: dto.PlaceToResponse(p)})
}

// Delete godoc
// @Summary      Delete a place
// @Tags         places
// @Produce      json
// @Security     BearerAuth
// @Param        pid  path  string  true  "Place ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.MessageResponse
// @Failure      500  {object}  dto.MessageResponse
// @Router       /places/{pid} [delete]
func (h *PlaceHandler) Delete(c *gin.Context) {
	pid := c.Param("pid")
	if err := h.svc.Delete(c.Request.Context(), pid, auth.UserIDFromContext(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Deleted place " + pid})
}
