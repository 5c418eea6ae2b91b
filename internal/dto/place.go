package dto

import (
	"time"

	dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"
)

// CreatePlaceRequest is the multipart form for POST /places.
type CreatePlaceRequest struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Address     string `form:"address"`
}

// UpdatePlaceRequest is the JSON body for PATCH /places/:pid.
type UpdatePlaceRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type PlaceResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Location    dom.Location `json:"location"`
	Image       string       `json:"image"`
	Creator     string       `json:"creator"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type PlaceEnvelope struct {
	Place PlaceResponse `json:"place"`
}

type ListPlacesResponse struct {
	Places []PlaceResponse `json:"places"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func PlaceToResponse(p dom.Place) PlaceResponse {
	return PlaceResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    p.Location,
		Image:       p.Image,
		Creator:     p.CreatorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func PlacesToResponses(list []dom.Place) []PlaceResponse {
	out := make([]PlaceResponse, len(list))
	for i := range list {
		out[i] = PlaceToResponse(list[i])
	}
	return out
}
