package dto

import dom "github.com/vaheaslanyan/hoopscoop-backend/internal/domain"

// SignupRequest is the multipart form for POST /users/signup. The image travels as a file field.
type SignupRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LoginRequest is the JSON body for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Image  string   `json:"image"`
	Places []string `json:"places"`
}

type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

func UserToResponse(u dom.User) UserResponse {
	places := u.PlaceIDs
	if places == nil {
		places = []string{}
	}
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Image: u.Image, Places: places}
}

func UsersToResponses(list []dom.User) []UserResponse {
	out := make([]UserResponse, len(list))
	for i := range list {
		out[i] = UserToResponse(list[i])
	}
	return out
}
