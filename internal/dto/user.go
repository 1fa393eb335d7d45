package dto

import (
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
)

// CreateUserRequest defines the payload to provision a new account.
type CreateUserRequest struct {
	Name      string  `json:"name" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Role      string  `json:"role" binding:"required,oneof=ADMIN ENGINEER TECHNICIAN"`
	Phone     string  `json:"phone"`
	JobTitle  string  `json:"jobTitle"`
	AvatarURL string  `json:"avatarUrl"`
	ManagerID *string `json:"managerId"`
}

// UserResponse defines the data returned for a user. No credential material.
type UserResponse struct {
	UserID    string  `json:"userID"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	Phone     string  `json:"phone,omitempty"`
	JobTitle  string  `json:"jobTitle,omitempty"`
	AvatarURL string  `json:"avatarUrl,omitempty"`
	ManagerID *string `json:"managerId,omitempty"`
}

// ToUserResponse converts a domain.User to UserResponse DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		JobTitle:  u.JobTitle,
		AvatarURL: u.AvatarURL,
		ManagerID: u.ManagerID,
	}
}

// ToUserResponses converts a slice of domain.User to []UserResponse.
func ToUserResponses(users []domain.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
