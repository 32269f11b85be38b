package dto

import "github.com/cashsplit/backend/internal/domain/entity"

// UpdateProfileRequest represents the request body for a profile update.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
	UPIID string `json:"upiId" binding:"omitempty,upi"`
}

// SuggestionListResponse lists users the caller already shares a group with.
type SuggestionListResponse struct {
	Users []UserSummaryResponse `json:"users"`
}

// ToSuggestionListResponse converts users into the suggestions response.
func ToSuggestionListResponse(users []*entity.User) SuggestionListResponse {
	items := make([]UserSummaryResponse, len(users))
	for i, u := range users {
		items[i] = UserSummaryResponse{
			ID:    u.ID.String(),
			Name:  u.Name,
			Email: u.Email,
			UPIID: u.UPIID,
		}
	}
	return SuggestionListResponse{Users: items}
}
