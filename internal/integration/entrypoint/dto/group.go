package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// CreateGroupRequest represents the request body for group creation.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AddMemberRequest represents the request body for adding a member.
type AddMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VersionResponse is returned by mutations that only change the group version.
type VersionResponse struct {
	Version int64 `json:"version"`
}

// UserSummaryResponse is the display data of a user referenced by a group.
type UserSummaryResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	UPIID  string `json:"upiId,omitempty"`
	Active *bool  `json:"active,omitempty"`
}

// GroupResponse represents a single group in API responses.
type GroupResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	CreatedBy string                `json:"createdBy"`
	CreatedAt time.Time             `json:"createdAt"`
	Version   int64                 `json:"version"`
	Members   []GroupMemberResponse `json:"members,omitempty"`
}

// GroupListResponse represents the response for listing groups.
type GroupListResponse struct {
	Groups []GroupListItemResponse `json:"groups"`
}

// GroupListItemResponse represents a group in list view. Balance is the
// caller's net position in the group.
type GroupListItemResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	MemberCount int         `json:"memberCount"`
	Role        string      `json:"role"`
	Status      string      `json:"status"`
	Balance     json.Number `json:"balance"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// GroupDetailResponse represents detailed group information.
type GroupDetailResponse struct {
	ID              string                `json:"id"`
	Name            string                `json:"name"`
	CreatedBy       string                `json:"createdBy"`
	CreatedAt       time.Time             `json:"createdAt"`
	Version         int64                 `json:"version"`
	UserRole        string                `json:"userRole"`
	Members         []GroupMemberResponse `json:"members"`
	InactiveMembers []GroupMemberResponse `json:"inactiveMembers"`
	Expenses        []ExpenseResponse     `json:"expenses"`
}

// GroupMemberResponse represents a group member in API responses.
type GroupMemberResponse struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	UPIID    string     `json:"upiId,omitempty"`
	Role     string     `json:"role"`
	Status   string     `json:"status"`
	JoinedAt time.Time  `json:"joinedAt"`
	LeftAt   *time.Time `json:"leftAt,omitempty"`
}

// AddMemberResponse is returned after a member joins or rejoins a group.
type AddMemberResponse struct {
	Member  GroupMemberResponse `json:"member"`
	Version int64               `json:"version"`
}

// ToGroupResponse converts a domain Group entity to a GroupResponse DTO.
func ToGroupResponse(group *entity.Group, members []*entity.GroupMember) GroupResponse {
	response := GroupResponse{
		ID:        group.ID.String(),
		Name:      group.Name,
		CreatedBy: group.CreatedBy.String(),
		CreatedAt: group.CreatedAt,
		Version:   group.Version,
		Members:   make([]GroupMemberResponse, len(members)),
	}

	for i, m := range members {
		response.Members[i] = ToGroupMemberResponse(m)
	}

	return response
}

// ToGroupListResponse converts a list of GroupListItem to GroupListResponse.
func ToGroupListResponse(groups []*entity.GroupListItem) GroupListResponse {
	items := make([]GroupListItemResponse, len(groups))
	for i, g := range groups {
		items[i] = GroupListItemResponse{
			ID:          g.ID.String(),
			Name:        g.Name,
			MemberCount: g.MemberCount,
			Role:        string(g.Role),
			Status:      string(g.Status),
			Balance:     Amount(g.Balance),
			CreatedAt:   g.CreatedAt,
		}
	}
	return GroupListResponse{
		Groups: items,
	}
}

// ToGroupDetailResponse converts group data to a detailed response.
func ToGroupDetailResponse(group *entity.Group, role entity.MemberRole, active, inactive []*entity.GroupMember, expenses []*entity.Expense) GroupDetailResponse {
	response := GroupDetailResponse{
		ID:              group.ID.String(),
		Name:            group.Name,
		CreatedBy:       group.CreatedBy.String(),
		CreatedAt:       group.CreatedAt,
		Version:         group.Version,
		UserRole:        string(role),
		Members:         make([]GroupMemberResponse, len(active)),
		InactiveMembers: make([]GroupMemberResponse, len(inactive)),
		Expenses:        make([]ExpenseResponse, len(expenses)),
	}

	for i, m := range active {
		response.Members[i] = ToGroupMemberResponse(m)
	}
	for i, m := range inactive {
		response.InactiveMembers[i] = ToGroupMemberResponse(m)
	}

	lookup := NewMemberLookup(append(append([]*entity.GroupMember{}, active...), inactive...))
	for i, e := range expenses {
		response.Expenses[i] = ToExpenseResponse(e, lookup)
	}

	return response
}

// ToGroupMemberResponse converts a domain GroupMember entity to a GroupMemberResponse DTO.
func ToGroupMemberResponse(member *entity.GroupMember) GroupMemberResponse {
	return GroupMemberResponse{
		ID:       member.ID.String(),
		UserID:   member.UserID.String(),
		Name:     member.UserName,
		Email:    member.UserEmail,
		UPIID:    member.UserUPIID,
		Role:     string(member.Role),
		Status:   string(member.Status),
		JoinedAt: member.JoinedAt,
		LeftAt:   member.LeftAt,
	}
}

// MemberLookup resolves user ids to display data for nested responses.
type MemberLookup map[uuid.UUID]*entity.GroupMember

// NewMemberLookup indexes members by user id.
func NewMemberLookup(members []*entity.GroupMember) MemberLookup {
	lookup := make(MemberLookup, len(members))
	for _, m := range members {
		lookup[m.UserID] = m
	}
	return lookup
}

// User returns the summary of userID, falling back to the bare id when the
// user is not a member.
func (l MemberLookup) User(userID uuid.UUID) UserSummaryResponse {
	m, ok := l[userID]
	if !ok {
		return UserSummaryResponse{ID: userID.String()}
	}
	active := m.IsActive()
	return UserSummaryResponse{
		ID:     userID.String(),
		Name:   m.UserName,
		Email:  m.UserEmail,
		UPIID:  m.UserUPIID,
		Active: &active,
	}
}
