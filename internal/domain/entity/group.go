package entity

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole represents the role of a member in a group.
type MemberRole string

const (
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)

// MemberStatus tells whether a member still takes part in new expenses.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
)

// Group is a set of people sharing expenses. Version increases on every
// change to the group's ledger or membership.
type Group struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGroup creates a new Group entity.
func NewGroup(name string, createdBy uuid.UUID) *Group {
	now := time.Now().UTC()

	return &Group{
		ID:        uuid.New(),
		Name:      name,
		CreatedBy: createdBy,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// GroupMember represents a member of a group. Members are never removed,
// leaving only flips Status to inactive.
type GroupMember struct {
	ID       uuid.UUID
	GroupID  uuid.UUID
	UserID   uuid.UUID
	Role     MemberRole
	Status   MemberStatus
	JoinedAt time.Time
	LeftAt   *time.Time
	// User information (populated when needed)
	UserName  string
	UserEmail string
	UserUPIID string
}

// NewGroupMember creates a new active GroupMember entity.
func NewGroupMember(groupID, userID uuid.UUID, role MemberRole) *GroupMember {
	return &GroupMember{
		ID:       uuid.New(),
		GroupID:  groupID,
		UserID:   userID,
		Role:     role,
		Status:   MemberStatusActive,
		JoinedAt: time.Now().UTC(),
	}
}

// IsActive reports whether the member can join new splits.
func (m *GroupMember) IsActive() bool {
	return m.Status == MemberStatusActive
}

// Leave marks the member inactive.
func (m *GroupMember) Leave() {
	now := time.Now().UTC()
	m.Status = MemberStatusInactive
	m.LeftAt = &now
}

// Rejoin makes a member who left active again.
func (m *GroupMember) Rejoin() {
	m.Status = MemberStatusActive
	m.LeftAt = nil
	m.JoinedAt = time.Now().UTC()
}

// GroupListItem represents a group in a list view.
type GroupListItem struct {
	ID          uuid.UUID
	Name        string
	MemberCount int
	Role        MemberRole
	Status      MemberStatus
	Balance     int64
	CreatedAt   time.Time
}
