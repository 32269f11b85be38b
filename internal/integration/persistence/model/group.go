package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/cashsplit/backend/internal/domain/entity"
)

// GroupModel represents the groups table in the database.
type GroupModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GroupModel.
func (GroupModel) TableName() string {
	return "groups"
}

// ToEntity converts a GroupModel to a domain Group entity.
func (m *GroupModel) ToEntity() *entity.Group {
	return &entity.Group{
		ID:        m.ID,
		Name:      m.Name,
		CreatedBy: m.CreatedBy,
		Version:   m.Version,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GroupFromEntity creates a GroupModel from a domain Group entity.
func GroupFromEntity(group *entity.Group) *GroupModel {
	return &GroupModel{
		ID:        group.ID,
		Name:      group.Name,
		CreatedBy: group.CreatedBy,
		Version:   group.Version,
		CreatedAt: group.CreatedAt,
		UpdatedAt: group.UpdatedAt,
	}
}

// GroupMemberModel represents the group_members table in the database.
type GroupMemberModel struct {
	ID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	GroupID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_member"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_group_member;index"`
	Role     string     `gorm:"type:varchar(20);not null"`
	Status   string     `gorm:"type:varchar(20);not null;default:'active'"`
	JoinedAt time.Time  `gorm:"not null"`
	LeftAt   *time.Time
	User     UserModel  `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for the GroupMemberModel.
func (GroupMemberModel) TableName() string {
	return "group_members"
}

// ToEntity converts a GroupMemberModel to a domain GroupMember entity.
// User fields are filled only when the User association was preloaded.
func (m *GroupMemberModel) ToEntity() *entity.GroupMember {
	return &entity.GroupMember{
		ID:        m.ID,
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Role:      entity.MemberRole(m.Role),
		Status:    entity.MemberStatus(m.Status),
		JoinedAt:  m.JoinedAt,
		LeftAt:    m.LeftAt,
		UserName:  m.User.Name,
		UserEmail: m.User.Email,
		UserUPIID: m.User.UPIID,
	}
}

// GroupMemberFromEntity creates a GroupMemberModel from a domain GroupMember entity.
func GroupMemberFromEntity(member *entity.GroupMember) *GroupMemberModel {
	return &GroupMemberModel{
		ID:       member.ID,
		GroupID:  member.GroupID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		Status:   string(member.Status),
		JoinedAt: member.JoinedAt,
		LeftAt:   member.LeftAt,
	}
}
