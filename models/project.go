package models

import "gorm.io/gorm"

// Project status values
const (
	ProjectActive = "active"
	ProjectPaused = "paused"
	ProjectDone   = "done"
)

// Project member roles
const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

// Project is a workspace that groups members, a single Kanban board and all
// related tasks and tags.
type Project struct {
	gorm.Model
	Name        string  `gorm:"uniqueIndex;not null" json:"name"`
	Description *string `json:"description,omitempty"`
	Status      string  `gorm:"default:'active'" json:"status"`

	OwnerID     uint  `gorm:"not null;index" json:"owner_id"`
	CreatedByID *uint `gorm:"index" json:"created_by_id,omitempty"`

	// Relations
	Owner       User            `gorm:"foreignKey:OwnerID" json:"-"`
	CreatedBy   *User           `gorm:"foreignKey:CreatedByID" json:"-"`
	Memberships []ProjectMember `gorm:"foreignKey:ProjectID" json:"memberships,omitempty"`
	Tasks       []Task          `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
	Tags        []Tag           `gorm:"foreignKey:ProjectID" json:"tags,omitempty"`
}

// ProjectMember ties a user to a project with a project-scoped role
type ProjectMember struct {
	gorm.Model
	ProjectID uint   `gorm:"not null;index;uniqueIndex:uniq_project_member" json:"project_id"`
	UserID    uint   `gorm:"not null;index;uniqueIndex:uniq_project_member" json:"user_id"`
	Role      string `gorm:"default:'member'" json:"role"` // owner, admin, member

	Project Project `json:"-"`
	User    User    `json:"-"`
}
