package models

import (
	"time"

	"gorm.io/gorm"
)

// Task priorities
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
	PriorityUrgent = 4
)

// Board is the Kanban board of a project. Exactly one board per project.
type Board struct {
	gorm.Model
	ProjectID uint   `gorm:"uniqueIndex;not null" json:"project_id"`
	Name      string `gorm:"default:'Board'" json:"name"`

	Project Project  `json:"-"`
	Columns []Column `gorm:"foreignKey:BoardID" json:"columns,omitempty"`
}

// Column is an ordered lane inside a board.
//
// Positions among non-archived columns of a board are compact 1..N. The
// ordering services are the only position writers; (board_id, position) is a
// plain index because the relative bulk shifts would trip a non-deferred
// unique constraint mid-statement.
type Column struct {
	gorm.Model
	BoardID    uint    `gorm:"not null;index:idx_column_board_position" json:"board_id"`
	Name       string  `gorm:"not null" json:"name"`
	Position   int     `gorm:"not null;index:idx_column_board_position" json:"position"`
	WIPLimit   *int    `json:"wip_limit,omitempty"`
	Color      *string `json:"color,omitempty"`
	IsArchived bool    `gorm:"default:false" json:"is_archived"`

	Board Board  `json:"-"`
	Tasks []Task `gorm:"foreignKey:ColumnID" json:"tasks,omitempty"`
}

// Task is a work item on a project's board.
//
// ProjectID is stored redundantly (column -> board -> project) so cross-project
// guards and project-wide queries stay single-hop. Positions within a column
// are compact 1..N.
type Task struct {
	gorm.Model
	ProjectID uint `gorm:"not null;index:idx_task_project_column" json:"project_id"`
	ColumnID  uint `gorm:"not null;index:idx_task_column_position;index:idx_task_project_column" json:"column_id"`
	Position  int  `gorm:"not null;index:idx_task_column_position" json:"position"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	Priority    int        `gorm:"default:2" json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	AssigneeID  *uint `gorm:"index" json:"assignee_id,omitempty"`
	CreatedByID uint  `gorm:"not null" json:"created_by_id"`

	Project   Project   `json:"-"`
	Column    Column    `json:"-"`
	Assignee  *User     `gorm:"foreignKey:AssigneeID" json:"-"`
	CreatedBy User      `gorm:"foreignKey:CreatedByID" json:"-"`
	TaskTags  []TaskTag `gorm:"foreignKey:TaskID" json:"tags,omitempty"`
}

// TaskComment is an immutable note attached to a task
type TaskComment struct {
	gorm.Model
	TaskID   uint   `gorm:"not null;index" json:"task_id"`
	AuthorID uint   `gorm:"not null" json:"author_id"`
	Content  string `gorm:"not null" json:"content"`

	Task   Task `json:"-"`
	Author User `gorm:"foreignKey:AuthorID" json:"-"`
}

// Tag is a project-scoped label for tasks
type Tag struct {
	gorm.Model
	ProjectID uint    `gorm:"not null;index;uniqueIndex:uniq_tag_per_project" json:"project_id"`
	Name      string  `gorm:"not null;uniqueIndex:uniq_tag_per_project" json:"name"`
	Color     *string `json:"color,omitempty"`

	Project Project `json:"-"`
}

// TaskTag links tasks to tags
type TaskTag struct {
	gorm.Model
	TaskID uint `gorm:"not null;index;uniqueIndex:uniq_task_tag" json:"task_id"`
	TagID  uint `gorm:"not null;index;uniqueIndex:uniq_task_tag" json:"tag_id"`

	Task Task `json:"-"`
	Tag  Tag  `json:"tag"`
}
