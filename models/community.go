package models

import "gorm.io/gorm"

// Skill categories
const (
	SkillBackend  = "backend"
	SkillFrontend = "frontend"
	SkillDevops   = "devops"
	SkillQA       = "qa"
	SkillSQL      = "sql"
	SkillPM       = "pm"
	SkillDesign   = "design"
	SkillOther    = "other"
)

// Skill is a catalog entry members can attach to their profile
type Skill struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Category string `gorm:"default:'other';index:idx_skill_category_name" json:"category"`
}

// UserSkill records a member's proficiency in a skill
type UserSkill struct {
	gorm.Model
	UserID  uint `gorm:"not null;index;uniqueIndex:uniq_user_skill" json:"user_id"`
	SkillID uint `gorm:"not null;index;uniqueIndex:uniq_user_skill" json:"skill_id"`

	Level     int  `gorm:"default:1" json:"level"` // 1..5
	YearsExp  int  `gorm:"default:0" json:"years_exp"`
	CanMentor bool `gorm:"default:false" json:"can_mentor"`

	User  User  `json:"-"`
	Skill Skill `json:"skill"`
}
