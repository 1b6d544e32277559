package services

import (
	"errors"

	"gorm.io/gorm"

	"orgst/models"
)

// UserSkillInput is one entry of a skill-set replacement
type UserSkillInput struct {
	SkillID   uint `json:"skill_id" validate:"required"`
	Level     int  `json:"level"`
	YearsExp  int  `json:"years_exp"`
	CanMentor bool `json:"can_mentor"`
}

// ListMembers returns directory entries with profile, roles and skills
// preloaded. q matches email or display name; role and skills filter by role
// key and skill names.
func ListMembers(db *gorm.DB, q, role string, skills []string) ([]models.User, error) {
	query := db.Model(&models.User{}).
		Preload("Profile").
		Preload("UserRoles.Role").
		Preload("Skills.Skill")

	if q != "" {
		query = query.
			Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
			Where("users.email LIKE ? OR profiles.display_name LIKE ?", "%"+q+"%", "%"+q+"%")
	}
	if role != "" {
		query = query.Where(
			"users.id IN (?)",
			db.Model(&models.UserRole{}).
				Select("user_roles.user_id").
				Joins("JOIN roles ON roles.id = user_roles.role_id").
				Where("roles.key = ?", role),
		)
	}
	if len(skills) > 0 {
		query = query.Where(
			"users.id IN (?)",
			db.Model(&models.UserSkill{}).
				Select("user_skills.user_id").
				Joins("JOIN skills ON skills.id = user_skills.skill_id").
				Where("skills.name IN ?", skills),
		)
	}

	var users []models.User
	if err := query.Order("users.id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetMember returns nil when the user does not exist
func GetMember(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	err := db.Preload("Profile").
		Preload("UserRoles.Role").
		Preload("Skills.Skill").
		First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ReplaceUserSkills swaps the user's entire skill set for the given items.
// Unknown skill IDs are skipped; level is clamped to 1..5 and years_exp to
// zero or more. Idempotent PUT semantics.
func ReplaceUserSkills(db *gorm.DB, user *models.User, items []UserSkillInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Hard delete: a soft-deleted row would still occupy the
		// (user_id, skill_id) unique index.
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.UserSkill{}).Error; err != nil {
			return err
		}

		ids := make([]uint, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.SkillID)
		}
		var known []models.Skill
		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Find(&known).Error; err != nil {
				return err
			}
		}
		knownIDs := make(map[uint]bool, len(known))
		for _, s := range known {
			knownIDs[s.ID] = true
		}

		for _, item := range items {
			if !knownIDs[item.SkillID] {
				continue
			}
			if err := tx.Create(&models.UserSkill{
				UserID:    user.ID,
				SkillID:   item.SkillID,
				Level:     clamp(item.Level, 1, 5),
				YearsExp:  max(item.YearsExp, 0),
				CanMentor: item.CanMentor,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
