package services

import (
	"gorm.io/gorm"

	"orgst/models"
)

// CreateProject creates a project, its owner membership and its default board
// in one transaction.
func CreateProject(db *gorm.DB, owner *models.User, name string, description *string) (*models.Project, error) {
	var project models.Project
	err := db.Transaction(func(tx *gorm.DB) error {
		project = models.Project{
			Name:        name,
			Description: description,
			Status:      models.ProjectActive,
			OwnerID:     owner.ID,
			CreatedByID: &owner.ID,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.ProjectMember{
			ProjectID: project.ID,
			UserID:    owner.ID,
			Role:      models.MemberRoleOwner,
		}).Error; err != nil {
			return err
		}

		_, err := CreateDefaultBoard(tx, project.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListProjectsFor returns the projects the user is a member of
func ListProjectsFor(db *gorm.DB, user *models.User) ([]models.Project, error) {
	var projects []models.Project
	err := db.
		Where("id IN (?)",
			db.Model(&models.ProjectMember{}).
				Select("project_id").
				Where("user_id = ?", user.ID)).
		Order("id").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetBoard returns the project's board with columns and tasks ordered by
// position. Archived columns are excluded.
func GetBoard(db *gorm.DB, projectID uint) (*models.Board, error) {
	board, err := CreateDefaultBoard(db, projectID)
	if err != nil {
		return nil, err
	}
	err = db.
		Preload("Columns", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_archived = ?", false).Order("position")
		}).
		Preload("Columns.Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		First(board, board.ID).Error
	if err != nil {
		return nil, err
	}
	return board, nil
}
