package services

import (
	"gorm.io/gorm"

	"orgst/models"
)

// Actions understood by Allowed
const (
	ActionProjectRead      = "project.read"
	ActionProjectWrite     = "project.write"
	ActionInvitationCreate = "invitation.create"
	ActionDocumentRead     = "document.read"
)

// IsProjectMember reports whether the user has a membership row for the
// project.
func IsProjectMember(db *gorm.DB, user *models.User, projectID uint) bool {
	if user == nil {
		return false
	}
	var count int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, user.ID).
		Count(&count)
	return count > 0
}

// CanWriteProject reports whether the user holds an owner or admin membership
// on the project. Plain members are read-only.
func CanWriteProject(db *gorm.DB, user *models.User, projectID uint) bool {
	if user == nil {
		return false
	}
	var count int64
	db.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ? AND role IN ?",
			projectID, user.ID, []string{models.MemberRoleOwner, models.MemberRoleAdmin}).
		Count(&count)
	return count > 0
}

// UserHasAnyRole reports whether the user holds at least one of the given
// role keys.
func UserHasAnyRole(db *gorm.DB, user *models.User, keys ...string) bool {
	if user == nil || len(keys) == 0 {
		return false
	}
	var count int64
	db.Model(&models.UserRole{}).
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id = ? AND roles.key IN ?", user.ID, keys).
		Count(&count)
	return count > 0
}

// CanCreateInvitation is true for superusers and holders of an admin or
// cofounder role.
func CanCreateInvitation(db *gorm.DB, user *models.User) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	return UserHasAnyRole(db, user, "admin", "cofounder")
}

// IsProfileStaff reports whether the user is restricted staff: staff without
// superuser, holding a profile-staff role.
func IsProfileStaff(db *gorm.DB, user *models.User) bool {
	if user == nil || !user.IsStaff || user.IsSuperuser {
		return false
	}
	return UserHasAnyRole(db, user, "mentor", "mentorado")
}

// Allowed is the single {subject, action, target} permission check. Targets
// are the project ID for project actions, the document for document reads,
// and ignored otherwise. Unknown actions deny.
func Allowed(db *gorm.DB, user *models.User, action string, target interface{}) bool {
	switch action {
	case ActionProjectRead:
		projectID, ok := target.(uint)
		return ok && IsProjectMember(db, user, projectID)
	case ActionProjectWrite:
		projectID, ok := target.(uint)
		return ok && CanWriteProject(db, user, projectID)
	case ActionInvitationCreate:
		return CanCreateInvitation(db, user)
	case ActionDocumentRead:
		doc, ok := target.(*models.Document)
		return ok && CanViewDocument(db, user, doc)
	default:
		return false
	}
}
