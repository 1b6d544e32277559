package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"gorm.io/gorm"

	"orgst/models"
	"orgst/utils"
)

const DefaultInviteExpiryDays = 7

// profileStaffRoles mark restricted staff accounts: is_staff without superuser,
// limited to managing their own profile.
var profileStaffRoles = map[string]bool{
	"mentor":    true,
	"mentorado": true,
}

// adminProvisionAllowedRoles gates the admin-only provisioning path.
var adminProvisionAllowedRoles = map[string]bool{
	"mentor":    true,
	"mentorado": true,
}

// CreatedInvitation carries the plaintext token alongside the stored
// invitation. The token is only available here, at creation time.
type CreatedInvitation struct {
	Invitation *models.Invitation
	Token      string
}

// CreateInvitation issues a pending invitation for the given email, granting
// the given roles on acceptance. Unknown role keys are silently ignored. The
// returned token is unrecoverable after this call.
func CreateInvitation(db *gorm.DB, invitedBy *models.User, email string, roleKeys []string, expiresInDays int) (*CreatedInvitation, error) {
	if expiresInDays <= 0 {
		expiresInDays = DefaultInviteExpiryDays
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}

	token, err := utils.GenerateInviteToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv := models.Invitation{
		Email:       email,
		TokenHash:   utils.HashInviteToken(token),
		Status:      models.InvitationPending,
		InvitedByID: &invitedBy.ID,
		ExpiresAt:   models.DefaultExpiresAt(expiresInDays),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		var roles []models.Role
		if len(roleKeys) > 0 {
			if err := tx.Where("key IN ?", roleKeys).Find(&roles).Error; err != nil {
				return err
			}
		}
		for _, role := range roles {
			if err := tx.Create(&models.InvitationRole{
				InvitationID: inv.ID,
				RoleID:       role.ID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := db.Preload("Roles.Role").First(&inv, inv.ID).Error; err != nil {
		return nil, err
	}
	return &CreatedInvitation{Invitation: &inv, Token: token}, nil
}

// ValidateInvitationToken resolves a plaintext token to its pending
// invitation. Returns nil when the token is unknown or the invitation is no
// longer pending. An invitation found past its deadline is flipped to expired
// here; expiry is discovered lazily on access, not by a background sweep.
func ValidateInvitationToken(db *gorm.DB, token string) (*models.Invitation, error) {
	var inv models.Invitation
	err := db.Preload("Roles.Role").
		Where("token_hash = ?", utils.HashInviteToken(token)).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if inv.Status != models.InvitationPending {
		return nil, nil
	}
	if inv.IsExpired() {
		if err := db.Model(&inv).Update("status", models.InvitationExpired).Error; err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &inv, nil
}

// AcceptInvitation redeems a pending token: creates the account and profile,
// attaches the invitation's roles and marks the invitation accepted, all in
// one transaction. A token that does not resolve to a pending, unexpired
// invitation fails with ErrInvalidOrExpiredInvitation.
func AcceptInvitation(db *gorm.DB, token, password, displayName string) (*models.User, error) {
	// Validated outside the transaction so a lazy expiry flip survives the
	// rejection below.
	inv, err := ValidateInvitationToken(db, token)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvalidOrExpiredInvitation
	}

	var user models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		// Re-read under lock: a concurrent acceptor must not redeem the same
		// token twice.
		var locked models.Invitation
		if err := lockForUpdate(tx).First(&locked, inv.ID).Error; err != nil {
			return err
		}
		if locked.Status != models.InvitationPending {
			return ErrInvalidOrExpiredInvitation
		}

		username, err := makeUsername(tx, inv.Email)
		if err != nil {
			return err
		}

		user = models.User{
			Username:    username,
			Email:       inv.Email,
			IsActive:    true,
			IsStaff:     hasAnyKey(inv.RoleKeys(), profileStaffRoles),
			IsSuperuser: false,
		}
		if err := user.SetPassword(password); err != nil {
			return err
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.Profile{
			UserID:      user.ID,
			DisplayName: displayName,
		}).Error; err != nil {
			return err
		}

		for _, ir := range inv.Roles {
			if err := tx.Create(&models.UserRole{
				UserID: user.ID,
				RoleID: ir.RoleID,
			}).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		return tx.Model(&locked).Updates(map[string]interface{}{
			"status":         models.InvitationAccepted,
			"accepted_by_id": user.ID,
			"accepted_at":    now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ProvisionAdminOnlyInvitation grants restricted staff access without the
// public acceptance flow. The invitation must be pending, unexpired, and carry
// at least one role from the admin-only allowed set. The returned temporary
// password is shown to the provisioner once and never re-derivable.
func ProvisionAdminOnlyInvitation(db *gorm.DB, invitationID uint, provisionedBy *models.User) (*models.User, string, error) {
	var inv models.Invitation
	if err := db.Preload("Roles.Role").First(&inv, invitationID).Error; err != nil {
		return nil, "", err
	}

	if inv.Status != models.InvitationPending {
		return nil, "", ErrInvitationNotPending
	}
	if inv.IsExpired() {
		// The flip must survive the rejection, so it happens outside the
		// provisioning transaction.
		if err := db.Model(&inv).Update("status", models.InvitationExpired).Error; err != nil {
			return nil, "", err
		}
		return nil, "", ErrInvalidOrExpiredInvitation
	}

	var allowed []models.InvitationRole
	for _, ir := range inv.Roles {
		if adminProvisionAllowedRoles[ir.Role.Key] {
			allowed = append(allowed, ir)
		}
	}
	if len(allowed) == 0 {
		return nil, "", ErrRoleNotAllowed
	}

	tempPassword, err := utils.GenerateTempPassword()
	if err != nil {
		return nil, "", err
	}

	var user models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", inv.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			username, uerr := makeUsername(tx, inv.Email)
			if uerr != nil {
				return uerr
			}
			user = models.User{
				Username: username,
				Email:    inv.Email,
				IsActive: true,
			}
			if cerr := tx.Create(&user).Error; cerr != nil {
				return cerr
			}
		} else if err != nil {
			return err
		}

		if err := user.SetPassword(tempPassword); err != nil {
			return err
		}
		user.IsStaff = true
		user.IsSuperuser = false
		user.MustChangePassword = true
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		profile := models.Profile{UserID: user.ID, DisplayName: emailLocalPart(inv.Email)}
		if err := tx.Where("user_id = ?", user.ID).FirstOrCreate(&profile).Error; err != nil {
			return err
		}

		for _, ir := range allowed {
			userRole := models.UserRole{UserID: user.ID, RoleID: ir.RoleID}
			if err := tx.Where("user_id = ? AND role_id = ?", user.ID, ir.RoleID).
				FirstOrCreate(&userRole).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":         models.InvitationAccepted,
			"accepted_by_id": user.ID,
			"accepted_at":    time.Now(),
		}
		if inv.InvitedByID == nil {
			updates["invited_by_id"] = provisionedBy.ID
		}
		return tx.Model(&inv).Updates(updates).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &user, tempPassword, nil
}

// RevokeInvitation administratively closes a pending invitation. Terminal
// states stay terminal.
func RevokeInvitation(db *gorm.DB, invitationID uint) error {
	var inv models.Invitation
	if err := db.First(&inv, invitationID).Error; err != nil {
		return err
	}
	if inv.Status != models.InvitationPending {
		return ErrInvitationNotPending
	}
	return db.Model(&inv).Update("status", models.InvitationRevoked).Error
}

var usernameCleaner = regexp.MustCompile(`[^a-z0-9-]+`)

// makeUsername derives a username from the email local part, disambiguating
// collisions with an incrementing numeric suffix.
func makeUsername(tx *gorm.DB, email string) (string, error) {
	base := strings.ToLower(emailLocalPart(email))
	base = usernameCleaner.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")
	if len(base) > 25 {
		base = base[:25]
	}
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, i)
		if len(candidate) > 30 {
			candidate = candidate[:30]
		}
	}
}

func emailLocalPart(email string) string {
	if at := strings.IndexByte(email, '@'); at > 0 {
		return email[:at]
	}
	return email
}

func hasAnyKey(keys []string, set map[string]bool) bool {
	for _, k := range keys {
		if set[k] {
			return true
		}
	}
	return false
}
