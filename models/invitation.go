package models

import (
	"time"

	"gorm.io/gorm"
)

// Invitation status values. Transitions only ever leave pending; accepted,
// expired and revoked are terminal.
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
	InvitationExpired  = "expired"
	InvitationRevoked  = "revoked"
)

// Invitation is an email invite into the platform. Only the keyed digest of
// the invite token is stored; the plaintext token is returned once at
// creation and is unrecoverable afterwards.
type Invitation struct {
	gorm.Model

	Email     string `gorm:"not null;index:idx_invitation_email_status" json:"email"`
	TokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	Status    string `gorm:"default:'pending';index:idx_invitation_email_status" json:"status"`

	InvitedByID  *uint      `json:"invited_by_id,omitempty"`
	AcceptedByID *uint      `json:"accepted_by_id,omitempty"`
	ExpiresAt    time.Time  `gorm:"not null;index" json:"expires_at"`
	AcceptedAt   *time.Time `json:"accepted_at,omitempty"`

	// Relations
	InvitedBy  *User            `gorm:"foreignKey:InvitedByID" json:"-"`
	AcceptedBy *User            `gorm:"foreignKey:AcceptedByID" json:"-"`
	Roles      []InvitationRole `gorm:"foreignKey:InvitationID" json:"roles,omitempty"`
}

// IsExpired reports whether the invitation deadline has passed
func (i *Invitation) IsExpired() bool {
	return !time.Now().Before(i.ExpiresAt)
}

// RoleKeys returns the role keys attached to the invitation. Roles and their
// Role relation must be preloaded.
func (i *Invitation) RoleKeys() []string {
	keys := make([]string, 0, len(i.Roles))
	for _, ir := range i.Roles {
		keys = append(keys, ir.Role.Key)
	}
	return keys
}

// DefaultExpiresAt returns the expiry deadline for a new invitation
func DefaultExpiresAt(days int) time.Time {
	return time.Now().Add(time.Duration(days) * 24 * time.Hour)
}

// InvitationRole links invitations to the roles they grant on acceptance
type InvitationRole struct {
	gorm.Model
	InvitationID uint `gorm:"not null;index;uniqueIndex:uniq_invitation_role" json:"invitation_id"`
	RoleID       uint `gorm:"not null;index;uniqueIndex:uniq_invitation_role" json:"role_id"`

	Invitation Invitation `json:"-"`
	Role       Role       `json:"role"`
}
