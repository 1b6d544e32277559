package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"orgst/config"
)

// SendInvitationEmail delivers an invitation link to the invitee. Delivery is
// best effort: the invitation row is already committed when this runs, and a
// failed send can be retried by re-issuing the invite.
func SendInvitationEmail(to, token string, expiresInDays int) error {
	cfg := config.AppConfig.SMTP
	if cfg.Host == "" {
		return fmt.Errorf("SMTP configuration not initialized")
	}

	link := fmt.Sprintf("%s?token=%s", config.AppConfig.InviteURLBase, token)
	body := fmt.Sprintf(`
		<html>
		<body>
			<h2>You have been invited</h2>
			<p>Use the link below to create your account:</p>
			<p><a href="%s">%s</a></p>
			<p>This invitation expires in %d days.</p>
		</body>
		</html>
	`, link, link, expiresInDays)

	m := gomail.NewMessage()
	m.SetHeader("From", cfg.FromEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your invitation to the community")
	m.SetBody("text/html", body)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	return nil
}
