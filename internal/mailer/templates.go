package mailer

import (
	"fmt"
	"time"
)

func wrap(heading, inner string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>%s</h2>
    %s
    <p style="color: #888; font-size: 12px;">Hireloop — interview scheduling</p>
  </div>
</body>
</html>`, heading, inner)
}

func VerificationEmail(name, token string) (subject, html string) {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
    <p>Confirm your email address to activate your account:</p>
    <p><code>%s</code></p>
    <p>If you did not sign up, ignore this message.</p>`, name, token)
	return "[Hireloop] Verify your email", wrap("Verify your email", inner)
}

func PasswordResetEmail(name, token string) (subject, html string) {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
    <p>Use this token to reset your password. It expires in one hour:</p>
    <p><code>%s</code></p>`, name, token)
	return "[Hireloop] Password reset", wrap("Password reset", inner)
}

func InviteEmail(name, title, tempPassword string, at time.Time) (subject, html string) {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
    <p>You have been invited to the interview <strong>%s</strong> on %s.</p>
    <p>An account was created for you. Temporary password:</p>
    <p><code>%s</code></p>
    <p>Please log in and change it before the interview.</p>`,
		name, title, at.Format("Mon, 02 Jan 2006 15:04 MST"), tempPassword)
	return "[Hireloop] Interview invitation", wrap("You're invited", inner)
}

func ScheduleEmail(name, title string, at time.Time) (subject, html string) {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
    <p>The interview <strong>%s</strong> has been scheduled for %s.</p>`,
		name, title, at.Format("Mon, 02 Jan 2006 15:04 MST"))
	return "[Hireloop] Interview scheduled", wrap("Interview scheduled", inner)
}

func ReminderEmail(name, title string, at time.Time) (subject, html string) {
	inner := fmt.Sprintf(`<p>Hi %s,</p>
    <p>Reminder: the interview <strong>%s</strong> starts at %s.</p>`,
		name, title, at.Format("15:04 MST"))
	return "[Hireloop] Interview starting soon", wrap("Starting soon", inner)
}
