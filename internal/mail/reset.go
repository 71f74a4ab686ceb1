package mail

import "fmt"

// ResetPasswordSubject 重置密码邮件标题
const ResetPasswordSubject = "Password reset request"

// ResetPasswordText builds the plaintext body of the password-reset mail.
// The link carries the unhashed token; only its hash is ever stored.
func ResetPasswordText(username, resetURL string) string {
	return fmt.Sprintf(
		"Hi %s,\n\n"+
			"You have received this email because a password reset request for your account was received.\n\n"+
			"Open the link below to reset your password:\n%s\n\n"+
			"If you did not request a password reset, you can safely ignore this email.\n",
		username, resetURL)
}

// ResetPasswordHTML builds the HTML body of the password-reset mail.
func ResetPasswordHTML(username, resetURL string) string {
	return fmt.Sprintf(
		`<p>Hi %s,</p>
<p>You have received this email because a password reset request for your account was received.</p>
<p><a href="%s" style="background:#EE3266;color:#fff;padding:10px 20px;border-radius:4px;text-decoration:none">Reset your password</a></p>
<p>If you did not request a password reset, you can safely ignore this email.</p>`,
		username, resetURL)
}
