package mail

import (
	"fmt"

	"github.com/KatanaSword/portfolio/internal/config"

	gomail "gopkg.in/gomail.v2"
)

// Mailer is the SMTP collaborator. A send failure must not corrupt state
// already persisted by the caller.
type Mailer interface {
	Send(to, subject, text, html string) error
}

// SMTPMailer 通过 SMTP 发送事务邮件
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send 同步发送，连接失败或被拒绝直接返回错误
func (m *SMTPMailer) Send(to, subject, text, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", text)
	if html != "" {
		msg.AddAlternative("text/html", html)
	}

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
