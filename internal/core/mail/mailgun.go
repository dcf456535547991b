package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Sender 邮件出口抽象，测试用内存替身
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type MailgunSender struct {
	mg   mailgun.Mailgun
	from string
}

func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
	}
}

func (s *MailgunSender) Send(ctx context.Context, to, subject, body string) error {
	msg := mailgun.NewMessage(s.from, subject, body, to)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, _, err := s.mg.Send(ctx, msg); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}

// ActivationBody 激活邮件正文
func ActivationBody(name, link string) string {
	return fmt.Sprintf("Hello %s!\n\nPlease activate your account by clicking the link below:\n\n%s\n\nThe link expires in 24 hours.\n", name, link)
}
