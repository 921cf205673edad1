// Package notify sends moderation-inbox emails over SMTP. Configured for
// Mailtrap-style credentialed SMTP, which also covers development inboxes.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"bulletin-backend-go/internal/models"
)

// Mailer emails the moderation inbox when a new submission lands in the
// pending queue. It implements core.Notifier.
type Mailer struct {
	host      string
	port      string
	username  string
	password  string
	sender    string
	recipient string
}

// NewMailerConfig contains options for creating a new Mailer.
type NewMailerConfig struct {
	Host      string
	Port      string
	Username  string
	Password  string
	Sender    string
	Recipient string
}

// NewMailer creates a new Mailer. All fields are required; callers that have
// no SMTP configuration should not construct one.
func NewMailer(cfg NewMailerConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("SMTP host and port must be provided")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("SMTP username and password must be provided")
	}
	if cfg.Sender == "" || cfg.Recipient == "" {
		return nil, fmt.Errorf("sender and recipient addresses must be provided")
	}
	return &Mailer{
		host:      cfg.Host,
		port:      cfg.Port,
		username:  cfg.Username,
		password:  cfg.Password,
		sender:    cfg.Sender,
		recipient: cfg.Recipient,
	}, nil
}

// PostSubmitted emails a short review notice for a newly pending post.
func (m *Mailer) PostSubmitted(post *models.Post) error {
	subject := fmt.Sprintf("New bulletin pending review: %s", post.Title)
	body := fmt.Sprintf(
		"A new bulletin was submitted and is awaiting review.\r\n\r\n"+
			"Title: %s\r\nAuthor: %s\r\nCategory: %s\r\nPriority: %s\r\nSubmitted: %s\r\n\r\n%s\r\n",
		post.Title, post.Author, post.Category, post.Priority,
		post.CreatedAt.Format("2006-01-02 15:04 UTC"), post.Content,
	)
	return m.send(subject, body)
}

func (m *Mailer) send(subject, body string) error {
	addr := m.host + ":" + m.port

	var msg strings.Builder
	msg.WriteString("From: " + m.sender + "\r\n")
	msg.WriteString("To: " + m.recipient + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.sender, []string{m.recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send notification email: %w", err)
	}
	return nil
}
