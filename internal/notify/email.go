package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// EmailConfig notify.email.*
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Domain   string // actor 的邮箱域名
}

// EmailSink 只发送带 email_subject 字段的 Outcome，收件人是 actor
type EmailSink struct {
	conf EmailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailSink(conf EmailConfig) *EmailSink {
	return &EmailSink{conf: conf, send: smtp.SendMail}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Send(ctx context.Context, o *Outcome) error {
	subject, ok := o.Fields["email_subject"]
	if !ok || o.Actor == "" {
		return nil
	}
	to := []string{o.Actor}
	if !strings.Contains(o.Actor, "@") && s.conf.Domain != "" {
		to = []string{o.Actor + "@" + s.conf.Domain}
	}
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.conf.From)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(o.Fields["email_body"])

	var auth smtp.Auth
	if s.conf.Username != "" {
		auth = smtp.PlainAuth("", s.conf.Username, s.conf.Password, s.conf.Host)
	}
	addr := net.JoinHostPort(s.conf.Host, strconv.Itoa(s.conf.Port))
	if err := s.send(addr, auth, s.conf.From, to, []byte(msg.String())); err != nil {
		return fmt.Errorf("send email to %v: %w", to, err)
	}
	return nil
}
