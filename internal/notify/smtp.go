package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/google/uuid"

	"github.com/umaimaes/AgroTrace-MS/internal/config"
	"github.com/umaimaes/AgroTrace-MS/internal/logger"
)

// SMTP delivers reset codes over plain SMTP with TLS. Port 465 uses
// implicit TLS, anything else upgrades with STARTTLS.
type SMTP struct {
	config   *config.Email
	username string
	auth     smtp.Auth
}

func NewSMTP(config *config.Email, username, password string) *SMTP {
	auth := smtp.PlainAuth("", username, password, config.SMTPServer)
	return &SMTP{
		config:   config,
		username: username,
		auth:     auth,
	}
}

func (s *SMTP) Send(ctx context.Context, recipient, code string) (Delivery, error) {
	body := fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code)
	msg := s.buildMessage(recipient, "Your password reset code", body)
	address := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)

	var err error
	if s.config.SMTPPort == 465 {
		err = s.sendImplicitTLS(address, recipient, msg)
	} else {
		err = s.sendSTARTTLS(address, recipient, msg)
	}
	if err != nil {
		return Delivery{}, err
	}

	logger.Log.Info("reset code email sent via smtp", "recipient", recipient)
	return Delivery{Sent: true}, nil
}

func (s *SMTP) timeout() time.Duration {
	timeout := time.Duration(s.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// sendImplicitTLS sends email over a connection that is TLS from the start (port 465).
func (s *SMTP) sendImplicitTLS(address, recipient string, msg []byte) error {
	tlsConfig := &tls.Config{ServerName: s.config.SMTPServer}

	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: s.timeout()}, "tcp", address, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server (implicit TLS): %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.sendViaClient(client, recipient, msg)
}

// sendSTARTTLS sends email by upgrading a plain connection to TLS (port 587).
func (s *SMTP) sendSTARTTLS(address, recipient string, msg []byte) error {
	conn, err := net.DialTimeout("tcp", address, s.timeout())
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.SMTPServer)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.config.SMTPServer}
	if err = client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	return s.sendViaClient(client, recipient, msg)
}

// sendViaClient performs auth, sets sender/recipient, and sends the message body.
func (s *SMTP) sendViaClient(client *smtp.Client, recipient string, msg []byte) error {
	if err := client.Auth(s.auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(s.from()); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (s *SMTP) from() string {
	if s.config.From != "" {
		return s.config.From
	}
	return s.username
}

func (s *SMTP) buildMessage(recipient, subject, body string) []byte {
	encodedSubject := mime.QEncoding.Encode("utf-8", subject)
	encodedSenderName := mime.QEncoding.Encode("utf-8", s.config.SenderName)

	msgID := fmt.Sprintf("<%s@%s>", uuid.NewString(), s.config.SMTPServer)
	date := time.Now().Format(time.RFC1123Z)

	return fmt.Appendf(nil,
		"Message-ID: %s\r\n"+
			"Date: %s\r\n"+
			"To: %s\r\n"+
			"From: %s <%s>\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"utf-8\"\r\n"+
			"\r\n"+
			"%s",
		msgID, date, recipient, encodedSenderName, s.from(), encodedSubject, body,
	)
}
