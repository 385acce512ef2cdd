package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/smtp"

	"campusgate/internal/config"
	"campusgate/internal/models"
)

// Service handles email operations
type Service struct {
	config *config.EmailConfig
}

// NewService creates a new email service
func NewService(cfg *config.EmailConfig) *Service {
	return &Service{
		config: cfg,
	}
}

// SendVotingReport emails the finalized ballot results to the responsible
// authority with the PDF report attached.
func (s *Service) SendVotingReport(to, recipientName string, c *models.Complaint, pdf []byte) error {
	subject := fmt.Sprintf("Voting Results: %s", c.Title)

	summary := c.VotingSummary
	if summary == nil {
		tally := models.TallyVotes(c.Votes)
		summary = &tally
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Voting Results</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4a90e2;">Voting Results</h2>
        <p>Dear %s,</p>
        <p>The student vote on the following complaint has been finalized:</p>
        <p style="font-weight: bold;">%s</p>
        <p>Department: %s<br>
           Category: %s<br>
           Priority: %s</p>
        <p>Outcome: %d votes in total, %d accept (%d%%), %d reject (%d%%).</p>
        <p>The full report, including individual votes and reasons, is attached as a PDF.</p>
        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email. Please do not reply.</p>
    </div>
</body>
</html>
`, recipientName, c.Title, c.Department, c.Category, c.Priority,
		summary.TotalVotes, summary.AcceptVotes, summary.AcceptPercentage,
		summary.RejectVotes, summary.RejectPercentage)

	filename := fmt.Sprintf("voting-report-complaint-%d.pdf", c.ID)
	message := BuildMIMEMessage(s.config.SMTPFrom, to, subject, body, filename, pdf)

	return s.send(to, message)
}

// BuildMIMEMessage assembles a multipart/mixed message with an HTML body and
// a single PDF attachment.
func BuildMIMEMessage(from, to, subject, htmlBody, attachmentName string, attachment []byte) []byte {
	const boundary = "campusgate-report-boundary"

	var message bytes.Buffer
	message.WriteString(fmt.Sprintf("From: %s\r\n", from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", to))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n", boundary))
	message.WriteString("\r\n")

	message.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	message.WriteString("\r\n")
	message.WriteString(htmlBody)
	message.WriteString("\r\n")

	if len(attachment) > 0 {
		message.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		message.WriteString("Content-Type: application/pdf\r\n")
		message.WriteString("Content-Transfer-Encoding: base64\r\n")
		message.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n", attachmentName))
		message.WriteString("\r\n")

		encoded := base64.StdEncoding.EncodeToString(attachment)
		// RFC 2045 line length limit
		for len(encoded) > 76 {
			message.WriteString(encoded[:76])
			message.WriteString("\r\n")
			encoded = encoded[76:]
		}
		message.WriteString(encoded)
		message.WriteString("\r\n")
	}

	message.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return message.Bytes()
}

// send delivers a prebuilt message over SMTP
func (s *Service) send(to string, message []byte) error {
	addr := net.JoinHostPort(s.config.SMTPHost, s.config.SMTPPort)
	slog.Debug("Attempting to connect to SMTP server", "address", addr)

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		slog.Error("Failed to connect to SMTP server", "address", addr, "error", err)
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func(conn net.Conn) {
		if err := conn.Close(); err != nil {
			slog.Error("Failed to close SMTP connection", "error", err)
		}
	}(conn)

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		slog.Error("Failed to create SMTP client", "error", err)
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func(client *smtp.Client) {
		if err := client.Close(); err != nil {
			slog.Error("Failed to close SMTP client", "error", err)
		}
	}(client)

	// Authentication is optional; local relays like Mailpit accept without it
	if s.config.SMTPUsername != "" && s.config.SMTPPassword != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
		_ = client.Auth(auth)
	}

	if err := client.Mail(s.config.SMTPFrom); err != nil {
		slog.Error("Failed to set sender", "from", s.config.SMTPFrom, "error", err)
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		slog.Error("Failed to set recipient", "to", to, "error", err)
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		slog.Error("Failed to initiate data transfer", "error", err)
		return fmt.Errorf("failed to initiate data transfer: %w", err)
	}
	defer func(wc io.WriteCloser) {
		if err := wc.Close(); err != nil {
			slog.Error("Failed to close write closer", "error", err)
		}
	}(wc)

	if _, err := wc.Write(message); err != nil {
		slog.Error("Failed to write message", "error", err)
		return fmt.Errorf("failed to write message: %w", err)
	}

	slog.Info("Email sent successfully", "to", to)
	return nil
}
