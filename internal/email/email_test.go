package email

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestBuildMIMEMessage(t *testing.T) {
	attachment := []byte("%PDF-1.4 fake report body")
	message := string(BuildMIMEMessage(
		"noreply@campusgate.edu",
		"dean@campusgate.edu",
		"Voting Report",
		"<html><body>report</body></html>",
		"voting-report-complaint-7.pdf",
		attachment,
	))

	for _, want := range []string{
		"From: noreply@campusgate.edu\r\n",
		"To: dean@campusgate.edu\r\n",
		"Subject: Voting Report\r\n",
		"MIME-Version: 1.0\r\n",
		"multipart/mixed",
		"Content-Type: text/html; charset=UTF-8",
		"Content-Type: application/pdf",
		"Content-Transfer-Encoding: base64",
		`filename="voting-report-complaint-7.pdf"`,
		"<html><body>report</body></html>",
	} {
		if !strings.Contains(message, want) {
			t.Errorf("Message should contain %q", want)
		}
	}

	// The attachment is carried base64-encoded
	encoded := base64.StdEncoding.EncodeToString(attachment)
	if !strings.Contains(strings.ReplaceAll(message, "\r\n", ""), encoded) {
		t.Error("Message should contain the base64-encoded attachment")
	}

	// Closing boundary marker terminates the message
	if !strings.HasSuffix(message, "--campusgate-report-boundary--\r\n") {
		t.Error("Message should end with the closing boundary")
	}
}

func TestBuildMIMEMessageWithoutAttachment(t *testing.T) {
	message := string(BuildMIMEMessage(
		"noreply@campusgate.edu",
		"hod.cs@campusgate.edu",
		"Voting Report",
		"<p>no report</p>",
		"report.pdf",
		nil,
	))

	if strings.Contains(message, "Content-Type: application/pdf") {
		t.Error("No attachment part expected for an empty attachment")
	}
	if !strings.Contains(message, "<p>no report</p>") {
		t.Error("HTML body should still be present")
	}
}

func TestBuildMIMEMessageWrapsBase64Lines(t *testing.T) {
	attachment := make([]byte, 600)
	for i := range attachment {
		attachment[i] = byte(i % 251)
	}

	message := string(BuildMIMEMessage("a@b.c", "d@e.f", "s", "body", "x.pdf", attachment))

	inBody := false
	for _, line := range strings.Split(message, "\r\n") {
		if strings.HasPrefix(line, "Content-Transfer-Encoding") {
			inBody = true
			continue
		}
		if inBody && strings.HasPrefix(line, "--") {
			break
		}
		if inBody && len(line) > 76 {
			t.Errorf("Encoded line exceeds 76 characters: %d", len(line))
		}
	}
}
