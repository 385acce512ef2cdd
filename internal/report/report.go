// Package report renders the voting result PDF sent with finalized
// complaint ballots.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"campusgate/internal/models"
)

// VotingReport renders the complaint's ballot results as a PDF document:
// header, complaint details, the tally, and each individual ballot with its
// reason.
func VotingReport(c *models.Complaint) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Complaint Voting Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.MultiCell(0, 7, c.Title, "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	writeField(pdf, "Category", c.Category)
	writeField(pdf, "Priority", c.Priority)
	writeField(pdf, "Submitted by", submitterLine(c))
	writeField(pdf, "Department", c.Department)
	writeField(pdf, "Submitted on", c.CreatedAt.Format("02 Jan 2006 15:04"))
	if c.VotingDeadline != nil {
		writeField(pdf, "Voting deadline", c.VotingDeadline.Format("02 Jan 2006 15:04"))
	}
	writeField(pdf, "Voting scope", c.VotingScope)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Description", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, c.Description, "", "L", false)
	pdf.Ln(4)

	summary := c.VotingSummary
	if summary == nil {
		s := models.TallyVotes(c.Votes)
		summary = &s
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Voting Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeField(pdf, "Total votes", fmt.Sprintf("%d", summary.TotalVotes))
	writeField(pdf, "Accept", fmt.Sprintf("%d (%d%%)", summary.AcceptVotes, summary.AcceptPercentage))
	writeField(pdf, "Reject", fmt.Sprintf("%d (%d%%)", summary.RejectVotes, summary.RejectPercentage))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Individual Votes", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)

	if len(c.Votes) == 0 {
		pdf.CellFormat(0, 6, "No votes were cast.", "", 1, "L", false, 0, "")
	}
	for i, v := range c.Votes {
		voter := v.VoterName
		if v.VoterUSN != nil {
			voter = fmt.Sprintf("%s (%s)", v.VoterName, *v.VoterUSN)
		}
		line := fmt.Sprintf("%d. %s - %s - %s", i+1, voter, v.Department, v.Vote)
		pdf.MultiCell(0, 5, line, "", "L", false)
		if v.Reason != nil && *v.Reason != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, "    Reason: "+*v.Reason, "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
		}
		pdf.Ln(1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated on %s by CampusGate", time.Now().Format("02 Jan 2006 15:04")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeField(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(40, 6, label+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func submitterLine(c *models.Complaint) string {
	if c.StudentUSN != nil {
		return fmt.Sprintf("%s (%s)", c.StudentName, *c.StudentUSN)
	}
	return c.StudentName
}
