package models

import "math"

// ComputeSummary builds the denormalized tally from raw counts. Percentages
// are rounded to the nearest integer; an empty tally is all zeros.
func ComputeSummary(acceptVotes, rejectVotes int) VotingSummary {
	total := acceptVotes + rejectVotes
	summary := VotingSummary{
		TotalVotes:  total,
		AcceptVotes: acceptVotes,
		RejectVotes: rejectVotes,
	}
	if total == 0 {
		return summary
	}
	summary.AcceptPercentage = int(math.Round(float64(acceptVotes) / float64(total) * 100))
	summary.RejectPercentage = int(math.Round(float64(rejectVotes) / float64(total) * 100))
	return summary
}

// TallyVotes recomputes the summary from a ballot list. Repeated calls over
// the same ballots always produce the same result.
func TallyVotes(votes []Vote) VotingSummary {
	var accept, reject int
	for _, v := range votes {
		switch v.Vote {
		case VoteAccept:
			accept++
		case VoteReject:
			reject++
		}
	}
	return ComputeSummary(accept, reject)
}
