package verificationdomain

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a verification request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Submission is the data collected by the verification form.
type Submission struct {
	CelsiusHandle string `validate:"required,max=100"`
	Sponsor       string `validate:"omitempty,max=100"`
	Email         string `validate:"required,email,max=254"`
}

// Normalize trims surrounding whitespace from every field.
func (s Submission) Normalize() Submission {
	return Submission{
		CelsiusHandle: strings.TrimSpace(s.CelsiusHandle),
		Sponsor:       strings.TrimSpace(s.Sponsor),
		Email:         strings.TrimSpace(s.Email),
	}
}

// Request is a member's application for access.
type Request struct {
	ID           string
	ApplicantID  string
	ApplicantTag string
	Submission   Submission
	Status       Status
	SubmittedAt  time.Time

	// ReviewChannelID and ReviewMessageID locate the staff review message.
	ReviewChannelID string
	ReviewMessageID string

	DecidedBy string
	DecidedAt time.Time
}

const customIDPrefix = "verify"

// Decision identifies a staff decision button.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Status returns the terminal status a decision leads to.
func (d Decision) Status() Status {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// DecisionCustomID encodes a decision button ID carrying the request and applicant.
func DecisionCustomID(d Decision, requestID, applicantID string) string {
	return fmt.Sprintf("%s:%s:%s:%s", customIDPrefix, d, requestID, applicantID)
}

// ParseDecisionCustomID decodes a button ID produced by DecisionCustomID.
func ParseDecisionCustomID(customID string) (Decision, string, string, bool) {
	parts := strings.Split(customID, ":")
	if len(parts) != 4 || parts[0] != customIDPrefix {
		return "", "", "", false
	}
	d := Decision(parts[1])
	if d != DecisionApprove && d != DecisionReject {
		return "", "", "", false
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", "", false
	}
	return d, parts[2], parts[3], true
}
