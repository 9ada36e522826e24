package verificationdomain

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDecide(t *testing.T) {
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		setup       func(r *Registry)
		requestID   string
		applicantID string
		decision    Decision
		wantErr     error
		wantStatus  Status
	}{
		{
			name:        "pending to approved",
			setup:       func(r *Registry) { r.Add(Request{ID: "r1", ApplicantID: "u1"}) },
			requestID:   "r1",
			applicantID: "u1",
			decision:    DecisionApprove,
			wantStatus:  StatusApproved,
		},
		{
			name:        "pending to rejected",
			setup:       func(r *Registry) { r.Add(Request{ID: "r1", ApplicantID: "u1"}) },
			requestID:   "r1",
			applicantID: "u1",
			decision:    DecisionReject,
			wantStatus:  StatusRejected,
		},
		{
			name: "already decided",
			setup: func(r *Registry) {
				r.Add(Request{ID: "r1", ApplicantID: "u1"})
				_, _ = r.Decide("r1", "u1", DecisionReject, "staff", now)
			},
			requestID:   "r1",
			applicantID: "u1",
			decision:    DecisionApprove,
			wantErr:     ErrAlreadyDecided,
			wantStatus:  StatusRejected,
		},
		{
			name:        "unknown request is adopted",
			setup:       func(*Registry) {},
			requestID:   "r9",
			applicantID: "u9",
			decision:    DecisionApprove,
			wantStatus:  StatusApproved,
		},
		{
			name:      "unknown request without applicant",
			setup:     func(*Registry) {},
			requestID: "r9",
			decision:  DecisionApprove,
			wantErr:   ErrRequestNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			tt.setup(r)

			got, err := r.Decide(tt.requestID, tt.applicantID, tt.decision, "staff", now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "staff", got.DecidedBy)
				assert.Equal(t, now, got.DecidedAt)
			}
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestRegistryDecideOnce(t *testing.T) {
	r := NewRegistry()
	r.Add(Request{ID: "r1", ApplicantID: "u1"})

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := DecisionApprove
			if i%2 == 1 {
				d = DecisionReject
			}
			if _, err := r.Decide("r1", "u1", d, "staff", time.Now()); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestDecisionCustomID(t *testing.T) {
	id := DecisionCustomID(DecisionApprove, "req-1", "user-1")
	assert.Equal(t, "verify:approve:req-1:user-1", id)

	d, reqID, applicantID, ok := ParseDecisionCustomID(id)
	require.True(t, ok)
	assert.Equal(t, DecisionApprove, d)
	assert.Equal(t, "req-1", reqID)
	assert.Equal(t, "user-1", applicantID)

	for _, bad := range []string{"", "verify:approve:req-1", "verify:maybe:r:u", "ticket:approve:r:u", "verify:reject::u"} {
		_, _, _, ok := ParseDecisionCustomID(bad)
		assert.False(t, ok, bad)
	}
}

func TestSubmissionNormalize(t *testing.T) {
	got := Submission{CelsiusHandle: "  bob ", Sponsor: "\tann", Email: " bob@example.com\n"}.Normalize()
	assert.Equal(t, Submission{CelsiusHandle: "bob", Sponsor: "ann", Email: "bob@example.com"}, got)
}
