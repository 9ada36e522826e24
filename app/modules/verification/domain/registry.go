package verificationdomain

import (
	"sync"
	"time"
)

// Registry tracks verification requests in memory and guards each one
// against being decided twice.
type Registry struct {
	mu       sync.Mutex
	requests map[string]*Request
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{requests: map[string]*Request{}}
}

// Add stores a pending request.
func (r *Registry) Add(req Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.Status = StatusPending
	r.requests[req.ID] = &req
}

// SetReviewMessage records where the review message was posted.
func (r *Registry) SetReviewMessage(requestID, channelID, messageID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req, ok := r.requests[requestID]; ok {
		req.ReviewChannelID = channelID
		req.ReviewMessageID = messageID
	}
}

// Get returns a copy of the request.
func (r *Registry) Get(requestID string) (Request, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[requestID]
	if !ok {
		return Request{}, false
	}
	return *req, true
}

// Decide moves a pending request to the terminal status of d. Requests
// unknown to the registry, such as those submitted before a restart, are
// adopted from the applicant ID carried by the decision button. A request
// that is already terminal yields ErrAlreadyDecided.
func (r *Registry) Decide(requestID, applicantID string, d Decision, actorID string, now time.Time) (Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[requestID]
	if !ok {
		if requestID == "" || applicantID == "" {
			return Request{}, ErrRequestNotFound
		}
		req = &Request{ID: requestID, ApplicantID: applicantID, Status: StatusPending}
		r.requests[requestID] = req
	}
	if req.Status.Terminal() {
		return *req, ErrAlreadyDecided
	}

	req.Status = d.Status()
	req.DecidedBy = actorID
	req.DecidedAt = now
	return *req, nil
}

// Len returns the number of tracked requests.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}
