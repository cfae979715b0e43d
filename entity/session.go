package entity

import (
	"time"

	"github.com/google/uuid"
)

// RoleClaim is the capability granted to a session at sign-in. Consumers
// check the claim, never the raw identity string.
type RoleClaim string

const (
	AdministratorClaim RoleClaim = "administrator"
	SubmitterClaim     RoleClaim = "submitter"
)

// Session is the resolved identity for one client connection. It is built
// exactly once by the identity service and passed around explicitly; there
// is no ambient session state.
type Session struct {
	Identity  string    `json:"identity" bson:"identity"`
	Anonymous bool      `json:"anonymous" bson:"anonymous"`
	Claim     RoleClaim `json:"claim" bson:"claim"`
	Token     string    `json:"token" bson:"token"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewSession creates a session for a named identity carrying the given claim.
func NewSession(identity string, claim RoleClaim) *Session {
	return &Session{
		Identity:  identity,
		Claim:     claim,
		Token:     uuid.NewString(),
		CreatedAt: time.Now(),
	}
}

// NewAnonymousSession creates a submitter session with a generated identity.
func NewAnonymousSession() *Session {
	s := NewSession(uuid.NewString(), SubmitterClaim)
	s.Anonymous = true
	return s
}

// IsAdministrator reports whether the session carries the administrator claim.
func (s *Session) IsAdministrator() bool {
	return s.Claim == AdministratorClaim
}

// IsSubmitter reports whether the session carries the submitter claim.
func (s *Session) IsSubmitter() bool {
	return s.Claim == SubmitterClaim
}
