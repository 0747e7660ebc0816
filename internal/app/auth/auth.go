// Package auth resolves the calling user. Identity verification is an
// external collaborator; the server trusts whatever Provider it is wired
// with, and ships a header-based provider for development and tests.
package auth

import (
	"errors"
	"net/http"

	"studyforge/internal/app/plan"
)

// ErrUnauthenticated is returned when the request carries no usable identity.
var ErrUnauthenticated = errors.New("unauthenticated")

// User is the resolved caller identity.
type User struct {
	ID   string
	Plan plan.Plan
}

// Provider extracts a user from an incoming request.
type Provider interface {
	Authenticate(r *http.Request) (User, error)
}

// HeaderProvider reads identity from trusted headers, set by a fronting
// gateway in deployment or by the test harness locally.
type HeaderProvider struct{}

const (
	headerUserID = "X-User-ID"
	headerPlan   = "X-User-Plan"
)

func (HeaderProvider) Authenticate(r *http.Request) (User, error) {
	userID := r.Header.Get(headerUserID)
	if userID == "" {
		return User{}, ErrUnauthenticated
	}
	p := plan.Plan(r.Header.Get(headerPlan))
	if !plan.Valid(p) {
		p = plan.Free
	}
	return User{ID: userID, Plan: p}, nil
}
