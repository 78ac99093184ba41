package auth

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/transcribed/internal/common"
)

// Channel is where a credential was presented.
type Channel int

const (
	// ChannelHeader is an "Authorization: Bearer <token>" header.
	ChannelHeader Channel = iota
	// ChannelQuery is a ?token=<token> parameter, used by <audio> elements
	// that cannot send headers.
	ChannelQuery
)

func (c Channel) String() string {
	if c == ChannelQuery {
		return "query"
	}
	return "header"
}

// Reason explains a denial.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingCredential
	ReasonInvalidCredential
	ReasonOwnerMismatch
)

func (r Reason) String() string {
	switch r {
	case ReasonMissingCredential:
		return "missing_credential"
	case ReasonInvalidCredential:
		return "invalid_credential"
	case ReasonOwnerMismatch:
		return "owner_mismatch"
	default:
		return "none"
	}
}

// Decision is the outcome of Guard.Check. SubjectID is set whenever the
// credential verified, including on owner mismatch.
type Decision struct {
	Allowed   bool
	Reason    Reason
	SubjectID string
}

// Err maps a denial to the sentinel the transport reports. A missing
// credential is unauthorized; invalid and mismatched credentials both
// collapse to forbidden so callers cannot probe which owners exist.
func (d Decision) Err() error {
	switch {
	case d.Allowed:
		return nil
	case d.Reason == ReasonMissingCredential:
		return common.ErrorUnauthorized
	default:
		return common.ErrorForbidden
	}
}

// Verifier turns a token into the subject id it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Guard gates reads of an owner's audio blobs.
type Guard struct {
	verifier Verifier
}

func NewGuard(v Verifier) *Guard {
	return &Guard{verifier: v}
}

// Check validates credential against ownerID. For ChannelHeader the
// credential is the raw Authorization header value; for ChannelQuery it is
// the token itself.
func (g *Guard) Check(ctx context.Context, ch Channel, credential, ownerID string) Decision {
	if strings.TrimSpace(credential) == "" {
		return Decision{Reason: ReasonMissingCredential}
	}

	token := strings.TrimSpace(credential)
	if ch == ChannelHeader {
		if SchemeOnly(credential) {
			return Decision{Reason: ReasonMissingCredential}
		}
		var ok bool
		token, ok = BearerToken(credential)
		if !ok {
			return Decision{Reason: ReasonInvalidCredential}
		}
	}

	subject, err := g.verifier.Verify(ctx, token)
	if err != nil || subject == "" {
		return Decision{Reason: ReasonInvalidCredential}
	}

	if subject != ownerID {
		return Decision{Reason: ReasonOwnerMismatch, SubjectID: subject}
	}

	return Decision{Allowed: true, SubjectID: subject}
}

// SchemeOnly reports whether header carries the Bearer scheme with no
// token after it.
func SchemeOnly(header string) bool {
	parts := strings.Fields(header)
	return len(parts) == 1 && strings.EqualFold(parts[0], "Bearer")
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
