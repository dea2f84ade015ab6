// Package session implements the admin session guard: a single privileged
// identity checked against a bcrypt hash, with an optional TOTP second step.
// Sessions can be snapshotted for persistence and expire after a TTL.
package session

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTTL is how long a persisted session stays valid.
const DefaultTTL = 24 * time.Hour

// ErrAuth is matched by every *AuthError via errors.Is.
var ErrAuth = errors.New("authentication failed")

// AuthError reports a failed credential or code check. Session state is
// unchanged when one is returned.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "auth: " + e.Reason
}

// Is lets errors.Is(err, ErrAuth) match.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuth
}

// State is the guard's position in the login flow.
type State int

const (
	LoggedOut State = iota
	PendingTOTP
	LoggedIn
)

func (s State) String() string {
	switch s {
	case PendingTOTP:
		return "pending_totp"
	case LoggedIn:
		return "logged_in"
	default:
		return "logged_out"
	}
}

// Credentials is the single admin identity.
type Credentials struct {
	Username     string
	PasswordHash string // bcrypt
	TOTPSecret   string // empty disables the second step
}

// Data is the persisted form of a session.
type Data struct {
	LoggedIn  bool      `json:"logged_in"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Guard tracks whether the admin is authenticated. It is not safe for
// concurrent use.
type Guard struct {
	creds     Credentials
	state     State
	createdAt time.Time
	ttl       time.Duration
	now       func() time.Time
	attempts  attemptLimiter
}

// NewGuard returns a guard in the LoggedOut state.
func NewGuard(creds Credentials) *Guard {
	return &Guard{
		creds: creds,
		state: LoggedOut,
		ttl:   DefaultTTL,
		now:   time.Now,
		attempts: attemptLimiter{
			limit:  DefaultMaxFailures,
			window: DefaultFailureWindow,
		},
	}
}

// SetTTL changes how long a restored session remains valid. Zero or
// negative values keep the default.
func (g *Guard) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		g.ttl = ttl
	}
}

// SetAttemptLimit allows at most limit failed checks per window before
// Login and VerifyTOTP refuse further attempts. Non-positive values keep
// the current setting.
func (g *Guard) SetAttemptLimit(limit int, window time.Duration) {
	if limit > 0 {
		g.attempts.limit = limit
	}
	if window > 0 {
		g.attempts.window = window
	}
}

// SetClock replaces the time source.
func (g *Guard) SetClock(now func() time.Time) {
	g.now = now
}

// HashPassword returns a bcrypt hash suitable for Credentials.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the credential pair. Without TOTP a match logs the admin in;
// with TOTP it moves the guard to PendingTOTP.
func (g *Guard) Login(username, password string) error {
	now := g.now()
	if !g.attempts.allow(now) {
		return &AuthError{Reason: "too many failed attempts, try again later"}
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.creds.Username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password.
	passOK := g.creds.PasswordHash != "" &&
		bcrypt.CompareHashAndPassword([]byte(g.creds.PasswordHash), []byte(password)) == nil
	if !userOK || !passOK {
		g.attempts.fail(now)
		return &AuthError{Reason: "invalid username or password"}
	}

	if g.TOTPEnabled() {
		g.state = PendingTOTP
		return nil
	}
	g.attempts.reset()
	g.state = LoggedIn
	g.createdAt = now
	return nil
}

// VerifyTOTP completes a pending login.
func (g *Guard) VerifyTOTP(code string) error {
	if g.state != PendingTOTP {
		return &AuthError{Reason: "no login awaiting a code"}
	}
	now := g.now()
	if !g.attempts.allow(now) {
		return &AuthError{Reason: "too many failed attempts, try again later"}
	}
	valid, _ := totp.ValidateCustom(code, g.creds.TOTPSecret, now, totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if !valid {
		g.attempts.fail(now)
		return &AuthError{Reason: "invalid code"}
	}
	g.attempts.reset()
	g.state = LoggedIn
	g.createdAt = now
	return nil
}

// Logout returns the guard to LoggedOut unconditionally.
func (g *Guard) Logout() {
	g.state = LoggedOut
	g.createdAt = time.Time{}
}

// IsLoggedIn reports whether the admin has completed every login step.
func (g *Guard) IsLoggedIn() bool {
	return g.state == LoggedIn
}

// State returns the current login state.
func (g *Guard) State() State {
	return g.state
}

// TOTPEnabled reports whether login requires a second step.
func (g *Guard) TOTPEnabled() bool {
	return g.creds.TOTPSecret != ""
}

// Snapshot returns the persistable session.
func (g *Guard) Snapshot() Data {
	if g.state != LoggedIn {
		return Data{}
	}
	return Data{LoggedIn: true, Username: g.creds.Username, CreatedAt: g.createdAt}
}

// Restore resumes a persisted session. It returns false, leaving the guard
// logged out, if the data is not a live session for the configured admin.
func (g *Guard) Restore(d Data) bool {
	if !d.LoggedIn || d.Username != g.creds.Username || d.CreatedAt.IsZero() {
		return false
	}
	if g.now().Sub(d.CreatedAt) >= g.ttl {
		return false
	}
	g.state = LoggedIn
	g.createdAt = d.CreatedAt
	return true
}
