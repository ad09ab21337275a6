package biometry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Reasons shown by the platform's biometric prompts.
const (
	ReasonRequestAccess = "Authenticate to create new account"
	ReasonAuthenticate  = "Please authenticate to create your account"
)

// State is a step of the gate.
type State int

const (
	StateIdle State = iota
	StateCheckingAvailability
	StateMounting
	StateRequestingAccess
	StateAuthenticating
	StateAuthorized
	StateDenied
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCheckingAvailability:
		return "checking_availability"
	case StateMounting:
		return "mounting"
	case StateRequestingAccess:
		return "requesting_access"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether the gate stops in s.
func (s State) Terminal() bool {
	return s == StateAuthorized || s == StateDenied || s == StateFailed
}

// Outcome records how a gate run went.
type Outcome struct {
	// State is the terminal state reached.
	State State
	// Trace lists every state entered, in order, starting with StateIdle.
	Trace []State
	// Skipped lists the optional operations the manager did not support.
	Skipped []Operation
}

// Gate runs the biometry protocol: availability check, mount, permission
// request and authentication, each optional step capability-gated.
type Gate struct {
	manager Manager
	logger  *slog.Logger
}

// NewGate creates a gate over manager.
func NewGate(manager Manager) *Gate {
	return &Gate{
		manager: manager,
		logger:  slog.Default().With("service", "biometry.gate"),
	}
}

// Run drives the gate to a terminal state. It returns nil only when the
// outcome is StateAuthorized. ErrUnavailable, ErrAccessDenied and
// ErrAuthFailed identify the expected refusals; anything else is unexpected.
func (g *Gate) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{State: StateIdle, Trace: []State{StateIdle}}
	enter := func(s State) {
		out.State = s
		out.Trace = append(out.Trace, s)
		g.logger.DebugContext(ctx, "biometry gate transition", "state", s.String())
	}
	skip := func(op Operation) {
		out.Skipped = append(out.Skipped, op)
		g.logger.DebugContext(ctx, "biometry step not supported, skipping", "operation", string(op))
	}

	enter(StateCheckingAvailability)
	if !g.manager.Supports(OpMount) {
		enter(StateFailed)
		return out, ErrUnavailable
	}

	enter(StateMounting)
	if err := g.manager.Mount(ctx); err != nil {
		if !isAlreadyMounting(err) {
			enter(StateFailed)
			return out, fmt.Errorf("mount biometry: %w", err)
		}
		g.logger.DebugContext(ctx, "biometry already mounting, continuing")
	}

	if g.manager.Supports(OpRequestAccess) {
		enter(StateRequestingAccess)
		granted, err := g.manager.RequestAccess(ctx, ReasonRequestAccess)
		if err != nil {
			enter(StateFailed)
			return out, fmt.Errorf("request biometry access: %w", err)
		}
		if !granted {
			enter(StateDenied)
			return out, ErrAccessDenied
		}
	} else {
		skip(OpRequestAccess)
	}

	if g.manager.Supports(OpAuthenticate) {
		enter(StateAuthenticating)
		result, err := g.manager.Authenticate(ctx, ReasonAuthenticate)
		if err != nil {
			enter(StateFailed)
			return out, fmt.Errorf("authenticate: %w", err)
		}
		if !result.Authorized() {
			enter(StateFailed)
			return out, ErrAuthFailed
		}
	} else {
		skip(OpAuthenticate)
	}

	enter(StateAuthorized)
	return out, nil
}

// isAlreadyMounting matches the platform's complaint about a mount already in
// progress, which is harmless.
func isAlreadyMounting(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already mounting")
}
