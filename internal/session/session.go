// Package session drives one tracing session: drawing, evaluation,
// celebration, and submission of the result to the record store.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/verapine/tracepad/internal/glyph"
	"github.com/verapine/tracepad/internal/model"
	"github.com/verapine/tracepad/internal/score"
)

// State is the controller's position in the tracing loop.
type State int

// Session states. The loop is Idle -> Drawing -> Evaluating ->
// Celebrating -> Idle; a failed evaluation short-circuits back to Idle
// with the surface still armed, and Reset returns to Idle from anywhere.
const (
	StateIdle State = iota
	StateDrawing
	StateEvaluating
	StateCelebrating
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateDrawing:
		return "drawing"
	case StateEvaluating:
		return "evaluating"
	case StateCelebrating:
		return "celebrating"
	default:
		return "idle"
	}
}

// Submitter is the store boundary the controller talks to.
type Submitter interface {
	SubmitAttempt(ctx context.Context, profile string, letter rune, completed bool, score int) (model.ProgressRecord, error)
}

// Pending is an evaluated result waiting to be settled in the store.
// The ID pins dispatched outcomes to the evaluation they were created
// for; a new evaluation gets a new ID.
type Pending struct {
	ID     uuid.UUID
	Letter rune
	Result model.TraceResult
}

// Controller is the per-session state machine. It is not safe for
// concurrent use; the UI event loop owns it. Submissions cross
// goroutines only as value snapshots handed out by Dispatch, with the
// outcome fed back through Settle on the owning loop.
type Controller struct {
	profile string
	eval    score.Evaluator
	store   Submitter

	state  State
	target rune

	last      *model.TraceResult
	pending   *Pending
	submitErr error
}

// New builds a controller for one profile and target letter. The
// target is validated up front so an unsupported letter never reaches
// the Drawing state.
func New(profile string, target rune, eval score.Evaluator, store Submitter) (*Controller, error) {
	target, err := glyph.Normalize(target)
	if err != nil {
		return nil, err
	}
	return &Controller{
		profile: profile,
		eval:    eval,
		store:   store,
		state:   StateIdle,
		target:  target,
	}, nil
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Target returns the active letter.
func (c *Controller) Target() rune { return c.target }

// LastResult returns the most recent evaluated result, nil before the
// first evaluation of the current target.
func (c *Controller) LastResult() *model.TraceResult {
	if c.last == nil {
		return nil
	}
	res := *c.last
	return &res
}

// Pending returns the unsettled submission, nil when everything is
// settled.
func (c *Controller) Pending() *Pending {
	if c.pending == nil {
		return nil
	}
	p := *c.pending
	return &p
}

// SubmitErr returns the error from the last failed submission attempt.
func (c *Controller) SubmitErr() error { return c.submitErr }

// SetEvaluator swaps the completion heuristic. Used when the target
// changes and the evaluator is guide-specific.
func (c *Controller) SetEvaluator(eval score.Evaluator) {
	c.eval = eval
}

// SetTarget switches to a new letter and resets the session. A pending
// submission for the previous letter is kept for retry.
func (c *Controller) SetTarget(target rune) error {
	target, err := glyph.Normalize(target)
	if err != nil {
		return err
	}
	c.target = target
	c.state = StateIdle
	c.last = nil
	return nil
}

// Start arms the surface: Idle -> Drawing. No-op in any other state.
func (c *Controller) Start() {
	if c.state != StateIdle {
		return
	}
	c.state = StateDrawing
}

// StrokeEnded evaluates a finished stroke session. Returns the result
// and true when the machine was in Drawing; otherwise the call is
// ignored. A passing result moves to Celebrating, a failing one back to
// Idle with the surface ready for another try. Any result with ink
// becomes the pending submission; an empty session never does, so a
// session reset before drawing can never create a record.
func (c *Controller) StrokeEnded(strokes []model.Stroke) (model.TraceResult, bool) {
	if c.state != StateDrawing {
		return model.TraceResult{}, false
	}
	c.state = StateEvaluating
	result := c.eval.Evaluate(strokes)
	res := result
	c.last = &res

	if len(strokes) > 0 {
		c.pending = &Pending{
			ID:     uuid.New(),
			Letter: c.target,
			Result: result,
		}
		c.submitErr = nil
	}

	if result.Completed {
		c.state = StateCelebrating
	} else {
		c.state = StateIdle
	}
	return result, true
}

// Dispatch snapshots the pending submission for execution off the
// event loop. The returned func captures only copies, so it is safe to
// run on another goroutine while the loop keeps driving the
// controller; feed its outcome back through Settle under the returned
// id. Returns false when nothing is pending. An already-dispatched
// submission is unaffected by UI resets.
func (c *Controller) Dispatch() (uuid.UUID, func(context.Context) (model.ProgressRecord, error), bool) {
	if c.pending == nil {
		return uuid.UUID{}, nil, false
	}
	p := *c.pending
	store := c.store
	profile := c.profile
	run := func(ctx context.Context) (model.ProgressRecord, error) {
		return store.SubmitAttempt(ctx, profile, p.Letter, p.Result.Completed, p.Result.Score)
	}
	return p.ID, run, true
}

// Settle records the outcome of a dispatched submission. The id keys
// the outcome to the evaluation it was dispatched for: an outcome
// arriving after a newer evaluation replaced the pending submission
// matches nothing and must not clear or fail the newer one. On a
// matching failure the pending submission is kept so retry can
// resubmit without re-tracing. Returns whether the outcome matched.
func (c *Controller) Settle(id uuid.UUID, err error) bool {
	if c.pending == nil || c.pending.ID != id {
		return false
	}
	if err != nil {
		c.submitErr = err
		return true
	}
	c.pending = nil
	c.submitErr = nil
	return true
}

// Acknowledge ends the celebration: Celebrating -> Idle.
func (c *Controller) Acknowledge() {
	if c.state != StateCelebrating {
		return
	}
	c.state = StateIdle
}

// Reset discards the current stroke session from any state and returns
// to Idle. The pending submission, if any, survives so no evaluated
// progress is silently lost.
func (c *Controller) Reset() {
	c.state = StateIdle
	c.last = nil
}
