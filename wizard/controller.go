package wizard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"venturepath-backend/models"
)

// Phase is the controller's position in its lifecycle
type Phase string

const (
	// PhaseCollecting means the user is still filling in wizard steps
	PhaseCollecting Phase = "collecting"
	// PhaseSubmitting means one generation request is in flight
	PhaseSubmitting Phase = "submitting"
	// PhaseBlockedUpgrade means the daily limit denied submission; the UI
	// should prompt for a subscription. The attempt was not consumed.
	PhaseBlockedUpgrade Phase = "blocked_upgrade"
	// PhaseReportReady means ideas were generated and stored
	PhaseReportReady Phase = "report_ready"
)

var (
	ErrStepIncomplete   = errors.New("current step is incomplete")
	ErrNotOnFinalStep   = errors.New("wizard is not on its final step")
	ErrAwaitingSubmit   = errors.New("final step reached, awaiting submission")
	ErrSubmitInFlight   = errors.New("a generation request is already in flight")
	ErrUpgradeRequired  = errors.New("daily generation limit reached")
	ErrAuthRequired     = errors.New("authentication required")
	ErrGenerationFailed = errors.New("idea generation failed")
	ErrNoReport         = errors.New("no finalized profile to regenerate from")
)

// Gate decides whether a generation attempt is permitted and records
// successful ones.
type Gate interface {
	CanGenerate(ctx context.Context, user *models.User) (bool, error)
	RecordGeneration(ctx context.Context, user *models.User) (*models.User, error)
}

// IdeaGenerator is the generation boundary as the controller sees it.
type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, profile *models.UserProfile, lang models.Language) ([]models.BusinessIdea, error)
}

// Controller drives one user's pass through the wizard: field updates, step
// navigation gated by the step validator, and the submit flow against the
// usage gate and the generation boundary.
//
// A controller is single-owner, scoped to one session. The mutex exists only
// to make concurrent submit clicks a no-op instead of a double generation.
type Controller struct {
	mu        sync.Mutex
	store     *ProfileStore
	gate      Gate
	generator IdeaGenerator

	step      Step
	phase     Phase
	finalized *models.UserProfile
	ideas     []models.BusinessIdea
	cancel    context.CancelFunc
}

// NewController creates a controller at the first step with a default profile.
func NewController(gate Gate, generator IdeaGenerator) *Controller {
	return &Controller{
		store:     NewProfileStore(),
		gate:      gate,
		generator: generator,
		step:      StepDemographics,
		phase:     PhaseCollecting,
	}
}

// SetField forwards a single field mutation to the profile store.
func (c *Controller) SetField(field Field, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Set(field, value)
}

// Step returns the current step index.
func (c *Controller) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

// Phase returns the controller's current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Profile returns a copy of the in-progress profile.
func (c *Controller) Profile() *models.UserProfile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Profile().Clone()
}

// Ideas returns the generated report, or ErrNoReport before one exists.
func (c *Controller) Ideas() ([]models.BusinessIdea, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseReportReady {
		return nil, ErrNoReport
	}
	return c.ideas, nil
}

// Next advances to the following step if the current one is complete.
// At the final step submission takes over; Next returns ErrAwaitingSubmit so
// callers route to Submit.
func (c *Controller) Next() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !IsStepComplete(c.step, c.store.Profile()) {
		return ErrStepIncomplete
	}
	if c.step >= StepPressure {
		return ErrAwaitingSubmit
	}
	c.step++
	return nil
}

// Back moves one step backward. It is never blocked and is a no-op at the
// first step.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step > StepDemographics {
		c.step--
	}
	if c.phase == PhaseBlockedUpgrade {
		c.phase = PhaseCollecting
	}
}

// Submit finalizes the profile and runs it through the gate and the
// generation boundary. user is nil for guests.
//
// Denials do not consume the attempt: an authenticated user over the limit
// lands in PhaseBlockedUpgrade with the profile retained; a guest who spent
// the session's free pass gets ErrAuthRequired. A generation failure reverts
// to the last wizard step and is retryable by calling Submit again.
func (c *Controller) Submit(ctx context.Context, user *models.User, lang models.Language) ([]models.BusinessIdea, error) {
	c.mu.Lock()

	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if c.step != StepPressure {
		c.mu.Unlock()
		return nil, ErrNotOnFinalStep
	}
	if !IsStepComplete(c.step, c.store.Profile()) {
		c.mu.Unlock()
		return nil, ErrStepIncomplete
	}

	ok, err := c.gate.CanGenerate(ctx, user)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if !ok {
		if user == nil {
			c.mu.Unlock()
			return nil, ErrAuthRequired
		}
		c.phase = PhaseBlockedUpgrade
		c.mu.Unlock()
		return nil, ErrUpgradeRequired
	}

	c.phase = PhaseSubmitting
	profile := c.store.Profile().Clone()
	c.finalized = profile

	genCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	return c.generate(genCtx, profile, user, lang)
}

// Regenerate re-runs generation from the finalized profile. It requires an
// authenticated user regardless of usage state; a logged-out caller is
// redirected to authentication via ErrAuthRequired.
func (c *Controller) Regenerate(ctx context.Context, user *models.User, lang models.Language) ([]models.BusinessIdea, error) {
	c.mu.Lock()

	if user == nil {
		c.mu.Unlock()
		return nil, ErrAuthRequired
	}
	if c.phase == PhaseSubmitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if c.finalized == nil {
		c.mu.Unlock()
		return nil, ErrNoReport
	}

	ok, err := c.gate.CanGenerate(ctx, user)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if !ok {
		c.phase = PhaseBlockedUpgrade
		c.mu.Unlock()
		return nil, ErrUpgradeRequired
	}

	c.phase = PhaseSubmitting
	profile := c.finalized.Clone()

	genCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	return c.generate(genCtx, profile, user, lang)
}

// generate performs the boundary call outside the lock so Cancel can abort it.
func (c *Controller) generate(ctx context.Context, profile *models.UserProfile, user *models.User, lang models.Language) ([]models.BusinessIdea, error) {
	ideas, genErr := c.generator.GenerateIdeas(ctx, profile, lang)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	if genErr != nil {
		// Revert to the last wizard step; the user may retry.
		c.phase = PhaseCollecting
		c.step = StepPressure
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, genErr)
	}

	c.ideas = ideas
	c.phase = PhaseReportReady

	// The generation context was just canceled; recording usage must not
	// ride on it or a context-respecting store drops the increment.
	if _, err := c.gate.RecordGeneration(context.WithoutCancel(ctx), user); err != nil {
		// The report is already generated; losing the usage increment is
		// preferable to losing the report.
		log.Printf("Warning: failed to record generation usage: %v", err)
	}

	return ideas, nil
}

// Cancel aborts an in-flight generation call, e.g. when the user navigates
// away. It is safe to call at any time.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
