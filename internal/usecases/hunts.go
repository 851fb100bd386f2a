package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"icp-hunter/internal/domain"
	"icp-hunter/internal/pipeline"
	"icp-hunter/internal/simulator"
	"icp-hunter/pkg/log"
)

// HuntDeps are the collaborators of a HuntService.
type HuntDeps struct {
	Hunts     HuntStore
	Generator ProfileGenerator
	Clock     simulator.Clock
	Payments  PaymentGateway
	Exports   ExportStore
	Trophies  *TrophyRoomUseCase
}

// HuntService runs hunts from submission to exported results.
type HuntService struct {
	deps HuntDeps

	// base is the parent of every simulation; cancelling it stops them all.
	base  context.Context
	now   func() time.Time
	newID func() string

	glitchChance float64
	roll         func() float64
}

// HuntOption configures a HuntService.
type HuntOption func(*HuntService)

// WithGlitchChance enables the transient retry notice during analysis.
func WithGlitchChance(chance float64, roll func() float64) HuntOption {
	return func(s *HuntService) {
		s.glitchChance = chance
		s.roll = roll
	}
}

// WithNow replaces time.Now.
func WithNow(now func() time.Time) HuntOption {
	return func(s *HuntService) { s.now = now }
}

// WithIDs replaces the hunt id generator.
func WithIDs(newID func() string) HuntOption {
	return func(s *HuntService) { s.newID = newID }
}

// NewHuntService creates the service. Simulations run under base.
func NewHuntService(base context.Context, deps HuntDeps, opts ...HuntOption) *HuntService {
	if deps.Clock == nil {
		deps.Clock = simulator.RealClock{}
	}
	s := &HuntService{
		deps:  deps,
		base:  base,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartRequest is the target form submission.
type StartRequest struct {
	Handle   string `json:"handle"`
	Tier     string `json:"tier"`
	Keyword  string `json:"keyword"`
	Location string `json:"location"`
}

// NextStep tells the caller where the flow continues.
type NextStep string

const (
	NextCheckout   NextStep = "checkout"
	NextProcessing NextStep = "processing"
)

// CheckoutStep carries the navigation parameters of the checkout page.
type CheckoutStep struct {
	Handle string        `json:"handle"`
	Tier   domain.TierID `json:"tier"`
	Price  int           `json:"price"`
	Path   string        `json:"path"`
}

// StartResult is the outcome of a target submission.
type StartResult struct {
	Next     NextStep      `json:"next"`
	Target   domain.Target `json:"target"`
	Hunt     *domain.Hunt  `json:"hunt,omitempty"`
	Checkout *CheckoutStep `json:"checkout,omitempty"`
}

// StartHunt validates a submission. Sneak Peek hunts start immediately;
// Sweet Spot hunts continue to checkout.
func (s *HuntService) StartHunt(ctx context.Context, req StartRequest) (StartResult, error) {
	target, err := domain.ValidateTarget(req.Handle, req.Tier, req.Keyword, req.Location)
	if err != nil {
		return StartResult{}, err
	}
	tier := domain.MustTier(target.Tier)

	if tier.ID == domain.SneakPeek {
		hunt := s.launch(ctx, target)
		return StartResult{Next: NextProcessing, Target: target, Hunt: &hunt}, nil
	}

	return StartResult{
		Next:   NextCheckout,
		Target: target,
		Checkout: &CheckoutStep{
			Handle: target.Handle,
			Tier:   tier.ID,
			Price:  tier.Price,
			Path:   CheckoutPath(target.Handle, tier.ID, false),
		},
	}, nil
}

// CheckoutRequest is a checkout form submission.
type CheckoutRequest struct {
	Handle        string
	Tier          string
	Email         string
	Keyword       string
	Location      string
	Upgrade       bool
	OriginalPrice int
	UpgradePrice  int
}

// CheckoutResult is an approved checkout and the hunt it started.
type CheckoutResult struct {
	Receipt domain.Receipt `json:"receipt"`
	Hunt    domain.Hunt    `json:"hunt"`
}

// Checkout charges the mock gateway and starts the hunt. An upgrade moves a
// Sneak Peek buyer to Sweet Spot for the difference between the tiers.
// A failed charge returns domain.ErrCheckoutFailed; the user may resubmit.
func (s *HuntService) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	target, err := domain.ValidateTarget(req.Handle, req.Tier, req.Keyword, req.Location)
	if err != nil {
		return CheckoutResult{}, err
	}
	email, err := domain.ValidateEmail(req.Email)
	if err != nil {
		return CheckoutResult{}, err
	}
	tier := domain.MustTier(target.Tier)

	charge := domain.Charge{
		Email:  email,
		Handle: target.Handle,
		Tier:   tier.ID,
		Amount: tier.Price,
	}
	if req.Upgrade {
		if err := checkUpgrade(tier, req.OriginalPrice, req.UpgradePrice); err != nil {
			return CheckoutResult{}, err
		}
		charge.Upgrade = true
		charge.Amount = domain.UpgradePrice()
		charge.OriginalPrice = domain.MustTier(domain.SneakPeek).Price
	}

	receipt, err := s.deps.Payments.Charge(ctx, charge)
	if err != nil {
		log.GlobalWarnCtx(ctx, "checkout failed", "handle", target.Handle, "tier", string(tier.ID), "error", err)
		return CheckoutResult{}, fmt.Errorf("checkout for @%s: %w", target.Handle, err)
	}

	log.GlobalInfoCtx(ctx, "checkout approved", "receipt", receipt.ID, "amount", charge.Amount, "upgrade", charge.Upgrade)
	return CheckoutResult{Receipt: receipt, Hunt: s.launch(ctx, target)}, nil
}

// checkUpgrade accepts an upgrade only into Sweet Spot. Prices carried in
// the navigation parameters are optional but must match the tier catalog.
func checkUpgrade(tier domain.Tier, originalPrice, upgradePrice int) error {
	if tier.ID != domain.SweetSpot {
		return domain.ErrUpgradeTier
	}
	if originalPrice != 0 && originalPrice != domain.MustTier(domain.SneakPeek).Price {
		return domain.ErrUpgradePrice
	}
	if upgradePrice != 0 && upgradePrice != domain.UpgradePrice() {
		return domain.ErrUpgradePrice
	}
	return nil
}

// CheckoutPath is the checkout navigation target. The tier is spelled with
// an underscore there.
func CheckoutPath(handle string, tier domain.TierID, upgrade bool) string {
	q := url.Values{}
	q.Set("tier", strings.ReplaceAll(string(tier), "-", "_"))
	if upgrade {
		q.Set("upgrade", "true")
		q.Set("originalPrice", strconv.Itoa(domain.MustTier(domain.SneakPeek).Price))
		q.Set("upgradePrice", strconv.Itoa(domain.UpgradePrice()))
	}
	return "/checkout/" + url.PathEscape(handle) + "?" + q.Encode()
}

// launch registers a session and starts its simulation.
func (s *HuntService) launch(ctx context.Context, target domain.Target) domain.Hunt {
	tier := domain.MustTier(target.Tier)
	id := s.newID()

	runCtx := log.WithFields(s.base, "hunt_id", id, "handle", target.Handle, "tier", string(tier.ID))
	if rid := log.RequestIDFromContext(ctx); rid != "" {
		runCtx = log.WithRequestID(runCtx, rid)
	}
	runCtx, cancel := context.WithCancel(runCtx)

	session := &Session{
		hunt: domain.Hunt{
			ID:        id,
			Target:    target,
			Status:    domain.HuntProcessing,
			CreatedAt: s.now(),
		},
		tier:     tier,
		cancel:   cancel,
		criteria: pipeline.DefaultCriteria(),
	}

	var opts []simulator.Option
	if s.glitchChance > 0 && s.roll != nil {
		opts = append(opts, simulator.WithGlitches(s.glitchChance, s.roll))
	}
	session.runner = simulator.NewRunner(simulator.ParamsFor(tier), s.deps.Clock, func(simulator.State) {
		s.handoff(runCtx, session)
	}, opts...)

	s.deps.Hunts.Set(id, session)
	session.runner.Start(runCtx)

	log.GlobalInfoCtx(runCtx, "hunt started", "keyword", target.Keyword, "location", target.Location)
	return session.Hunt()
}

// handoff generates the results once the simulation completes.
func (s *HuntService) handoff(ctx context.Context, session *Session) {
	profiles, err := s.deps.Generator.Generate(session.tier.ResultCount)

	session.mu.Lock()
	defer session.mu.Unlock()
	if session.hunt.Status != domain.HuntProcessing {
		return
	}
	if err != nil {
		session.hunt.Status = domain.HuntCancelled
		log.GlobalErrorCtx(ctx, "profile generation failed", "error", err)
		return
	}

	session.profiles = profiles
	session.byID = make(map[string]int, len(profiles))
	for i, p := range profiles {
		session.byID[p.ID] = i
	}
	session.hunt.Status = domain.HuntReady
	session.hunt.ReadyAt = s.now()
	log.GlobalInfoCtx(ctx, "hunt ready", "profiles", len(profiles))
}

// ProgressView is the processing screen of a hunt.
type ProgressView struct {
	Hunt domain.Hunt `json:"hunt"`
	simulator.View
	ResultsPath string `json:"resultsPath,omitempty"`
}

// Progress returns the current simulation state of a hunt.
func (s *HuntService) Progress(ctx context.Context, id string) (ProgressView, error) {
	session, err := s.session(id)
	if err != nil {
		return ProgressView{}, err
	}
	hunt := session.Hunt()
	if hunt.Status == domain.HuntCancelled {
		return ProgressView{}, domain.ErrHuntCancelled
	}

	view := ProgressView{
		Hunt: hunt,
		View: simulator.Describe(session.runner.Snapshot(), session.tier, hunt.Target.Handle),
	}
	if hunt.Status == domain.HuntReady {
		view.ResultsPath = "/api/hunts/" + hunt.ID + "/results"
	}
	return view, nil
}

// Cancel tears a hunt down: its timers stop and it is forgotten.
func (s *HuntService) Cancel(ctx context.Context, id string) error {
	session, err := s.session(id)
	if err != nil {
		return err
	}
	session.Stop()
	s.deps.Hunts.Delete(id)
	log.GlobalInfoCtx(ctx, "hunt cancelled", "hunt_id", id)
	return nil
}

func (s *HuntService) session(id string) (*Session, error) {
	session, ok := s.deps.Hunts.Get(id)
	if !ok {
		return nil, fmt.Errorf("hunt %q: %w", id, domain.ErrHuntNotFound)
	}
	return session, nil
}

// IsRecoverable reports whether the user can simply retry after err.
func IsRecoverable(err error) bool {
	return errors.Is(err, domain.ErrCheckoutFailed) || domain.IsValidation(err)
}
