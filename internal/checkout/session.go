// Package checkout drives the data bundle purchase flow: plan selection,
// number entry, payment confirmation, the simulated payment life cycle
// and the final success stage. All flow state lives on a single Session
// owned by its creator; there is no package-level mutable state.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/datahubke/datahub-payments-backend/internal/models"
	"github.com/datahubke/datahub-payments-backend/internal/phone"
	"github.com/datahubke/datahub-payments-backend/pkg/logger"
)

// State names one stage of the flow. Exactly one state is visible at a
// time.
type State string

const (
	StatePlanSelection       State = "plans"
	StateNumberEntry         State = "numbers"
	StatePaymentConfirmation State = "payment"
	StateProcessing          State = "processing"
	StateSuccess             State = "success"
)

// ErrInvalidState is returned when an operation fires in a state that has
// no transition for it.
var ErrInvalidState = errors.New("operation not allowed in current state")

// ErrUnknownPlan is returned when a selected plan is not in the catalog.
var ErrUnknownPlan = errors.New("plan is not in the catalog")

// PaymentInitiator initiates the charge for a confirmed order.
type PaymentInitiator interface {
	InitiateCharge(ctx context.Context, phoneNumber string, amount float64) (map[string]interface{}, error)
}

// OrderRecorder commits finished orders to the history log.
type OrderRecorder interface {
	CompleteOrder(ctx context.Context, order *models.Order) (*models.OrderHistoryEntry, error)
}

// Delays configures the simulated payment confirmation sequence. The
// sequence stands in for real provider status polling: it advances on
// fixed timers, not on provider callbacks.
type Delays struct {
	// STKWait is how long after a successful STK push the flow announces
	// it is waiting for the PIN.
	STKWait time.Duration
	// PINEntry is how long after the push the payment is announced
	// successful.
	PINEntry time.Duration
	// Finalize is the pause between the success announcement and the
	// order being committed.
	Finalize time.Duration
	// ErrorReturn is how long a failed charge stays on screen before the
	// flow returns to confirmation.
	ErrorReturn time.Duration
	// Notification is how long transient notifications stay up.
	Notification time.Duration
}

// DefaultDelays returns the production timings
func DefaultDelays() Delays {
	return Delays{
		STKWait:      2 * time.Second,
		PINEntry:     10 * time.Second,
		Finalize:     1500 * time.Millisecond,
		ErrorReturn:  2 * time.Second,
		Notification: 3 * time.Second,
	}
}

// Progress is the announcement shown while processing. Steps mark the
// three stages: STK push sent, waiting for PIN, payment successful.
type Progress struct {
	Steps    [3]bool
	Headline string
	Detail   string
}

// Summary holds the derived display values for the confirmation and
// success stages. Formatting is presentation-only; stored numbers keep
// their 10-digit form.
type Summary struct {
	PlanLine        string
	SafaricomNumber string
	AirtelNumber    string
	TotalLine       string
}

// Config wires a session's collaborators
type Config struct {
	Plans     []models.Plan
	Payments  PaymentInitiator
	Orders    OrderRecorder
	Views     ViewRegistry
	Notifier  Notifier
	Scheduler Scheduler
	Delays    Delays
	Log       logger.Logger
}

// Session owns the state of one checkout flow
type Session struct {
	mu sync.Mutex

	state        State
	selectedPlan *models.Plan
	safaricom    string
	airtel       string
	order        *models.Order
	entry        *models.OrderHistoryEntry
	progress     Progress

	// gen invalidates scheduled advances and in-flight charge results
	// from an order that has since been replaced.
	gen uint64

	plans     []models.Plan
	payments  PaymentInitiator
	orders    OrderRecorder
	views     ViewRegistry
	notifier  Notifier
	scheduler Scheduler
	delays    Delays
	log       logger.Logger
}

// NewSession creates a session in the plan selection state and shows its
// view.
func NewSession(cfg Config) *Session {
	if cfg.Notifier == nil {
		cfg.Notifier = NopNotifier{}
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = NewScheduler()
	}
	if cfg.Log == nil {
		cfg.Log = logger.Nop()
	}

	s := &Session{
		plans:     cfg.Plans,
		payments:  cfg.Payments,
		orders:    cfg.Orders,
		views:     cfg.Views,
		notifier:  cfg.Notifier,
		scheduler: cfg.Scheduler,
		delays:    cfg.Delays,
		log:       cfg.Log,
	}

	s.mu.Lock()
	s.transitionLocked(StatePlanSelection)
	s.mu.Unlock()
	return s
}

// State returns the currently visible state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SelectPlan picks a plan by name from the catalog and moves the flow to
// number entry. Selecting replaces any prior selection.
func (s *Session) SelectPlan(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePlanSelection {
		return fmt.Errorf("%w: select plan in %s", ErrInvalidState, s.state)
	}

	for i := range s.plans {
		if s.plans[i].Name == name {
			plan := s.plans[i]
			s.selectedPlan = &plan
			s.transitionLocked(StateNumberEntry)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPlan, name)
}

// EnterNumbers records the two numbers, sanitizing raw input the way the
// entry fields do on every edit. It reports whether the flow can proceed:
// a valid Safaricom number and a selected plan.
func (s *Session) EnterNumbers(safaricom, airtel string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNumberEntry {
		return false, fmt.Errorf("%w: enter numbers in %s", ErrInvalidState, s.state)
	}

	s.safaricom = phone.SanitizeInput(safaricom)
	s.airtel = phone.SanitizeInput(airtel)
	return s.canProceedLocked(), nil
}

// CanProceed reports whether the proceed action is enabled
func (s *Session) CanProceed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canProceedLocked()
}

func (s *Session) canProceedLocked() bool {
	return phone.IsSafaricom(s.safaricom) && s.selectedPlan != nil
}

// Proceed runs the validation guard and, when it passes, creates the
// order and moves to payment confirmation. When it fails the state does
// not change and a transient error notification is shown.
func (s *Session) Proceed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNumberEntry {
		return fmt.Errorf("%w: proceed in %s", ErrInvalidState, s.state)
	}

	valid := s.canProceedLocked() && (s.airtel == "" || phone.IsAirtel(s.airtel))
	if !valid {
		s.notifyLocked("Please enter a valid Safaricom number and select a plan")
		return errors.New("checkout: validation guard failed")
	}

	airtel := s.airtel
	if airtel == "" {
		airtel = s.safaricom
	}
	s.order = &models.Order{
		Plan:            *s.selectedPlan,
		SafaricomNumber: s.safaricom,
		AirtelNumber:    airtel,
		CreatedAt:       time.Now(),
	}
	s.transitionLocked(StatePaymentConfirmation)
	return nil
}

// Summary returns the derived display values for the in-flight order
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order == nil {
		return Summary{}
	}
	return Summary{
		PlanLine:        s.order.Plan.Name + " - Ksh " + strconv.Itoa(s.order.Plan.Price),
		SafaricomNumber: phone.FormatDisplay(s.order.SafaricomNumber),
		AirtelNumber:    phone.FormatDisplay(s.order.AirtelNumber),
		TotalLine:       "Ksh " + strconv.Itoa(s.order.Plan.Price),
	}
}

// ConfirmPayment moves to processing and initiates the charge. On success
// the simulated confirmation sequence is scheduled; on failure the flow
// returns to confirmation after the error delay. Scheduled advances from
// any earlier order are cancelled first.
func (s *Session) ConfirmPayment(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StatePaymentConfirmation {
		s.mu.Unlock()
		return fmt.Errorf("%w: confirm payment in %s", ErrInvalidState, s.state)
	}

	s.scheduler.CancelAll()
	s.gen++
	gen := s.gen
	order := s.order

	s.progress = Progress{
		Headline: "Initiating M-Pesa STK Push",
		Detail:   "Sending payment request to your Safaricom number...",
	}
	s.transitionLocked(StateProcessing)
	s.mu.Unlock()

	// The charge call runs outside the lock. The generation check below
	// discards the outcome when a new order replaced this one meanwhile.
	_, err := s.payments.InitiateCharge(ctx, order.SafaricomNumber, float64(order.Plan.Price))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen || s.state != StateProcessing {
		return nil
	}

	if err != nil {
		s.log.Warn("STK push failed, returning to confirmation",
			logger.Field{Key: "error", Value: err.Error()})
		s.notifyLocked("Failed to send STK push. Please try again.")
		s.scheduleLocked(s.delays.ErrorReturn, gen, func() {
			s.transitionLocked(StatePaymentConfirmation)
		})
		return err
	}

	s.progress.Steps[0] = true
	s.progress.Headline = "STK Push Sent"
	s.progress.Detail = "Check your phone " + phone.FormatDisplay(order.SafaricomNumber) + " for M-Pesa prompt"

	s.scheduleLocked(s.delays.STKWait, gen, func() {
		s.progress.Steps[1] = true
		s.progress.Headline = "Waiting for Payment"
		s.progress.Detail = "Please enter your M-Pesa PIN to complete the transaction..."
	})
	s.scheduleLocked(s.delays.PINEntry, gen, func() {
		s.progress.Steps[2] = true
		s.progress.Headline = "Payment Successful"
		s.progress.Detail = "Activating your data plan..."
		s.scheduleLocked(s.delays.Finalize, gen, s.completeLocked)
	})
	return nil
}

// ProcessingProgress returns the current processing announcement
func (s *Session) ProcessingProgress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// CompletedEntry returns the history entry of the finished order, or nil
// before success.
func (s *Session) CompletedEntry() *models.OrderHistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entry
}

// NewOrder clears all transient state and returns to plan selection.
// Every pending scheduled advance is cancelled, so a prior order's timers
// can never touch the new one.
func (s *Session) NewOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler.CancelAll()
	s.gen++
	s.notifier.Dismiss()

	s.selectedPlan = nil
	s.safaricom = ""
	s.airtel = ""
	s.order = nil
	s.entry = nil
	s.progress = Progress{}

	s.transitionLocked(StatePlanSelection)
}

// completeLocked commits the order to history and shows the success
// stage. Called with mu held, from the final scheduled advance.
func (s *Session) completeLocked() {
	entry, err := s.orders.CompleteOrder(context.Background(), s.order)
	if err != nil {
		// The charge already went through; failing to record history must
		// not strand the buyer in processing.
		s.log.Error("failed to record order history",
			logger.Field{Key: "error", Value: err.Error()})
	}
	s.entry = entry
	s.transitionLocked(StateSuccess)
}

// scheduleLocked registers a deferred advance bound to the given
// generation; it is a no-op by the time it fires if the order was
// replaced.
func (s *Session) scheduleLocked(d time.Duration, gen uint64, fn func()) {
	s.scheduler.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return
		}
		fn()
	})
}

// notifyLocked shows a transient error and schedules its dismissal
func (s *Session) notifyLocked(message string) {
	s.notifier.ShowError(message)
	s.scheduler.AfterFunc(s.delays.Notification, s.notifier.Dismiss)
}

// transitionLocked hides every view, then shows the target, so no two
// states are ever visible at once.
func (s *Session) transitionLocked(next State) {
	for st, v := range s.views {
		if st != next {
			v.Hide()
		}
	}
	if v, ok := s.views[next]; ok {
		v.Show()
	}
	s.state = next
}
