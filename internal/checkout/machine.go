package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/logger"
)

// Step is the current screen of the checkout flow.
type Step string

const (
	StepDetails    Step = "details"
	StepPayment    Step = "payment"
	StepProcessing Step = "processing"
	StepSuccess    Step = "success"
)

// Details is the account form of the first step.
type Details struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
	AgreedToTerms   bool
}

// PaymentDetails is the card form of the second step.
type PaymentDetails struct {
	CardNumber string
	ExpiryDate string
	CVV        string
	CardName   string
}

// Machine drives a checkout from the details form through payment to the
// success screen. Validation failures keep the machine on the current step
// with a message; nothing is sent anywhere until the gateway charge.
type Machine struct {
	plan    Plan
	step    Step
	details Details
	errMsg  string

	gateway Gateway
	pending PendingStore
	ttl     time.Duration
}

// NewMachine starts a checkout for planID. Unknown plan ids fall back to
// the professional tier. ttl bounds how long the pending payload may wait
// in the vault for onboarding.
func NewMachine(planID string, gw Gateway, pending PendingStore, ttl time.Duration) *Machine {
	return &Machine{
		plan:    PlanByID(planID),
		step:    StepDetails,
		gateway: gw,
		pending: pending,
		ttl:     ttl,
	}
}

func (m *Machine) Plan() Plan { return m.plan }

func (m *Machine) Step() Step { return m.step }

func (m *Machine) Err() string { return m.errMsg }

// SubmitDetails validates the account form and advances to the payment step.
// On a validation failure the machine stays on the details step and Err
// carries the message.
func (m *Machine) SubmitDetails(d Details) bool {
	if m.step != StepDetails {
		return false
	}
	if msg := validateDetails(d); msg != "" {
		m.errMsg = msg
		return false
	}
	m.details = d
	m.errMsg = ""
	m.step = StepPayment
	return true
}

// Back returns from the payment form to the details form.
func (m *Machine) Back() {
	if m.step == StepPayment {
		m.step = StepDetails
		m.errMsg = ""
	}
}

// SubmitPayment validates the card form, charges the gateway and, on
// success, parks the signup payload in the vault for onboarding. A gateway
// failure returns the machine to the payment step.
func (m *Machine) SubmitPayment(ctx context.Context, p PaymentDetails) (bool, error) {
	if m.step != StepPayment {
		return false, nil
	}
	if msg := validatePayment(p); msg != "" {
		m.errMsg = msg
		return false, nil
	}
	m.errMsg = ""
	m.step = StepProcessing

	paymentID, err := m.gateway.Charge(ctx, ChargeRequest{
		PlanID:     m.plan.ID,
		Amount:     m.plan.Price,
		CardNumber: digitsOnly(p.CardNumber),
		CardName:   p.CardName,
	})
	if err != nil {
		logger.Errorf("checkout: charge failed for plan %s: %v", m.plan.ID, err)
		m.step = StepPayment
		m.errMsg = "Payment failed. Please try again."
		return false, err
	}

	pc := domain.PendingCheckout{
		Email:     m.details.Email,
		FirstName: m.details.FirstName,
		LastName:  m.details.LastName,
		Password:  m.details.Password,
		PlanID:    m.plan.ID,
		PaymentID: paymentID,
		CreatedAt: time.Now(),
	}
	if err := m.pending.SavePending(pc, m.ttl); err != nil {
		logger.Errorf("checkout: storing pending checkout failed: %v", err)
		m.step = StepPayment
		m.errMsg = "Payment failed. Please try again."
		return false, err
	}

	logger.Infof("checkout: payment %s accepted for plan %s", paymentID, m.plan.ID)
	m.step = StepSuccess
	return true, nil
}

func validateDetails(d Details) string {
	if strings.TrimSpace(d.Email) == "" ||
		strings.TrimSpace(d.FirstName) == "" ||
		strings.TrimSpace(d.LastName) == "" ||
		d.Password == "" ||
		d.ConfirmPassword == "" {
		return "Please fill in all fields"
	}
	if len(d.Password) < 8 {
		return "Password must be at least 8 characters"
	}
	if d.Password != d.ConfirmPassword {
		return "Passwords do not match"
	}
	if !d.AgreedToTerms {
		return "You must agree to the terms and conditions"
	}
	return ""
}

func validatePayment(p PaymentDetails) string {
	if strings.TrimSpace(p.CardNumber) == "" ||
		strings.TrimSpace(p.ExpiryDate) == "" ||
		strings.TrimSpace(p.CVV) == "" ||
		strings.TrimSpace(p.CardName) == "" {
		return "Please fill in all payment details"
	}
	if len(digitsOnly(p.CardNumber)) < 16 {
		return "Please enter a valid card number"
	}
	return ""
}
