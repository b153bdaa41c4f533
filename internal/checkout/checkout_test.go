package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/secretstore"
)

type fakeGateway struct {
	paymentID string
	err       error
	lastReq   ChargeRequest
}

func (g *fakeGateway) Charge(_ context.Context, req ChargeRequest) (string, error) {
	g.lastReq = req
	if g.err != nil {
		return "", g.err
	}
	return g.paymentID, nil
}

type memPending struct {
	saved *domain.PendingCheckout
	ttl   time.Duration
	err   error
}

func (p *memPending) SavePending(pc domain.PendingCheckout, ttl time.Duration) error {
	if p.err != nil {
		return p.err
	}
	p.saved = &pc
	p.ttl = ttl
	return nil
}

func (p *memPending) LoadPending() (*domain.PendingCheckout, error) {
	if p.saved == nil {
		return nil, ErrNoPending
	}
	return p.saved, nil
}

func (p *memPending) DeletePending() error {
	p.saved = nil
	return nil
}

func validDetails() Details {
	return Details{
		Email:           "jane@example.com",
		FirstName:       "Jane",
		LastName:        "Doe",
		Password:        "abcdefgh",
		ConfirmPassword: "abcdefgh",
		AgreedToTerms:   true,
	}
}

func validPayment() PaymentDetails {
	return PaymentDetails{
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "12/27",
		CVV:        "123",
		CardName:   "Jane Doe",
	}
}

func TestPlanByID_FallsBackToProfessional(t *testing.T) {
	assert.Equal(t, 99.0, PlanByID("starter").Price)
	assert.Equal(t, 999.0, PlanByID("enterprise").Price)
	assert.Equal(t, "professional", PlanByID("no-such-plan").ID)
	assert.Equal(t, 299.0, PlanByID("no-such-plan").Price)
}

func TestSubmitDetails_PasswordLength(t *testing.T) {
	m := NewMachine("starter", &fakeGateway{}, &memPending{}, time.Hour)

	short := validDetails()
	short.Password = "abcdefg"
	short.ConfirmPassword = "abcdefg"
	assert.False(t, m.SubmitDetails(short))
	assert.Equal(t, StepDetails, m.Step())
	assert.Equal(t, "Password must be at least 8 characters", m.Err())

	ok := validDetails()
	assert.True(t, m.SubmitDetails(ok))
	assert.Equal(t, StepPayment, m.Step())
	assert.Empty(t, m.Err())
}

func TestSubmitDetails_Guards(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Details)
		msg    string
	}{
		{"missing email", func(d *Details) { d.Email = "" }, "Please fill in all fields"},
		{"mismatch", func(d *Details) { d.ConfirmPassword = "different1" }, "Passwords do not match"},
		{"no terms", func(d *Details) { d.AgreedToTerms = false }, "You must agree to the terms and conditions"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine("starter", &fakeGateway{}, &memPending{}, time.Hour)
			d := validDetails()
			tc.mutate(&d)
			assert.False(t, m.SubmitDetails(d))
			assert.Equal(t, StepDetails, m.Step())
			assert.Equal(t, tc.msg, m.Err())
		})
	}
}

func TestSubmitPayment_CardNumberLength(t *testing.T) {
	m := NewMachine("starter", &fakeGateway{paymentID: "pay_1"}, &memPending{}, time.Hour)
	require.True(t, m.SubmitDetails(validDetails()))

	short := validPayment()
	short.CardNumber = "4111 1111 1111"
	ok, err := m.SubmitPayment(context.Background(), short)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, StepPayment, m.Step())
	assert.Equal(t, "Please enter a valid card number", m.Err())

	ok, err = m.SubmitPayment(context.Background(), validPayment())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, StepSuccess, m.Step())
}

func TestSubmitPayment_StoresPendingCheckout(t *testing.T) {
	gw := &fakeGateway{paymentID: "pay_42"}
	pending := &memPending{}
	m := NewMachine("enterprise", gw, pending, 24*time.Hour)
	require.True(t, m.SubmitDetails(validDetails()))

	ok, err := m.SubmitPayment(context.Background(), validPayment())
	require.NoError(t, err)
	require.True(t, ok)

	require.NotNil(t, pending.saved)
	assert.Equal(t, "jane@example.com", pending.saved.Email)
	assert.Equal(t, "enterprise", pending.saved.PlanID)
	assert.Equal(t, "pay_42", pending.saved.PaymentID)
	assert.Equal(t, 24*time.Hour, pending.ttl)
	assert.Equal(t, "4111111111111111", gw.lastReq.CardNumber)
	assert.Equal(t, 999.0, gw.lastReq.Amount)
}

func TestSubmitPayment_GatewayFailureReturnsToPayment(t *testing.T) {
	gw := &fakeGateway{err: errors.New("declined")}
	pending := &memPending{}
	m := NewMachine("starter", gw, pending, time.Hour)
	require.True(t, m.SubmitDetails(validDetails()))

	ok, err := m.SubmitPayment(context.Background(), validPayment())
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, StepPayment, m.Step())
	assert.Equal(t, "Payment failed. Please try again.", m.Err())
	assert.Nil(t, pending.saved)
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111111111111111"))
	assert.Equal(t, "4111 1111 1111 1111", FormatCardNumber("4111-1111-1111-11119999"))
	assert.Equal(t, "4111 1", FormatCardNumber("41111"))
	assert.Equal(t, "12/27", FormatExpiry("1227"))
	assert.Equal(t, "12", FormatExpiry("12"))
	assert.Equal(t, "12/2", FormatExpiry("122"))
	assert.Equal(t, "1234", FormatCVV("12345"))
	assert.Equal(t, "123", FormatCVV("12a3"))
}

func TestPendingVault_RoundTripAndExpiry(t *testing.T) {
	vault, err := secretstore.Open(secretstore.OpenOptions{Path: t.TempDir()})
	require.NoError(t, err)
	defer vault.Close()

	pv := &PendingVault{Vault: vault}

	_, err = pv.LoadPending()
	require.ErrorIs(t, err, ErrNoPending)

	pc := domain.PendingCheckout{
		Email:     "jane@example.com",
		PlanID:    "starter",
		PaymentID: "pay_1",
		CreatedAt: time.Now(),
	}
	require.NoError(t, pv.SavePending(pc, time.Hour))

	got, err := pv.LoadPending()
	require.NoError(t, err)
	assert.Equal(t, pc.Email, got.Email)
	assert.Equal(t, pc.PaymentID, got.PaymentID)

	require.NoError(t, pv.DeletePending())
	_, err = pv.LoadPending()
	require.ErrorIs(t, err, ErrNoPending)

	// Badger expires TTL entries on read.
	require.NoError(t, pv.SavePending(pc, 50*time.Millisecond))
	time.Sleep(120 * time.Millisecond)
	_, err = pv.LoadPending()
	require.ErrorIs(t, err, ErrNoPending)
}
