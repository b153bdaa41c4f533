package onboarding

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/nextgenfx/fxterm/internal/checkout"
	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/api"
	"github.com/nextgenfx/fxterm/pkg/logger"
)

// Status classifies how Complete ended.
type Status int

const (
	// Completed means the account, subscription and trading account were
	// all set up.
	Completed Status = iota
	// CompletedWithPendingTasks means the account exists but one or more
	// follow-up calls failed; PendingTasks names them for support.
	CompletedWithPendingTasks
	// Failed means no usable account was created. The checkout payload is
	// kept so the flow can be retried.
	Failed
)

// Follow-up task names reported in Outcome.PendingTasks.
const (
	TaskSubscriptionCreate   = "subscription-create"
	TaskTradingAccountUpdate = "trading-account-update"
)

// Redirect targets after Complete.
const RedirectPricing = "/pricing"

// Outcome is the result of finishing onboarding. Partial failures are
// reported instead of swallowed so the user knows what still needs fixing.
type Outcome struct {
	Status       Status
	PendingTasks []string
	Email        string
	Redirect     string
	Err          error
}

// Registrar creates the account. session.Manager satisfies it and keeps the
// returned token so the follow-up calls below are authenticated.
type Registrar interface {
	Register(ctx context.Context, creds api.RegisterCredentials) (*api.AuthResponse, error)
}

// SubscriptionCreator activates the purchased plan for the new account.
type SubscriptionCreator interface {
	Create(ctx context.Context, req api.CreateSubscriptionRequest) (*domain.Subscription, error)
}

// TradingAccountUpdater stores MT5 details and the risk profile.
type TradingAccountUpdater interface {
	UpdateTradingAccount(ctx context.Context, update api.TradingAccountUpdate) (*domain.User, error)
}

// Runner finishes onboarding from the checkout payload parked in the vault.
type Runner struct {
	Pending       checkout.PendingStore
	Registrar     Registrar
	Subscriptions SubscriptionCreator
	Users         TradingAccountUpdater
}

// Complete creates the account from the pending checkout, activates the
// subscription, applies the wizard preferences and clears the payload.
//
// Follow-up failures after a successful registration are not fatal: support
// can finish those server side, so the user is still sent to the login page
// with the tasks listed in the outcome. A registration that yields no user
// id is fatal and keeps the payload for a retry.
func (r *Runner) Complete(ctx context.Context, prefs Preferences) Outcome {
	pc, err := r.Pending.LoadPending()
	if err != nil {
		if errors.Is(err, checkout.ErrNoPending) {
			return Outcome{Status: Failed, Redirect: RedirectPricing, Err: err}
		}
		return Outcome{Status: Failed, Err: err}
	}

	resp, err := r.Registrar.Register(ctx, api.RegisterCredentials{
		FirstName:       pc.FirstName,
		LastName:        pc.LastName,
		Email:           pc.Email,
		Password:        pc.Password,
		ConfirmPassword: pc.Password,
	})
	if err != nil {
		return Outcome{Status: Failed, Email: pc.Email, Err: errors.Wrap(err, "onboarding: register")}
	}
	if resp.User.ID == "" {
		return Outcome{
			Status: Failed,
			Email:  pc.Email,
			Err:    errors.New("onboarding: registration returned no user id"),
		}
	}

	var tasks []string

	if _, err := r.Subscriptions.Create(ctx, api.CreateSubscriptionRequest{
		UserID:        resp.User.ID,
		PlanID:        pc.PlanID,
		PaymentID:     pc.PaymentID,
		PaymentMethod: "card",
	}); err != nil {
		logger.Errorf("onboarding: subscription create failed for %s: %v", pc.Email, err)
		tasks = append(tasks, TaskSubscriptionCreate)
	}

	// The trading account call only happens when the wizard collected MT5
	// details; a user without a terminal keeps the server-side defaults.
	if prefs.MT5Login != "" || prefs.MT5Server != "" {
		if _, err := r.Users.UpdateTradingAccount(ctx, tradingAccountUpdate(prefs)); err != nil {
			logger.Errorf("onboarding: trading account update failed for %s: %v", pc.Email, err)
			tasks = append(tasks, TaskTradingAccountUpdate)
		}
	}

	// The account exists, so the payload has served its purpose even when
	// follow-ups failed. Keeping it would re-register on a retry.
	if err := r.Pending.DeletePending(); err != nil {
		logger.Warnf("onboarding: deleting pending checkout failed: %v", err)
	}

	out := Outcome{
		Status:       Completed,
		PendingTasks: tasks,
		Email:        pc.Email,
		Redirect:     loginRedirect(pc.Email),
	}
	if len(tasks) > 0 {
		out.Status = CompletedWithPendingTasks
	}
	return out
}

func tradingAccountUpdate(prefs Preferences) api.TradingAccountUpdate {
	risk := prefs.RiskProfile
	if !risk.Valid() {
		risk = domain.DefaultRiskProfile
	}
	upd := api.TradingAccountUpdate{RiskProfile: risk}
	if prefs.MT5Login != "" {
		login := prefs.MT5Login
		upd.MT5Login = &login
	}
	if prefs.MT5Server != "" {
		server := prefs.MT5Server
		upd.MT5Server = &server
	}
	return upd
}

func loginRedirect(email string) string {
	return "/auth/login?onboarding=complete&email=" + url.QueryEscape(email)
}
