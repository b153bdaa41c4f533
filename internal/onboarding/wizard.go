package onboarding

import "github.com/nextgenfx/fxterm/internal/domain"

// Step is one screen of the post-checkout wizard.
type Step int

const (
	StepWelcome Step = iota + 1
	StepPreferences
	StepMT5
	StepComplete
)

// Preferences collects what the wizard asks for. The MT5 fields are
// optional; an empty login means the user will connect a terminal later.
type Preferences struct {
	RiskProfile domain.RiskProfile
	MT5Login    string
	MT5Server   string
}

// Wizard tracks progress through the four onboarding screens.
type Wizard struct {
	step  Step
	prefs Preferences
}

func NewWizard() *Wizard {
	return &Wizard{
		step:  StepWelcome,
		prefs: Preferences{RiskProfile: domain.DefaultRiskProfile},
	}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Preferences() Preferences { return w.prefs }

func (w *Wizard) SetPreferences(p Preferences) {
	if !p.RiskProfile.Valid() {
		p.RiskProfile = domain.DefaultRiskProfile
	}
	w.prefs = p
}

func (w *Wizard) Next() {
	if w.step < StepComplete {
		w.step++
	}
}

func (w *Wizard) Prev() {
	if w.step > StepWelcome {
		w.step--
	}
}
