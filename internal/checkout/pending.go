package checkout

import (
	"time"

	"github.com/pkg/errors"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/pkg/secretstore"
)

// PendingStore hands a finished checkout over to the onboarding flow.
type PendingStore interface {
	SavePending(pc domain.PendingCheckout, ttl time.Duration) error
	LoadPending() (*domain.PendingCheckout, error)
	DeletePending() error
}

// ErrNoPending is returned when no checkout is waiting for onboarding.
var ErrNoPending = errors.New("checkout: no pending checkout")

// PendingVault keeps the pending checkout in the encrypted vault. Entries
// carry a TTL so an abandoned signup expires instead of lingering on disk.
type PendingVault struct {
	Vault *secretstore.Store
}

func (v *PendingVault) SavePending(pc domain.PendingCheckout, ttl time.Duration) error {
	return v.Vault.SetJSON(secretstore.KeyPendingCheckout, pc, ttl)
}

func (v *PendingVault) LoadPending() (*domain.PendingCheckout, error) {
	var pc domain.PendingCheckout
	if err := v.Vault.GetJSON(secretstore.KeyPendingCheckout, &pc); err != nil {
		if errors.Is(err, secretstore.ErrNotFound) {
			return nil, ErrNoPending
		}
		return nil, err
	}
	return &pc, nil
}

func (v *PendingVault) DeletePending() error {
	return v.Vault.Delete(secretstore.KeyPendingCheckout)
}
