package onboarding

import (
	"github.com/pkg/errors"

	"github.com/nextgenfx/fxterm/pkg/secretstore"
)

// TaskVault remembers follow-up tasks from a partially completed onboarding
// so the dashboard can keep showing them after the process exits. An empty
// save clears the record.
type TaskVault struct {
	Vault *secretstore.Store
}

func (v *TaskVault) SaveTasks(tasks []string) error {
	if len(tasks) == 0 {
		return v.ClearTasks()
	}
	return v.Vault.SetJSON(secretstore.KeyPendingTasks, tasks, 0)
}

// LoadTasks returns the recorded tasks, or nil when onboarding finished
// cleanly.
func (v *TaskVault) LoadTasks() ([]string, error) {
	var tasks []string
	if err := v.Vault.GetJSON(secretstore.KeyPendingTasks, &tasks); err != nil {
		if errors.Is(err, secretstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tasks, nil
}

func (v *TaskVault) ClearTasks() error {
	return v.Vault.Delete(secretstore.KeyPendingTasks)
}
