// Package dashboard renders the terminal trading dashboard: the cached
// trade table, server stats, the indicative quote strip and the account
// panel, refreshed in the background while Bubble Tea owns the screen.
package dashboard

import (
	"context"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/nextgenfx/fxterm/internal/domain"
	"github.com/nextgenfx/fxterm/internal/store"
	"github.com/nextgenfx/fxterm/internal/ticker"
	"github.com/nextgenfx/fxterm/pkg/logger"
)

// Options configures a dashboard run.
type Options struct {
	Title        string
	TickInterval time.Duration
}

// Dashboard wires the refresher, the quote ticker and the store into one
// snapshot stream consumed by the Bubble Tea model.
type Dashboard struct {
	opts      Options
	refresher *Refresher
	store     *store.TradingStore
	ticker    *ticker.Ticker

	mu           sync.RWMutex
	user         *domain.User
	pendingTasks []string

	updateCh chan *Snapshot
	program  *tea.Program
}

func New(opts Options, r *Refresher, st *store.TradingStore, tk *ticker.Ticker) *Dashboard {
	if opts.Title == "" {
		opts.Title = "Trading Dashboard"
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 2 * time.Second
	}
	return &Dashboard{
		opts:      opts,
		refresher: r,
		store:     st,
		ticker:    tk,
		updateCh:  make(chan *Snapshot, 10),
	}
}

// SetUser sets the identity shown in the header and account panel.
func (d *Dashboard) SetUser(user *domain.User) {
	d.mu.Lock()
	d.user = user
	d.mu.Unlock()
}

// SetPendingTasks shows the onboarding follow-up banner.
func (d *Dashboard) SetPendingTasks(tasks []string) {
	d.mu.Lock()
	d.pendingTasks = append([]string(nil), tasks...)
	d.mu.Unlock()
}

// Run blocks until the user quits or ctx is cancelled. Outside a terminal
// it degrades to one refresh and returns, which keeps scripted invocations
// from hanging on a TUI that cannot draw.
func (d *Dashboard) Run(ctx context.Context) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return d.refresher.RefreshOnce(ctx)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go d.refresher.Run(runCtx)
	go d.tickLoop(runCtx)
	go d.storeLoop(runCtx)

	d.pushSnapshot()

	m := newModel(d.opts.Title, d.updateCh)
	d.program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(runCtx))
	_, err := d.program.Run()
	if err != nil && runCtx.Err() == nil {
		logger.Errorf("dashboard: UI stopped: %v", err)
		return err
	}
	return nil
}

func (d *Dashboard) tickLoop(ctx context.Context) {
	t := time.NewTicker(d.opts.TickInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.ticker.Tick()
			d.pushSnapshot()
		}
	}
}

func (d *Dashboard) storeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.store.Changed():
			d.pushSnapshot()
		}
	}
}

// pushSnapshot drains stale frames and enqueues the latest one.
func (d *Dashboard) pushSnapshot() {
	d.mu.RLock()
	user := d.user
	tasks := d.pendingTasks
	d.mu.RUnlock()

	snap := BuildSnapshot(user, d.store, d.ticker.Quotes(), tasks)
	for {
		select {
		case <-d.updateCh:
		default:
			select {
			case d.updateCh <- snap:
			default:
			}
			return
		}
	}
}
