package syncgroup

import "sync"

type syncGroupFunc func()

// SyncGroup wraps sync.WaitGroup for fan-out/join call patterns: add the
// functions, Run them all, Wait for the join. The dashboard uses it to fetch
// trades and stats in parallel before swapping in a new snapshot.
type SyncGroup struct {
	wg sync.WaitGroup

	sgFuncsMu    sync.Mutex
	sgFuncs      []syncGroupFunc
	hasRun       bool
	runningCount int
}

func NewSyncGroup() *SyncGroup {
	return &SyncGroup{}
}

// Add queues fn for the next Run. Calls made while a previous Run is still
// in flight are dropped; WaitAndClear first.
func (w *SyncGroup) Add(fn syncGroupFunc) {
	if fn == nil {
		return
	}

	w.sgFuncsMu.Lock()
	defer w.sgFuncsMu.Unlock()

	if w.hasRun && w.runningCount > 0 {
		return
	}

	w.sgFuncs = append(w.sgFuncs, fn)
}

// Run starts one goroutine per queued function and clears the queue. A Run
// issued while goroutines from the previous Run are still alive is a no-op.
func (w *SyncGroup) Run() {
	w.sgFuncsMu.Lock()

	if w.hasRun && w.runningCount > 0 {
		w.sgFuncsMu.Unlock()
		return
	}

	fns := w.sgFuncs
	w.sgFuncs = []syncGroupFunc{}
	w.hasRun = true
	w.runningCount = len(fns)
	w.sgFuncsMu.Unlock()

	for _, fn := range fns {
		if fn == nil {
			continue
		}
		w.wg.Add(1)
		go func(doFunc syncGroupFunc) {
			defer func() {
				w.wg.Done()
				w.sgFuncsMu.Lock()
				w.runningCount--
				w.sgFuncsMu.Unlock()
			}()
			doFunc()
		}(fn)
	}
}

// WaitAndClear blocks until all goroutines finish, then resets the group for
// reuse.
func (w *SyncGroup) WaitAndClear() {
	w.wg.Wait()

	w.sgFuncsMu.Lock()
	w.sgFuncs = []syncGroupFunc{}
	w.hasRun = false
	w.runningCount = 0
	w.sgFuncsMu.Unlock()
}

// Wait blocks until all goroutines finish without resetting.
func (w *SyncGroup) Wait() {
	w.wg.Wait()
}
