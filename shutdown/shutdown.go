// Package shutdown releases long-lived resources (headless browser, database) in a fixed order
// when the CLI exits or is interrupted.
package shutdown

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/flanksource/commons/logger"
)

// Lower priorities run first: stop producing output, then close the browser, then the store.
const (
	PriorityRenders  = 0
	PriorityDefault  = 100
	PriorityBrowser  = 200
	PriorityDatabase = 300
)

type hook struct {
	label    string
	priority int
	seq      int
	fn       func() error
	index    int
}

type hookHeap []*hook

func (h hookHeap) Len() int { return len(h) }
func (h hookHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}
func (h hookHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *hookHeap) Push(x any) {
	item := x.(*hook)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *hookHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

var (
	hooks    hookHeap
	hooksMux sync.Mutex
	seq      int
)

// AddHook registers fn at PriorityDefault.
func AddHook(label string, fn func() error) {
	AddHookWithPriority(label, PriorityDefault, fn)
}

// AddHookWithPriority registers fn. Hooks with equal priority run in registration order.
func AddHookWithPriority(label string, priority int, fn func() error) {
	hooksMux.Lock()
	defer hooksMux.Unlock()

	seq++
	heap.Push(&hooks, &hook{label: label, priority: priority, seq: seq, fn: fn})
}

// Shutdown runs and clears every registered hook. A failing or panicking hook does not stop
// the others; their errors are joined.
func Shutdown() error {
	hooksMux.Lock()
	defer hooksMux.Unlock()

	if len(hooks) == 0 {
		return nil
	}
	logger.Debugf("executing %d shutdown hooks", len(hooks))

	var errs []error
	for hooks.Len() > 0 {
		h := heap.Pop(&hooks).(*hook)
		logger.Tracef("shutdown hook: %s (priority=%d)", h.label, h.priority)
		if err := run(h); err != nil {
			logger.Warnf("shutdown hook %s failed: %v", h.label, err)
			errs = append(errs, fmt.Errorf("%s: %w", h.label, err))
		}
	}
	return errors.Join(errs...)
}

func run(h *hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.fn()
}

// WithSignals returns a context cancelled on SIGINT or SIGTERM. A second signal exits
// immediately after running the hooks.
func WithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigs:
			logger.Warnf("received %s, cancelling (press Ctrl+C again to force exit)", sig)
			cancel()
		case <-ctx.Done():
			signal.Stop(sigs)
			return
		}
		if _, ok := <-sigs; ok {
			_ = Shutdown()
			os.Exit(1)
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		cancel()
	}
}
