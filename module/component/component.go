package component

import (
	"context"
	"sync"

	"go.uber.org/atomic"

	"github.com/validated-streams/witness-guard/module"
	"github.com/validated-streams/witness-guard/module/irrecoverable"
	"github.com/validated-streams/witness-guard/module/util"
)

// Component can be started once. Its Done channel closes after shutdown,
// whether caused by cancellation or by an irrecoverable error.
type Component interface {
	module.Startable
	module.ReadyDoneAware
}

// ReadyFunc is called by a worker once it is ready to serve.
type ReadyFunc func()

// ComponentWorker is a long running routine of a component. It must return
// once ctx is done and may report fatal errors through ctx.Throw.
type ComponentWorker func(ctx irrecoverable.SignalerContext, ready ReadyFunc)

// ComponentManagerBuilder collects workers for a ComponentManager.
type ComponentManagerBuilder interface {
	AddWorker(ComponentWorker) ComponentManagerBuilder
	Build() *ComponentManager
}

type builder struct {
	workers []ComponentWorker
}

func NewComponentManagerBuilder() ComponentManagerBuilder {
	return &builder{}
}

// AddWorker is not safe for concurrent use.
func (b *builder) AddWorker(worker ComponentWorker) ComponentManagerBuilder {
	b.workers = append(b.workers, worker)
	return b
}

func (b *builder) Build() *ComponentManager {
	return &ComponentManager{
		started:  atomic.NewBool(false),
		ready:    make(chan struct{}),
		done:     make(chan struct{}),
		shutdown: make(chan struct{}),
		workers:  append([]ComponentWorker(nil), b.workers...),
	}
}

var _ Component = (*ComponentManager)(nil)

// ComponentManager runs a fixed set of workers under one SignalerContext.
// Ready closes when every worker has called its ReadyFunc and Done closes
// when every worker has returned. An error thrown by a worker cancels the
// remaining workers and is rethrown to the context given to Start.
type ComponentManager struct {
	started  *atomic.Bool
	ready    chan struct{}
	done     chan struct{}
	shutdown chan struct{}
	workers  []ComponentWorker
}

// Start launches all workers. It panics with module.ErrMultipleStartup if
// called more than once.
func (c *ComponentManager) Start(parent irrecoverable.SignalerContext) {
	if !c.started.CompareAndSwap(false, true) {
		panic(module.ErrMultipleStartup)
	}

	ctx, cancel := context.WithCancel(parent)
	signaler, errChan := irrecoverable.WithSignaler(ctx)

	var readyWG, doneWG sync.WaitGroup
	readyWG.Add(len(c.workers))
	doneWG.Add(len(c.workers))
	for _, worker := range c.workers {
		worker := worker
		go func() {
			defer doneWG.Done()
			var once sync.Once
			worker(signaler, func() { once.Do(readyWG.Done) })
		}()
	}

	workersDone := make(chan struct{})
	go func() {
		doneWG.Wait()
		close(workersDone)
	}()
	go func() {
		readyWG.Wait()
		close(c.ready)
	}()
	go func() {
		<-ctx.Done()
		close(c.shutdown)
	}()

	go func() {
		// Throw exits the goroutine, so waiting for the workers happens in
		// the deferred call. The parent learns about a failure before Done closes.
		defer func() {
			<-workersDone
			cancel()
			close(c.done)
		}()

		if err := util.WaitError(errChan, workersDone); err != nil {
			cancel()
			parent.Throw(err)
		}
	}()
}

// Ready closes once every worker is ready. It never closes if a worker
// returns without calling its ReadyFunc.
func (c *ComponentManager) Ready() <-chan struct{} {
	return c.ready
}

// Done closes once every worker has returned.
func (c *ComponentManager) Done() <-chan struct{} {
	return c.done
}

// ShutdownSignal closes when shutdown begins, either through cancellation of
// the parent context or because a worker threw an error.
func (c *ComponentManager) ShutdownSignal() <-chan struct{} {
	return c.shutdown
}
