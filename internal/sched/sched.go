// Package sched provides the data-flow task scheduler for the Mosaic engine.
//
// The scheduler is an explicit handle threaded through evaluator and
// reduction constructors rather than process-wide state. Work is expressed as
// tasks over a fixed worker pool; a task that depends on futures is
// registered with When and becomes runnable only once every future argument
// has resolved. Workers never block mid-task and tasks run to completion.
package sched

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/mosaic-hpc/mosaic/internal/future"
)

// Priority selects the scheduling queue for a task. High-priority tasks sit
// on the critical path of tile availability and are dispatched before normal
// work.
type Priority int

const (
	Normal Priority = iota
	High
)

// Config controls the scheduler.
type Config struct {
	// Workers is the number of worker goroutines in the pool.
	Workers int `yaml:"workers"`
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU()}
}

// LoadConfig reads a Config from a YAML file. Missing fields fall back to
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sched: reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sched: parsing config %q: %w", path, err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	return cfg, nil
}

// Scheduler runs tasks on a fixed pool of workers with two priority levels.
type Scheduler struct {
	mu     sync.Mutex
	cond   *sync.Cond
	hi     []func()
	lo     []func()
	closed bool

	inflight sync.WaitGroup // tasks submitted or registered, not yet finished
	workers  sync.WaitGroup
}

// New creates a scheduler and starts its worker pool.
func New(cfg Config) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultConfig().Workers
	}
	s := &Scheduler{}
	s.cond = sync.NewCond(&s.mu)
	s.workers.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go s.work()
	}
	return s
}

// Submit enqueues fn for execution at the given priority. Submit never
// blocks; the queues are unbounded so tasks may safely submit further tasks.
func (s *Scheduler) Submit(pri Priority, fn func()) {
	s.inflight.Add(1)
	s.push(pri, fn)
}

// Fence blocks until every submitted task and every registered continuation
// has run. It is an epoch barrier for callers; a continuation waiting on a
// future that never resolves will block the fence.
func (s *Scheduler) Fence() {
	s.inflight.Wait()
}

// Shutdown stops the worker pool after draining queued tasks. Continuations
// still waiting on unresolved futures are abandoned.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cond.Broadcast()
	s.workers.Wait()
}

func (s *Scheduler) push(pri Priority, fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		panic("sched: submit on a shut-down scheduler")
	}
	if pri == High {
		s.hi = append(s.hi, fn)
	} else {
		s.lo = append(s.lo, fn)
	}
	s.mu.Unlock()
	s.cond.Signal()
}

func (s *Scheduler) work() {
	defer s.workers.Done()
	for {
		s.mu.Lock()
		for len(s.hi) == 0 && len(s.lo) == 0 && !s.closed {
			s.cond.Wait()
		}
		var fn func()
		switch {
		case len(s.hi) > 0:
			fn, s.hi = s.hi[0], s.hi[1:]
		case len(s.lo) > 0:
			fn, s.lo = s.lo[0], s.lo[1:]
		default:
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		fn()
		s.inflight.Done()
	}
}

// When registers fn to run on the pool once f resolves. The dependency is
// counted toward Fence from the moment of registration. If f is already
// resolved the task is enqueued immediately; the continuation itself never
// runs on the resolving goroutine.
func When[T any](s *Scheduler, pri Priority, f *future.Future[T], fn func(T)) {
	s.inflight.Add(1)
	f.Subscribe(func(v T) {
		s.push(pri, func() { fn(v) })
	})
}

// When2 registers fn to run on the pool once both fa and fb resolve.
func When2[A, B any](s *Scheduler, pri Priority, fa *future.Future[A], fb *future.Future[B], fn func(A, B)) {
	s.inflight.Add(1)
	fa.Subscribe(func(a A) {
		fb.Subscribe(func(b B) {
			s.push(pri, func() { fn(a, b) })
		})
	})
}
