package runtime

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/mpi-runtime/attr"
	"github.com/wippyai/mpi-runtime/datatype"
	"github.com/wippyai/mpi-runtime/pool"
	"github.com/wippyai/mpi-runtime/typerep"
)

// Process is the object-model state of one MPI process: the keyval and
// datatype pools, the attribute hook registration and the representation
// engine. Every exported method holds the process critical section for its
// whole duration.
type Process struct {
	cs      sync.Mutex
	keyvals *attr.Manager
	hooks   *attr.Hooks
	types   *datatype.Registry
	engine  typerep.Constructor
	log     *zap.Logger
	id      uuid.UUID
}

var (
	defaultProcess *Process
	defaultOnce    sync.Once
)

// Default returns the process-wide instance, creating it with DefaultConfig
// on first use.
func Default() *Process {
	defaultOnce.Do(func() {
		defaultProcess = New(nil)
	})
	return defaultProcess
}

// New creates a process. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Process {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	eng := cfg.Engine
	if eng == nil {
		eng = typerep.NewLocalEngine()
	}
	log := cfg.Logger
	if log == nil {
		log = Logger()
	}

	id := uuid.New()
	hooks := attr.NewHooks(cfg.HookBinder)
	p := &Process{
		keyvals: attr.NewManager(cfg.KeyvalCapacity, hooks),
		hooks:   hooks,
		types:   datatype.NewRegistry(eng, cfg.DatatypeCapacity),
		engine:  eng,
		log:     log.With(zap.Stringer("process", id)),
		id:      id,
	}
	p.log.Debug("process created",
		zap.Int("keyval_capacity", cfg.KeyvalCapacity),
		zap.Int("datatype_capacity", cfg.DatatypeCapacity))
	return p
}

// ID returns the process identifier attached to its log entries.
func (p *Process) ID() uuid.UUID {
	return p.id
}

// Hooks returns the attribute hook registration of the process.
func (p *Process) Hooks() *attr.Hooks {
	return p.hooks
}

// Stats is a snapshot of pool occupancy.
type Stats struct {
	Keyvals         int
	Datatypes       int
	Representations int
	HooksBound      bool
}

// liveCounter is implemented by engines that track their allocations.
type liveCounter interface {
	Live() int
}

// Stats returns the current pool occupancy. Representations is -1 when the
// engine does not report its allocations.
func (p *Process) Stats() Stats {
	p.cs.Lock()
	defer p.cs.Unlock()

	s := Stats{
		Keyvals:         p.keyvals.Len(),
		Datatypes:       p.types.Len(),
		Representations: -1,
		HooksBound:      p.hooks.Bound(),
	}
	if lc, ok := p.engine.(liveCounter); ok {
		s.Representations = lc.Live()
	}
	return s
}

// Subscribe adds an observer for keyval and datatype pool events.
// Observers run with the critical section held and must not call back into
// the process.
func (p *Process) Subscribe(o pool.Observer) {
	p.cs.Lock()
	defer p.cs.Unlock()
	p.keyvals.Subscribe(o)
	p.types.Subscribe(o)
}

// Unsubscribe removes an observer from both pools.
func (p *Process) Unsubscribe(o pool.Observer) {
	p.cs.Lock()
	defer p.cs.Unlock()
	p.keyvals.Unsubscribe(o)
	p.types.Unsubscribe(o)
}
