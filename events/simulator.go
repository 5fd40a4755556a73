package events

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/process"
	"golang.org/x/exp/slog"
)

// SimulatorOptions configures a Simulator
type SimulatorOptions struct {
	// Quantum is the longest a process may run before yielding to the next. 0 runs every process
	// to completion in start order.
	Quantum uint64 `yaml:"quantum"`
	// IdleStep is how far time advances when nothing is running and no arrival hint is available.
	// 0 means 1.
	IdleStep uint64 `yaml:"idleStep"`
}

type runningProcess struct {
	pid       process.PID
	remaining uint64
}

// Simulator is a Scheduler that time-slices started processes in round-robin order. Each process
// needs exactly its duration of CPU time before it completes.
type Simulator struct {
	logger  *slog.Logger
	options SimulatorOptions
	now     func() uint64
	hint    ArrivalHint

	started []process.PID
	ready   []runningProcess
}

var _ Scheduler = &Simulator{}

// NewSimulator creates a simulator. now reports the current simulated time and hint, which may be
// nil, supplies the next arrival for idle periods.
func NewSimulator(logger *slog.Logger, now func() uint64, hint ArrivalHint, options SimulatorOptions) (*Simulator, error) {
	if logger == nil {
		return nil, errors.New("attempted to create a simulator without a logger")
	}
	if now == nil {
		return nil, errors.New("attempted to create a simulator without a clock")
	}

	if options.IdleStep == 0 {
		options.IdleStep = 1
	}

	return &Simulator{
		logger:  logger,
		options: options,
		now:     now,
		hint:    hint,
	}, nil
}

func (s *Simulator) ProcessStarted(pid process.PID, duration uint64) {
	s.logger.Debug("Simulator::ProcessStarted", slog.Int("PID", int(pid)), slog.Uint64("Duration", duration))

	s.started = append(s.started, pid)
	s.ready = append(s.ready, runningProcess{pid: pid, remaining: duration})
}

// Running returns the number of processes the simulator is time-slicing
func (s *Simulator) Running() int {
	return len(s.ready)
}

func (s *Simulator) AdvanceToNextEvent() Event {
	if len(s.started) > 0 {
		pid := s.started[0]
		s.started = s.started[1:]
		return Event{Kind: KindStarted, PID: pid}
	}

	if len(s.ready) == 0 {
		return Event{Elapsed: s.idleElapsed(), Kind: KindNone}
	}

	current := s.ready[0]
	s.ready = s.ready[1:]

	slice := current.remaining
	if s.options.Quantum > 0 && s.options.Quantum < slice {
		slice = s.options.Quantum
	}
	current.remaining -= slice

	if current.remaining == 0 {
		s.logger.Debug("Simulator::AdvanceToNextEvent", slog.Int("PID", int(current.pid)), slog.String("Kind", KindCompleted.String()))
		return Event{Elapsed: slice, Kind: KindCompleted, PID: current.pid}
	}

	s.ready = append(s.ready, current)
	return Event{Elapsed: slice, Kind: KindQuantumExpired, PID: current.pid}
}

func (s *Simulator) idleElapsed() uint64 {
	if s.hint == nil {
		return s.options.IdleStep
	}

	arrival, ok := s.hint.NextArrival()
	if !ok {
		return s.options.IdleStep
	}

	now := s.now()
	if arrival <= now {
		return 0
	}

	return arrival - now
}
