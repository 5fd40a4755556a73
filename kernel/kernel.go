// Package kernel binds the memory pool, the process table and the blocked queue into the
// admission and completion loop of the simulated system.
//
// Each Step considers at most one arrival from the batch source, then asks the scheduler to
// advance to the next event. An arrival is placed with the pool's allocation strategy; when that
// fails the pool is compacted and the allocation retried once, and a process that still does not
// fit is blocked. When a process completes, its memory is returned and blocked processes are
// promoted, smallest first, until the head of the queue no longer fits.
package kernel

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/memsim/batch"
	"github.com/vkngwrapper/memsim/blocked"
	"github.com/vkngwrapper/memsim/events"
	"github.com/vkngwrapper/memsim/internal/clock"
	"github.com/vkngwrapper/memsim/internal/utils"
	"github.com/vkngwrapper/memsim/memutils"
	"github.com/vkngwrapper/memsim/memutils/defrag"
	"github.com/vkngwrapper/memsim/memutils/metadata"
	"github.com/vkngwrapper/memsim/process"
	"github.com/vkngwrapper/memsim/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
)

// Kernel owns all of the simulation's mutable state. The batch source and scheduler only supply
// input, and observers only receive copies.
type Kernel struct {
	logger    *slog.Logger
	options   Options
	clock     *clock.Clock
	source    batch.Source
	scheduler events.Scheduler
	observer  Observer
	tracer    trace.Tracer

	mutex     utils.OptionalRWMutex
	memory    *metadata.FreeListBlockMetadata
	table     *process.Table
	pids      *process.PIDAllocator
	blocked   *blocked.Queue
	compactor defrag.Compactor

	usedMemory int
	report     Report
}

type validateFunc func() error

func (f validateFunc) Validate() error { return f() }

// New creates a kernel with an empty memory pool and process table
//
// logger - The logger that kernel call tracing is written to
//
// clk - The simulated clock. The kernel advances it; other components should only read it.
//
// source - The batch source new processes are taken from
//
// scheduler - The event-timing component consulted once per step
//
// options - The pool and table sizes, plus optional collaborators. See Options.
func New(logger *slog.Logger, clk *clock.Clock, source batch.Source, scheduler events.Scheduler, options Options) (*Kernel, error) {
	if logger == nil {
		return nil, errors.New("attempted to create a kernel without a logger")
	}
	if clk == nil {
		return nil, errors.New("attempted to create a kernel without a clock")
	}
	if source == nil {
		return nil, errors.New("attempted to create a kernel without a batch source")
	}
	if scheduler == nil {
		return nil, errors.New("attempted to create a kernel without a scheduler")
	}

	err := options.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid kernel options")
	}

	table, err := process.NewTable(options.MaxProcesses)
	if err != nil {
		return nil, err
	}

	pids, err := process.NewPIDAllocator(table, options.MaxPID)
	if err != nil {
		return nil, err
	}

	if options.RunID == uuid.Nil {
		options.RunID = uuid.New()
	}

	tracerProvider := options.TracerProvider
	if tracerProvider == nil {
		tracerProvider = otel.GetTracerProvider()
	}

	observer := options.Observer
	if observer == nil {
		observer = NewLogObserver(logger)
	}

	memory := metadata.NewFreeListBlockMetadata(options.Strategy)
	memory.Init(options.TotalMemory)

	k := &Kernel{
		logger:    logger.With(slog.String("RunID", options.RunID.String())),
		options:   options,
		clock:     clk,
		source:    source,
		scheduler: scheduler,
		observer:  observer,
		tracer:    tracerProvider.Tracer(tracing.InstrumentationName),

		mutex: utils.OptionalRWMutex{
			UseMutex: options.Flags&CreateExternallySynchronized == 0,
		},
		memory:  memory,
		table:   table,
		pids:    pids,
		blocked: blocked.NewQueue(options.MaxProcesses),

		report: Report{RunID: options.RunID},
	}

	k.compactor.Handler = func(move defrag.Move) {
		k.logger.Debug("    Relocated process",
			slog.Int("PID", move.PID),
			slog.Int("From", move.SrcOffset),
			slog.Int("To", move.DstOffset),
			slog.Int("Size", move.Size),
		)
	}

	return k, nil
}

// RunID returns the identifier of this simulation run
func (k *Kernel) RunID() uuid.UUID {
	return k.options.RunID
}

// Run calls Step until the simulation is finished or ctx is done. When ctx is done, Run returns the
// totals so far along with ctx's error. Admitted processes are not cancelled.
func (k *Kernel) Run(ctx context.Context) (Report, error) {
	k.logger.Debug("Kernel::Run")

	for {
		select {
		case <-ctx.Done():
			return k.Report(), ctx.Err()
		default:
		}

		done, err := k.Step(ctx)
		if err != nil {
			return k.Report(), err
		}

		if done {
			return k.Report(), nil
		}
	}
}

// Finished reports whether the simulation is over: nothing is resident and the batch source will
// produce no more processes
func (k *Kernel) Finished() bool {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	return k.finished()
}

func (k *Kernel) finished() bool {
	return k.table.RunningCount() == 0 && k.source.IsExhausted()
}

// Step runs one iteration of the kernel loop: admission of at most one arrival, the next scheduling
// event and, if that event is a completion, the release of the process's memory followed by the
// promotion sweep. It returns true once the simulation is finished, in which case nothing was done.
//
// Returned errors indicate a misbehaving collaborator, such as a completion event for a process that
// is not running. A release that would corrupt the free list causes a panic.
func (k *Kernel) Step(ctx context.Context) (done bool, err error) {
	k.mutex.Lock()
	defer k.mutex.Unlock()

	if k.finished() {
		return true, nil
	}

	ctx, span := k.tracer.Start(ctx, "Kernel.Step", trace.WithAttributes(
		attribute.String("memsim.run_id", k.options.RunID.String()),
		attribute.Int("memsim.step", k.report.Steps),
		attribute.Int64("memsim.time", int64(k.clock.Now())),
	))
	defer func() {
		tracing.EndSpan(span, err)
	}()

	k.logger.Debug("Kernel::Step", slog.Int("Step", k.report.Steps), slog.Uint64("Time", k.clock.Now()))

	outcome, err := k.admitArrival(ctx)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.String("memsim.outcome", outcome.String()))

	event := k.scheduler.AdvanceToNextEvent()
	span.SetAttributes(attribute.String("memsim.event", event.Kind.String()))

	err = k.handleEvent(event)
	if err != nil {
		return false, err
	}

	k.report.Steps++
	k.report.FinalTime = k.clock.Now()
	memutils.DebugValidate(validateFunc(k.validate))

	return k.finished(), nil
}

func (k *Kernel) notify(notification Notification) {
	notification.Time = k.clock.Now()
	k.observer.Notify(notification)
}

func (k *Kernel) admitArrival(ctx context.Context) (Outcome, error) {
	if !k.source.HasPending() || !k.source.PeekReady() {
		return OutcomeNone, nil
	}

	pid, err := k.pids.Next()
	if errors.Is(err, memutils.ErrNoPIDAvailable) {
		// Leave the descriptor with the source so it is retried next step
		k.report.recordOutcome(OutcomeDeferred)
		k.notify(Notification{Kind: NotificationDeferred, Outcome: OutcomeDeferred})
		return OutcomeDeferred, nil
	} else if err != nil {
		return OutcomeNone, err
	}

	descriptor, err := k.source.TakeDescriptor()
	if err != nil {
		return OutcomeNone, errors.Wrap(err, "batch source reported a ready process but could not provide it")
	}

	pcb, err := k.table.Claim(pid, descriptor.PCB())
	if err != nil {
		return OutcomeNone, err
	}

	k.logger.Debug("Kernel::admitArrival",
		slog.Int("PID", int(pid)),
		slog.Int("Owner", int(pcb.OwnerID)),
		slog.Uint64("Start", pcb.Start),
		slog.Uint64("Duration", pcb.Duration),
		slog.Int("Size", pcb.Size),
		slog.String("Type", pcb.Type.String()),
	)

	outcome, err := k.admit(ctx, pcb)
	if err != nil {
		return outcome, err
	}

	k.report.recordOutcome(outcome)
	return outcome, nil
}

func (k *Kernel) admit(ctx context.Context, pcb *process.PCB) (Outcome, error) {
	if pcb.Size > k.memory.Size() || pcb.Size < 1 {
		pid, size := pcb.PID, pcb.Size
		err := k.table.Void(pid)
		if err != nil {
			return OutcomeNone, err
		}

		k.notify(Notification{Kind: NotificationRejected, PID: pid, Size: size, Outcome: OutcomeRejected})
		return OutcomeRejected, nil
	}

	span, ok := k.memory.Allocate(pcb.Size)
	if ok {
		return OutcomeAdmitted, k.start(pcb, span, OutcomeAdmitted)
	}

	k.notify(Notification{
		Kind:              NotificationAllocationFailed,
		PID:               pcb.PID,
		Size:              pcb.Size,
		LargestFreeRegion: k.memory.LargestFreeRegion(),
	})

	err := k.compact(ctx)
	if err != nil {
		return OutcomeNone, err
	}

	span, ok = k.memory.Allocate(pcb.Size)
	if ok {
		return OutcomeAdmittedAfterCompaction, k.start(pcb, span, OutcomeAdmittedAfterCompaction)
	}

	err = k.table.SetStatus(pcb.PID, process.StatusBlocked)
	if err != nil {
		return OutcomeNone, err
	}

	err = k.blocked.Enqueue(pcb.PID, pcb.Size, k.clock.Now())
	if err != nil {
		return OutcomeNone, err
	}

	k.notify(Notification{Kind: NotificationBlocked, PID: pcb.PID, Size: pcb.Size, Type: pcb.Type, Outcome: OutcomeBlocked})
	return OutcomeBlocked, nil
}

// start makes pcb resident at span and hands it to the scheduler
func (k *Kernel) start(pcb *process.PCB, span metadata.Span, outcome Outcome) error {
	err := k.table.SetStatus(pcb.PID, process.StatusRunning)
	if err != nil {
		return err
	}

	memutils.DebugCheckPositive(span.Size, "admitted span size")

	pcb.MemoryOffset = span.Offset
	k.usedMemory += span.Size
	if k.usedMemory > k.report.PeakUsedMemory {
		k.report.PeakUsedMemory = k.usedMemory
	}

	k.clock.Advance(k.options.LoadingDuration)
	k.scheduler.ProcessStarted(pcb.PID, pcb.Duration)

	if outcome != OutcomeNone {
		k.notify(Notification{
			Kind:    NotificationAdmitted,
			PID:     pcb.PID,
			Size:    pcb.Size,
			Offset:  pcb.MemoryOffset,
			Type:    pcb.Type,
			Outcome: outcome,
		})
	}

	return nil
}

func (k *Kernel) compact(ctx context.Context) (err error) {
	_, span := k.tracer.Start(ctx, "Kernel.compact", trace.WithAttributes(
		attribute.Int("memsim.free_regions", k.memory.FreeRegionsCount()),
	))
	defer func() {
		tracing.EndSpan(span, err)
	}()

	stats, ran, err := k.compactor.Compact(k.table, k.memory)
	k.report.Compaction.Add(stats)
	if err != nil {
		return errors.Wrap(err, "compaction failed")
	}

	span.SetAttributes(
		attribute.Bool("memsim.compacted", ran),
		attribute.Int("memsim.bytes_moved", stats.BytesMoved),
		attribute.Int("memsim.allocations_moved", stats.AllocationsMoved),
	)

	if !ran {
		k.logger.Debug("Kernel::compact skipped", slog.Int("FreeRegions", k.memory.FreeRegionsCount()))
		return nil
	}

	k.notify(Notification{Kind: NotificationCompacted, Compaction: stats, Moves: k.compactor.Moves()})

	snapshot := k.snapshot()
	k.notify(Notification{Kind: NotificationMemoryState, Snapshot: &snapshot})

	return nil
}

func (k *Kernel) handleEvent(event events.Event) error {
	k.clock.Advance(event.Elapsed)

	switch event.Kind {
	case events.KindCompleted, events.KindQuantumExpired:
		pcb := k.table.Get(event.PID)
		if pcb == nil || pcb.Status != process.StatusRunning {
			return errors.Newf("scheduler reported a %s event for pid %d, which is not running", event.Kind, event.PID)
		}
		pcb.UsedCPU += event.Elapsed
	}

	if event.Kind != events.KindCompleted {
		return nil
	}

	return k.complete(event.PID)
}

func (k *Kernel) complete(pid process.PID) error {
	pcb := k.table.Get(pid)
	offset, size := pcb.MemoryOffset, pcb.Size

	k.usedMemory -= size
	k.mustRelease(pid, offset, size)

	err := k.table.Void(pid)
	if err != nil {
		return err
	}

	k.report.Completed++
	k.notify(Notification{Kind: NotificationCompleted, PID: pid, Offset: offset, Size: size})

	err = k.promoteBlocked()
	if err != nil {
		return err
	}

	snapshot := k.snapshot()
	k.notify(Notification{Kind: NotificationMemoryState, Snapshot: &snapshot})

	return nil
}

// mustRelease returns a span to the free list. A span that is already partly free means the kernel's
// own bookkeeping is corrupt, so it panics instead of returning.
func (k *Kernel) mustRelease(pid process.PID, offset, size int) {
	err := k.memory.Release(offset, size)
	if err != nil {
		panic(errors.Wrapf(err, "released memory [%d, %d) of pid %d", offset, offset+size, pid))
	}
}

// promoteBlocked starts blocked processes in queue order until the head does not fit
func (k *Kernel) promoteBlocked() error {
	for {
		entry, ok := k.blocked.Dequeue()
		if !ok {
			return nil
		}

		pcb := k.table.Get(entry.PID)
		if pcb == nil || pcb.Status != process.StatusBlocked {
			return errors.Newf("blocked queue holds pid %d, which is not blocked", entry.PID)
		}

		span, ok := k.memory.Allocate(entry.Size)
		if !ok {
			err := k.blocked.Requeue(entry)
			if err != nil {
				return err
			}

			if entry.Attempts+1 > k.report.MaxBlockedAttempts {
				k.report.MaxBlockedAttempts = entry.Attempts + 1
			}

			k.notify(Notification{Kind: NotificationPromotionStopped, PID: entry.PID, Size: entry.Size, Attempts: entry.Attempts + 1})
			return nil
		}

		err := k.start(pcb, span, OutcomeNone)
		if err != nil {
			return err
		}

		k.report.Promoted++
		k.notify(Notification{
			Kind:     NotificationPromoted,
			PID:      pcb.PID,
			Size:     pcb.Size,
			Offset:   pcb.MemoryOffset,
			Type:     pcb.Type,
			Attempts: entry.Attempts,
		})
	}
}

// Report returns the totals of the simulation so far
func (k *Kernel) Report() Report {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	report := k.report
	report.FinalTime = k.clock.Now()
	return report
}

// UsedMemory returns the number of units held by running processes
func (k *Kernel) UsedMemory() int {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	return k.usedMemory
}

// Process returns a copy of the process control block for pid, and false if the pid is not in use
func (k *Kernel) Process(pid process.PID) (process.PCB, bool) {
	k.mutex.RLock()
	defer k.mutex.RUnlock()

	pcb := k.table.Get(pid)
	if pcb == nil {
		return process.PCB{}, false
	}

	return *pcb, true
}
