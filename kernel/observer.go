package kernel

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slog"
)

// LogObserver writes every notification to a slog logger. Memory-state snapshots are logged at
// debug level and everything else at info level.
type LogObserver struct {
	logger *slog.Logger
}

var _ Observer = &LogObserver{}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Notify(n Notification) {
	switch n.Kind {
	case NotificationAdmitted:
		o.logger.Info("Process started and memory allocated",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Offset", n.Offset),
			slog.Int("Size", n.Size),
			slog.String("Type", n.Type.String()),
			slog.String("Outcome", n.Outcome.String()),
		)
	case NotificationAllocationFailed:
		o.logger.Info("No suitable block found",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Size", n.Size),
			slog.Int("LargestFreeRegion", n.LargestFreeRegion),
		)
	case NotificationBlocked:
		o.logger.Info("Process blocked",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Size", n.Size),
		)
	case NotificationPromoted:
		o.logger.Info("Blocked process started",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Offset", n.Offset),
			slog.Int("Size", n.Size),
			slog.Int("Attempts", n.Attempts),
		)
	case NotificationPromotionStopped:
		o.logger.Info("Blocked queue head does not fit",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Size", n.Size),
			slog.Int("Attempts", n.Attempts),
		)
	case NotificationRejected:
		o.logger.Info("Process rejected - exceeds total memory size",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Size", n.Size),
		)
	case NotificationDeferred:
		o.logger.Info("Arrival deferred - no pid available", slog.Uint64("Time", n.Time))
	case NotificationCompleted:
		o.logger.Info("Process completed, freeing memory",
			slog.Uint64("Time", n.Time),
			slog.Int("PID", int(n.PID)),
			slog.Int("Offset", n.Offset),
			slog.Int("Size", n.Size),
		)
	case NotificationCompacted:
		o.logger.Info("Compaction complete",
			slog.Uint64("Time", n.Time),
			slog.Int("BytesMoved", n.Compaction.BytesMoved),
			slog.Int("AllocationsMoved", n.Compaction.AllocationsMoved),
		)
	case NotificationMemoryState:
		if n.Snapshot != nil {
			o.logMemoryState(n.Snapshot)
		}
	}
}

func (o *LogObserver) logMemoryState(snapshot *Snapshot) {
	freeRegions := make([]any, 0, len(snapshot.FreeRegions))
	for _, region := range snapshot.FreeRegions {
		freeRegions = append(freeRegions, slog.Int(strconv.Itoa(region.Offset), region.Size))
	}

	residents := make([]any, 0, len(snapshot.Residents))
	for _, resident := range snapshot.Residents {
		residents = append(residents, slog.Group(strconv.Itoa(int(resident.PID)),
			slog.Int("Offset", resident.Offset),
			slog.Int("Size", resident.Size),
		))
	}

	o.logger.Debug("Memory state",
		slog.Uint64("Time", snapshot.Time),
		slog.Int("TotalMemory", snapshot.TotalMemory),
		slog.Int("UsedMemory", snapshot.UsedMemory),
		slog.Int("FreeMemory", snapshot.FreeMemory()),
		slog.Int("Blocked", len(snapshot.Blocked)),
		slog.Bool("Fragmented", snapshot.Fragmented()),
		slog.Float64("ExternalFragmentation", snapshot.Statistics.ExternalFragmentation()),
		slog.Group("FreeRegions", freeRegions...),
		slog.Group("Residents", residents...),
	)
}

// AsyncObserver hands notifications to another observer on a separate goroutine. Notify never
// blocks: when the buffer is full the notification is dropped and counted.
type AsyncObserver struct {
	next          Observer
	notifications chan Notification
	dropped       atomic.Uint64
	closeOnce     sync.Once
	done          sync.WaitGroup
}

var _ Observer = &AsyncObserver{}

// NewAsyncObserver starts delivering notifications to next. Close must be called to stop the
// delivery goroutine.
func NewAsyncObserver(next Observer, bufferSize int) *AsyncObserver {
	observer := &AsyncObserver{
		next:          next,
		notifications: make(chan Notification, bufferSize),
	}

	observer.done.Add(1)
	go observer.deliver()

	return observer
}

func (o *AsyncObserver) deliver() {
	defer o.done.Done()

	for notification := range o.notifications {
		o.next.Notify(notification)
	}
}

func (o *AsyncObserver) Notify(notification Notification) {
	select {
	case o.notifications <- notification:
	default:
		o.dropped.Add(1)
	}
}

// Dropped returns the number of notifications discarded because the buffer was full
func (o *AsyncObserver) Dropped() uint64 {
	return o.dropped.Load()
}

// Close stops accepting notifications and waits until the buffered ones have been delivered. Notify
// must not be called after Close.
func (o *AsyncObserver) Close() {
	o.closeOnce.Do(func() {
		close(o.notifications)
	})
	o.done.Wait()
}
