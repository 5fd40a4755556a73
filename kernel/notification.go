package kernel

import (
	"github.com/vkngwrapper/memsim/memutils/defrag"
	"github.com/vkngwrapper/memsim/process"
)

// NotificationKind identifies the kernel decision a Notification describes
type NotificationKind uint32

const (
	NotificationAdmitted NotificationKind = iota
	NotificationAllocationFailed
	NotificationBlocked
	NotificationPromoted
	NotificationPromotionStopped
	NotificationRejected
	NotificationDeferred
	NotificationCompleted
	NotificationCompacted
	NotificationMemoryState
)

var notificationKindMapping = map[NotificationKind]string{
	NotificationAdmitted:         "Admitted",
	NotificationAllocationFailed: "AllocationFailed",
	NotificationBlocked:          "Blocked",
	NotificationPromoted:         "Promoted",
	NotificationPromotionStopped: "PromotionStopped",
	NotificationRejected:         "Rejected",
	NotificationDeferred:         "Deferred",
	NotificationCompleted:        "Completed",
	NotificationCompacted:        "Compacted",
	NotificationMemoryState:      "MemoryState",
}

func (k NotificationKind) String() string {
	return notificationKindMapping[k]
}

// Notification is a structured record of one kernel decision. Fields that do not apply to the
// notification kind are left zero.
type Notification struct {
	Kind NotificationKind
	// Time is the simulated time at which the decision was made
	Time uint64

	PID    process.PID
	Size   int
	Offset int
	Type   process.Type

	// Outcome is set for NotificationAdmitted, NotificationBlocked, NotificationRejected and
	// NotificationDeferred
	Outcome Outcome
	// Attempts is the number of failed promotions of a blocked process
	Attempts int
	// LargestFreeRegion is set for NotificationAllocationFailed
	LargestFreeRegion int

	// Compaction and Moves are set for NotificationCompacted
	Compaction defrag.Stats
	Moves      []defrag.Move

	// Snapshot is set for NotificationMemoryState
	Snapshot *Snapshot
}

// Observer receives kernel notifications. Notify is called synchronously from the kernel's step
// and must not block; wrap slow observers in an AsyncObserver.
type Observer interface {
	Notify(notification Notification)
}
