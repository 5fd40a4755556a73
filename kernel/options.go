package kernel

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/vkngwrapper/memsim/memutils/metadata"
	"go.opentelemetry.io/otel/trace"
)

// CreateFlags indicate specific kernel behaviors to activate or deactivate
type CreateFlags int32

const (
	// CreateExternallySynchronized ensures that the kernel will not be synchronized internally. The
	// consumer must guarantee that Step, Run, Snapshot and the other methods are called from only one
	// goroutine at a time, or are synchronized by some other mechanism.
	CreateExternallySynchronized CreateFlags = 1 << iota
)

var createFlagsMapping = map[CreateFlags]string{
	CreateExternallySynchronized: "CreateExternallySynchronized",
}

func (f CreateFlags) String() string {
	if f == 0 {
		return "None"
	}

	var names []string
	for flag := CreateFlags(1); flag != 0 && flag <= f; flag <<= 1 {
		if f&flag == 0 {
			continue
		}

		name, ok := createFlagsMapping[flag]
		if !ok {
			name = "Unknown"
		}
		names = append(names, name)
	}

	return strings.Join(names, "|")
}

const (
	// DefaultTotalMemory is the memory pool size used by DefaultOptions
	DefaultTotalMemory int = 1024
	// DefaultMaxProcesses is the process table capacity used by DefaultOptions
	DefaultMaxProcesses int = 100
	// DefaultMaxPID is the exclusive pid bound used by DefaultOptions
	DefaultMaxPID int = 100
	// DefaultLoadingDuration is the admission overhead used by DefaultOptions
	DefaultLoadingDuration uint64 = 1
)

// Options contains the settings used to create a Kernel. Unlike most option structs, the zero value
// is not valid: TotalMemory, MaxProcesses and MaxPID must all be provided. DefaultOptions returns a
// usable starting point.
type Options struct {
	// TotalMemory is the size in units of the simulated memory pool
	TotalMemory int `yaml:"totalMemory"`
	// MaxProcesses is the number of slots in the process table, including the reserved slot 0
	MaxProcesses int `yaml:"maxProcesses"`
	// MaxPID is the exclusive upper bound of the pids handed out. It may not exceed MaxProcesses.
	MaxPID int `yaml:"maxPID"`
	// LoadingDuration is the simulated time charged for every admission, including promotions
	// from the blocked queue
	LoadingDuration uint64 `yaml:"loadingDuration"`
	// Strategy chooses between free regions that can hold a process. First fit is the default.
	Strategy metadata.AllocationStrategy `yaml:"strategy"`

	Flags CreateFlags `yaml:"-"`
	// RunID identifies the run in logs, traces and reports. A random id is generated when it is
	// left as uuid.Nil.
	RunID uuid.UUID `yaml:"-"`
	// TracerProvider supplies the tracer used for step and compaction spans. The global provider
	// is used when it is nil.
	TracerProvider trace.TracerProvider `yaml:"-"`
	// Observer receives notifications of kernel decisions. A LogObserver over the kernel's logger
	// is used when it is nil.
	Observer Observer `yaml:"-"`
}

// DefaultOptions returns the options of a 1024-unit system with 100 process slots
func DefaultOptions() Options {
	return Options{
		TotalMemory:     DefaultTotalMemory,
		MaxProcesses:    DefaultMaxProcesses,
		MaxPID:          DefaultMaxPID,
		LoadingDuration: DefaultLoadingDuration,
		Strategy:        metadata.AllocationStrategyFirstFit,
	}
}

// Validate checks the options for values a kernel cannot be created with
func (o Options) Validate() error {
	if o.TotalMemory < 1 {
		return errors.Newf("total memory must be positive, but was %d", o.TotalMemory)
	}

	if o.MaxProcesses < 2 {
		return errors.Newf("the process table needs at least 2 slots, but MaxProcesses was %d", o.MaxProcesses)
	}

	if o.MaxPID < 2 {
		return errors.Newf("MaxPID must be at least 2, but was %d", o.MaxPID)
	}

	if o.MaxPID > o.MaxProcesses {
		return errors.Newf("MaxPID %d is larger than MaxProcesses %d", o.MaxPID, o.MaxProcesses)
	}

	if o.Strategy != metadata.AllocationStrategyFirstFit && o.Strategy != metadata.AllocationStrategyBestFit {
		return errors.Newf("unknown allocation strategy: %d", o.Strategy)
	}

	return nil
}
