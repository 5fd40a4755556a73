package process

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// PID identifies a process and is also the index of its slot in the process Table. PID 0 is
// reserved and never denotes a real process.
type PID int

// NoPID is the reserved pid value meaning "no pid available"
const NoPID PID = 0

// Type is the kind of workload a process represents. It determines the IO characteristic of the
// process for schedulers that care, and has no effect on memory management.
type Type uint32

const (
	TypeOS Type = iota
	TypeInteractive
	TypeBatch
	TypeBackground
	TypeForeground
)

var typeMapping = map[Type]string{
	TypeOS:          "os",
	TypeInteractive: "interactive",
	TypeBatch:       "batch",
	TypeBackground:  "background",
	TypeForeground:  "foreground",
}

func (t Type) String() string {
	name, ok := typeMapping[t]
	if !ok {
		return "no type"
	}
	return name
}

// ParseType maps a type name, as returned by String, back to its value. Matching is case-insensitive.
func ParseType(name string) (Type, error) {
	for processType, typeName := range typeMapping {
		if strings.EqualFold(typeName, name) {
			return processType, nil
		}
	}

	return TypeOS, errors.Newf("unknown process type: %q", name)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	processType, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = processType
	return nil
}

// Status is the lifecycle state of a process
type Status uint32

const (
	StatusInit Status = iota
	StatusRunning
	StatusReady
	StatusBlocked
	StatusEnded
)

var statusMapping = map[Status]string{
	StatusInit:    "init",
	StatusRunning: "running",
	StatusReady:   "ready",
	StatusBlocked: "blocked",
	StatusEnded:   "ended",
}

func (s Status) String() string {
	return statusMapping[s]
}

// PCB is the process control block: the identity, resource footprint and status of one simulated
// process. None of the fields are meaningful when Valid is false.
type PCB struct {
	Valid   bool
	PID     PID
	PPID    PID
	OwnerID uint32
	// Start is the virtual arrival time of the process
	Start    uint64
	Duration uint64
	// Size is the memory footprint of the process in units
	Size    int
	UsedCPU uint64
	Type    Type
	Status  Status
	// MemoryOffset is the start of the span the process occupies. It is only meaningful while the
	// process is running.
	MemoryOffset int
}

// Resident reports whether the process currently occupies memory
func (p *PCB) Resident() bool {
	return p.Valid && p.Status == StatusRunning
}

// MemoryEnd returns the first offset after the span the process occupies
func (p *PCB) MemoryEnd() int {
	return p.MemoryOffset + p.Size
}
