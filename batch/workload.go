package batch

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/process"
	"gopkg.in/yaml.v3"
)

// Workload is the on-disk form of a batch of processes
type Workload struct {
	Processes []Descriptor `yaml:"processes"`
}

// LoadWorkload reads a workload file. Files ending in .yaml or .yml are parsed with ParseWorkload,
// anything else with ParseTable.
func LoadWorkload(path string) ([]Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read workload %s", path)
	}

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return ParseWorkload(data)
	}

	return ParseTable(data)
}

// ParseWorkload decodes a YAML workload document
func ParseWorkload(data []byte) ([]Descriptor, error) {
	var workload Workload
	if err := yaml.Unmarshal(data, &workload); err != nil {
		return nil, errors.Wrap(err, "failed to decode workload")
	}

	for index, descriptor := range workload.Processes {
		if err := validateDescriptor(descriptor); err != nil {
			return nil, errors.Wrapf(err, "process %d", index)
		}
	}

	return workload.Processes, nil
}

// ParseTable decodes the line-oriented batch format: one process per line, as whitespace-separated
// owner id, arrival time, duration, size and type. Blank lines and lines starting with # are ignored.
func ParseTable(data []byte) ([]Descriptor, error) {
	var descriptors []Descriptor

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, errors.Newf("line %d: expected 5 fields, found %d", lineNumber, len(fields))
		}

		owner, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: owner", lineNumber)
		}
		arrival, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: arrival", lineNumber)
		}
		duration, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: duration", lineNumber)
		}
		size, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d: size", lineNumber)
		}
		processType, err := process.ParseType(fields[4])
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}

		descriptor := Descriptor{
			OwnerID:  uint32(owner),
			Arrival:  arrival,
			Duration: duration,
			Size:     size,
			Type:     processType,
		}
		if err := validateDescriptor(descriptor); err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNumber)
		}

		descriptors = append(descriptors, descriptor)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan workload")
	}

	return descriptors, nil
}

func validateDescriptor(descriptor Descriptor) error {
	if descriptor.Size <= 0 {
		return errors.Newf("size must be positive, but was %d", descriptor.Size)
	}

	return nil
}
