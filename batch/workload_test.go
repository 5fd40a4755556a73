package batch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/batch"
	"github.com/vkngwrapper/memsim/process"
)

func TestParseWorkload(t *testing.T) {
	descriptors, err := batch.ParseWorkload([]byte(`
processes:
  - owner: 1
    arrival: 0
    duration: 40
    size: 60
    type: batch
  - owner: 2
    arrival: 5
    duration: 10
    size: 20
    type: interactive
`))
	require.NoError(t, err)
	require.Equal(t, []batch.Descriptor{
		{OwnerID: 1, Arrival: 0, Duration: 40, Size: 60, Type: process.TypeBatch},
		{OwnerID: 2, Arrival: 5, Duration: 10, Size: 20, Type: process.TypeInteractive},
	}, descriptors)
}

func TestParseWorkloadErrors(t *testing.T) {
	_, err := batch.ParseWorkload([]byte("processes:\n  - size: 10\n    type: daemon\n"))
	require.Error(t, err)

	_, err = batch.ParseWorkload([]byte("processes:\n  - size: 0\n"))
	require.Error(t, err)

	_, err = batch.ParseWorkload([]byte("processes: [\n"))
	require.Error(t, err)
}

func TestParseTable(t *testing.T) {
	descriptors, err := batch.ParseTable([]byte(`
# owner arrival duration size type
1 0 40 60 batch

2 5 10 20 foreground
`))
	require.NoError(t, err)
	require.Equal(t, []batch.Descriptor{
		{OwnerID: 1, Arrival: 0, Duration: 40, Size: 60, Type: process.TypeBatch},
		{OwnerID: 2, Arrival: 5, Duration: 10, Size: 20, Type: process.TypeForeground},
	}, descriptors)

	_, err = batch.ParseTable([]byte("1 0 40 batch\n"))
	require.Error(t, err)

	_, err = batch.ParseTable([]byte("1 0 40 x batch\n"))
	require.Error(t, err)

	_, err = batch.ParseTable([]byte("1 0 40 -3 batch\n"))
	require.Error(t, err)
}

func TestLoadWorkload(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "workload.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("processes:\n  - size: 10\n    type: os\n"), 0o600))
	descriptors, err := batch.LoadWorkload(yamlPath)
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	tablePath := filepath.Join(dir, "processes.txt")
	require.NoError(t, os.WriteFile(tablePath, []byte("3 1 2 4 background\n"), 0o600))
	descriptors, err = batch.LoadWorkload(tablePath)
	require.NoError(t, err)
	require.Equal(t, []batch.Descriptor{{OwnerID: 3, Arrival: 1, Duration: 2, Size: 4, Type: process.TypeBackground}}, descriptors)

	_, err = batch.LoadWorkload(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
