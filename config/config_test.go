package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/batch"
	"github.com/vkngwrapper/memsim/config"
	"github.com/vkngwrapper/memsim/kernel"
	"github.com/vkngwrapper/memsim/memutils/metadata"
	"github.com/vkngwrapper/memsim/process"
	"golang.org/x/exp/slog"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse([]byte(""))
	require.NoError(t, err)
	require.Equal(t, config.DefaultConfig(), cfg)
	require.Equal(t, kernel.DefaultTotalMemory, cfg.Kernel.TotalMemory)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, level)
}

func TestParseOverrides(t *testing.T) {
	cfg, err := config.Parse([]byte(`
kernel:
  totalMemory: 256
  strategy: bestfit
scheduler:
  quantum: 4
log:
  level: debug
processes:
  - owner: 1
    duration: 5
    size: 64
    type: interactive
`))
	require.NoError(t, err)

	require.Equal(t, 256, cfg.Kernel.TotalMemory)
	require.Equal(t, kernel.DefaultMaxProcesses, cfg.Kernel.MaxProcesses)
	require.Equal(t, kernel.DefaultLoadingDuration, cfg.Kernel.LoadingDuration)
	require.Equal(t, metadata.AllocationStrategyBestFit, cfg.Kernel.Strategy)
	require.Equal(t, uint64(4), cfg.Scheduler.Quantum)
	require.Equal(t, uint64(1), cfg.Scheduler.IdleStep)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, level)

	descriptors, err := cfg.Descriptors()
	require.NoError(t, err)
	require.Equal(t, []batch.Descriptor{{OwnerID: 1, Duration: 5, Size: 64, Type: process.TypeInteractive}}, descriptors)
}

func TestParseRejectsInvalidSettings(t *testing.T) {
	for _, document := range []string{
		"kernel:\n  totalMemory: 0\n",
		"kernel:\n  maxPID: 500\n",
		"kernel:\n  strategy: worstfit\n",
		"log:\n  level: loud\n",
		"workload: batch.txt\nprocesses:\n  - size: 1\n",
		"kernel: [",
	} {
		_, err := config.Parse([]byte(document))
		require.Error(t, err, document)
	}
}

func TestLoadResolvesWorkload(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "processes.txt"), []byte("1 0 10 32 batch\n2 3 10 16 os\n"), 0o600))

	configPath := filepath.Join(dir, "memsim.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("workload: processes.txt\ntrace:\n  enabled: true\n"), 0o600))

	cfg, err := config.Load(configPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "processes.txt"), cfg.Workload)
	require.True(t, cfg.Trace.Enabled)

	descriptors, err := cfg.Descriptors()
	require.NoError(t, err)
	require.Len(t, descriptors, 2)
	require.Equal(t, process.TypeOS, descriptors[1].Type)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
