package kernel_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/memsim/batch"
	mock_events "github.com/vkngwrapper/memsim/events/mocks"
	"github.com/vkngwrapper/memsim/process"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

func TestWriteJSON(t *testing.T) {
	ctrl := gomock.NewController(t)
	scheduler := mock_events.NewMockScheduler(ctrl)

	scheduler.EXPECT().ProcessStarted(process.PID(1), uint64(50))
	expectEvents(scheduler, none(), none())

	options := smallOptions(100)
	options.RunID = uuid.MustParse("6f1e7c62-3a4b-4c1e-9d7a-0b8f1c2d3e4f")
	h := newHarness(t, scheduler, options,
		batch.Descriptor{Duration: 50, Size: 30, Type: process.TypeBatch},
		batch.Descriptor{Duration: 50, Size: 80, Type: process.TypeInteractive},
	)

	h.step(t)
	h.step(t)

	writer := jwriter.NewWriter()
	h.kernel.WriteJSON(&writer)
	require.NoError(t, writer.Error())

	require.JSONEq(t, `{
		"RunID": "6f1e7c62-3a4b-4c1e-9d7a-0b8f1c2d3e4f",
		"Time": 1,
		"UsedMemory": 30,
		"Memory": {
			"TotalBytes": 100,
			"UnusedBytes": 70,
			"Allocations": 1,
			"UnusedRanges": 1,
			"FreeRegions": [{"Offset": 30, "Size": 70}]
		},
		"Residents": [{"PID": 1, "Offset": 0, "Size": 30, "Type": "batch", "UsedCPU": 0}],
		"Blocked": [{"PID": 2, "Size": 80, "EnqueuedAt": 1, "Attempts": 0}],
		"Report": {
			"Steps": 2,
			"Admitted": 1,
			"AdmittedAfterCompaction": 0,
			"Blocked": 1,
			"Promoted": 0,
			"Rejected": 0,
			"Deferred": 0,
			"Completed": 0,
			"CompactionRuns": 0,
			"BytesMoved": 0,
			"PeakUsedMemory": 30
		}
	}`, string(writer.Bytes()))
}

func TestSnapshotIsACopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	scheduler := mock_events.NewMockScheduler(ctrl)

	scheduler.EXPECT().ProcessStarted(gomock.Any(), gomock.Any()).Times(2)
	expectEvents(scheduler, none(), none())

	h := newHarness(t, scheduler, smallOptions(100),
		batch.Descriptor{Size: 30, OwnerID: 7},
		batch.Descriptor{Size: 20, Type: process.TypeBackground},
	)
	h.step(t)
	h.step(t)

	snapshot := h.kernel.Snapshot()
	require.Equal(t, uint64(2), snapshot.Time)
	require.Equal(t, 100, snapshot.TotalMemory)
	require.Equal(t, 50, snapshot.UsedMemory)
	require.Equal(t, 50, snapshot.FreeMemory())
	require.False(t, snapshot.Fragmented())
	require.Len(t, snapshot.Residents, 2)
	require.Equal(t, uint32(7), snapshot.Residents[0].OwnerID)
	require.Equal(t, process.TypeBackground, snapshot.Residents[1].Type)
	require.Equal(t, 30, snapshot.Residents[1].Offset)
	require.Equal(t, 2, snapshot.Statistics.AllocationCount)
	require.Equal(t, 50, snapshot.Statistics.AllocationBytes)
	require.Equal(t, 50, snapshot.Statistics.UnusedBytes())
	require.Equal(t, 1, snapshot.Statistics.UnusedRangeCount)

	snapshot.FreeRegions[0].Size = 1
	require.Equal(t, 50, h.kernel.Snapshot().FreeRegions[0].Size)
}

func TestStepAndCompactionSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	scheduler := mock_events.NewMockScheduler(ctrl)

	scheduler.EXPECT().ProcessStarted(gomock.Any(), gomock.Any()).Times(4)
	expectEvents(scheduler,
		none(),
		none(),
		completed(1, 5),
		completed(3, 5),
		none(),
	)

	recorder := tracetest.NewSpanRecorder()
	options := smallOptions(100)
	options.LoadingDuration = 0
	options.TracerProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	h := newHarness(t, scheduler, options,
		batch.Descriptor{Size: 30},
		batch.Descriptor{Size: 40},
		batch.Descriptor{Size: 30},
		batch.Descriptor{Arrival: 10, Size: 50},
	)

	for i := 0; i < 5; i++ {
		_, err := h.kernel.Step(context.Background())
		require.NoError(t, err)
	}

	var steps, compactions []sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		switch span.Name() {
		case "Kernel.Step":
			steps = append(steps, span)
		case "Kernel.compact":
			compactions = append(compactions, span)
		}
	}

	require.Len(t, steps, 5)
	require.Len(t, compactions, 1)

	compaction := compactions[0]
	require.Equal(t, steps[4].SpanContext().SpanID(), compaction.Parent().SpanID())
	require.Contains(t, compaction.Attributes(), attribute.Int("memsim.bytes_moved", 40))
	require.Contains(t, compaction.Attributes(), attribute.Bool("memsim.compacted", true))
	require.Contains(t, steps[4].Attributes(), attribute.String("memsim.outcome", "AdmittedAfterCompaction"))
	require.Contains(t, steps[0].Attributes(), attribute.String("memsim.run_id", h.kernel.RunID().String()))
}
