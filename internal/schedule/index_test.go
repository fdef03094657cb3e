package schedule

import (
	"testing"
	"time"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

func TestInstanceIndexComparesDatesOnly(t *testing.T) {
	existing := []model.JobInstance{
		{ScheduledStart: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
	}
	idx := NewInstanceIndex(existing)

	if !idx.HasInstanceOn(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("midnight on the same date should match")
	}
	if !idx.HasInstanceOn(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)) {
		t.Fatal("any time of day on the same date should match")
	}
	if idx.HasInstanceOn(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)) {
		t.Fatal("next day should not match")
	}
}

func TestSeedTasks(t *testing.T) {
	got := SeedTasks([]string{" vacuum ", "", "  ", "mop floors", "windows"})
	want := []string{"vacuum", "mop floors", "windows"}
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("task %d = %q, want %q", i, got[i], want[i])
		}
	}
	if SeedTasks(nil) != nil {
		t.Fatal("nil input should stay nil")
	}
	if SeedTasks([]string{"  ", ""}) != nil {
		t.Fatal("all-blank input should yield nil")
	}
}
