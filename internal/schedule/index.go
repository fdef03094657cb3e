package schedule

import (
	"time"

	"github.com/tidyhaus/scheduling-service/internal/model"
)

// InstanceIndex answers "does an instance already exist on this calendar
// date" in O(1). Only the date component matters: the duplicate-avoidance
// policy is at most one generated instance per contract per calendar day.
type InstanceIndex struct {
	dates map[string]struct{}
}

// NewInstanceIndex builds the index from previously persisted instances.
func NewInstanceIndex(existing []model.JobInstance) *InstanceIndex {
	idx := &InstanceIndex{dates: make(map[string]struct{}, len(existing))}
	for _, inst := range existing {
		idx.dates[dateKey(inst.ScheduledStart)] = struct{}{}
	}
	return idx
}

func (x *InstanceIndex) HasInstanceOn(date time.Time) bool {
	_, ok := x.dates[dateKey(date)]
	return ok
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
