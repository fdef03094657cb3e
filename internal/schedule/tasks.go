package schedule

import "strings"

// SeedTasks copies a schedule-day task list onto an instance draft,
// trimming whitespace, discarding blanks and preserving order.
func SeedTasks(tasks []string) []string {
	if len(tasks) == 0 {
		return nil
	}
	seeded := make([]string, 0, len(tasks))
	for _, task := range tasks {
		task = strings.TrimSpace(task)
		if task == "" {
			continue
		}
		seeded = append(seeded, task)
	}
	if len(seeded) == 0 {
		return nil
	}
	return seeded
}
