package types

import (
	"strings"
	"time"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Priorities lists the priorities from lowest to highest.
var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

// Task categories.
const (
	TaskCategoryPlanting    = "planting"
	TaskCategoryWatering    = "watering"
	TaskCategoryHarvesting  = "harvesting"
	TaskCategoryMaintenance = "maintenance"
	TaskCategoryFertilizing = "fertilizing"
	TaskCategoryGeneral     = "general"
)

// TaskCategories lists the task categories in display order.
var TaskCategories = []string{
	TaskCategoryPlanting,
	TaskCategoryWatering,
	TaskCategoryHarvesting,
	TaskCategoryMaintenance,
	TaskCategoryFertilizing,
	TaskCategoryGeneral,
}

// Task is a unit of farm work, optionally tied to a crop.
type Task struct {
	ID          int64  `json:"id" yaml:"id,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	CropID      int64  `json:"cropId,omitempty" yaml:"cropId,omitempty"` // soft reference, 0 for none
	DueDate     string `json:"dueDate" yaml:"dueDate"`
	Priority    string `json:"priority" yaml:"priority"`
	Category    string `json:"category" yaml:"category"`
	Completed   bool   `json:"completed" yaml:"completed"`
}

// IsOverdue reports whether the task is still open and its due date lies
// before now. A missing or unparseable due date is never overdue.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed || t.DueDate == "" {
		return false
	}
	due, err := ParseDate(t.DueDate)
	if err != nil {
		return false
	}
	return due.Before(now)
}

// PriorityRank orders priorities; unknown values rank lowest.
func PriorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Validate checks the fields a task must carry before it is submitted.
func (t *Task) Validate() error {
	switch {
	case strings.TrimSpace(t.Title) == "":
		return Validationf("Task title is required")
	case t.DueDate == "":
		return Validationf("Due date is required")
	case !contains(Priorities, t.Priority):
		return Validationf("Invalid priority %q", t.Priority)
	case !contains(TaskCategories, t.Category):
		return Validationf("Invalid task category %q", t.Category)
	case t.CropID < 0:
		return Validationf("Invalid crop reference")
	}
	if _, err := ParseDate(t.DueDate); err != nil {
		return Validationf("Invalid due date %q", t.DueDate)
	}
	return nil
}
