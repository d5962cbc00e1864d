package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{
			name: "past due and open is overdue",
			task: Task{DueDate: "2026-10-01", Completed: false},
			want: true,
		},
		{
			name: "past due but completed is not overdue",
			task: Task{DueDate: "2026-10-01", Completed: true},
			want: false,
		},
		{
			name: "due in the future is not overdue",
			task: Task{DueDate: "2026-11-01"},
			want: false,
		},
		{
			name: "timestamp due date earlier today is overdue",
			task: Task{DueDate: "2026-10-15T08:00:00Z"},
			want: true,
		},
		{
			name: "empty due date is never overdue",
			task: Task{DueDate: ""},
			want: false,
		},
		{
			name: "unparseable due date is never overdue",
			task: Task{DueDate: "next tuesday"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.IsOverdue(now))
		})
	}
}

func TestPriorityRank(t *testing.T) {
	assert.Greater(t, PriorityRank(PriorityHigh), PriorityRank(PriorityMedium))
	assert.Greater(t, PriorityRank(PriorityMedium), PriorityRank(PriorityLow))
	assert.Greater(t, PriorityRank(PriorityLow), PriorityRank("urgent"))
}

func TestTaskValidate(t *testing.T) {
	valid := func() Task {
		return Task{
			Title:    "Irrigate north field",
			DueDate:  "2026-10-20",
			Priority: PriorityMedium,
			Category: TaskCategoryWatering,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantMsg string
	}{
		{name: "valid task", mutate: func(*Task) {}},
		{name: "missing title", mutate: func(tk *Task) { tk.Title = "  " }, wantMsg: "Task title is required"},
		{name: "missing due date", mutate: func(tk *Task) { tk.DueDate = "" }, wantMsg: "Due date is required"},
		{name: "bad priority", mutate: func(tk *Task) { tk.Priority = "urgent" }, wantMsg: `Invalid priority "urgent"`},
		{name: "bad category", mutate: func(tk *Task) { tk.Category = "mowing" }, wantMsg: `Invalid task category "mowing"`},
		{name: "bad due date", mutate: func(tk *Task) { tk.DueDate = "tomorrow" }, wantMsg: `Invalid due date "tomorrow"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := valid()
			tt.mutate(&tk)
			err := tk.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Equal(t, tt.wantMsg, Message(err))
		})
	}
}
