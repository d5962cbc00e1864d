package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func (a *app) tasksCmd() *cobra.Command {
	return entityCmd(a, entityDef[types.Task]{
		use:      "tasks",
		singular: "task",
		plural:   "tasks",
		service:  func(s *farm.Services) entityService[types.Task] { return s.Tasks },
		bind: func(fs *pflag.FlagSet, t *types.Task) {
			fs.StringVar(&t.Title, "title", "", "task title")
			fs.StringVar(&t.Description, "description", "", "details")
			fs.Int64Var(&t.CropID, "crop-id", 0, "related crop (0 for none)")
			fs.StringVar(&t.DueDate, "due", "", "due date (YYYY-MM-DD)")
			fs.StringVar(&t.Priority, "priority", types.PriorityMedium, "priority ("+strings.Join(types.Priorities, ", ")+")")
			fs.StringVar(&t.Category, "category", types.TaskCategoryGeneral, "category ("+strings.Join(types.TaskCategories, ", ")+")")
		},
		id:      func(t *types.Task) int64 { return t.ID },
		columns: []string{"ID", "TITLE", "DUE", "PRIORITY", "CATEGORY", "STATUS"},
		row: func(t types.Task) []string {
			return []string{
				strconv.FormatInt(t.ID, 10),
				truncate(t.Title, 40),
				t.DueDate,
				t.Priority,
				t.Category,
				taskStatus(t, a.now()),
			}
		},
		labels: []string{"ID", "Title", "Status", "Due", "Priority", "Category", "Crop", "Description"},
		detail: func(t types.Task) []string {
			return []string{
				strconv.FormatInt(t.ID, 10),
				t.Title,
				taskStatus(t, a.now()),
				t.DueDate,
				t.Priority,
				t.Category,
				formatRef(t.CropID),
				orDash(t.Description),
			}
		},
		listFlags: func(fs *pflag.FlagSet) func([]types.Task, time.Time) ([]types.Task, error) {
			var f farm.TaskFilter
			fs.StringVar(&f.Search, "search", "", "match title, description or category")
			fs.StringVar(&f.Priority, "priority", farm.FilterAll, "only tasks with this priority")
			fs.StringVar(&f.Status, "status", farm.FilterAll, "all, pending, completed or overdue")
			fs.StringVar(&f.SortBy, "sort", farm.SortTasksByDueDate, "dueDate, priority or title")
			return func(tasks []types.Task, now time.Time) ([]types.Task, error) {
				if err := oneOf("priority", f.Priority, append([]string{farm.FilterAll}, types.Priorities...)...); err != nil {
					return nil, err
				}
				if err := oneOf("status", f.Status, farm.FilterAll, farm.TaskStatusPending, farm.TaskStatusCompleted, farm.TaskStatusOverdue); err != nil {
					return nil, err
				}
				if err := oneOf("sort", f.SortBy, farm.SortTasksByDueDate, farm.SortTasksByPriority, farm.SortTasksByTitle); err != nil {
					return nil, err
				}
				return farm.FilterTasks(tasks, f, now), nil
			}
		},
		listFooter: func(a *app, cmd *cobra.Command, tasks []types.Task) {
			st := farm.CountTasks(tasks, a.now())
			fmt.Fprintf(cmd.OutOrStdout(), "Pending: %d, completed: %d, overdue: %d, high priority: %d\n",
				st.Pending, st.Completed, st.Overdue, st.HighPriority)
		},
	}, a.taskCompleteCmd())
}

func (a *app) taskCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Toggle a task between open and completed",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withSession(cmd, func(ctx context.Context, s *session) error {
				t, err := s.svc.Tasks.ToggleComplete(ctx, id)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return printJSON(cmd.OutOrStdout(), t)
				}
				state := "reopened"
				if t.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %d %s\n", id, state)
				return nil
			})
		},
	}
}

func taskStatus(t types.Task, now time.Time) string {
	switch {
	case t.Completed:
		return farm.TaskStatusCompleted
	case t.IsOverdue(now):
		return farm.TaskStatusOverdue
	}
	return farm.TaskStatusPending
}
