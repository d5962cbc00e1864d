package farm

import (
	"context"

	"github.com/mesh-intelligence/farmbook/internal/gateway"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// TaskFields maps task_c.
var TaskFields = gateway.FieldMap[types.Task]{
	gateway.String("title_c", "title", func(t *types.Task) *string { return &t.Title }),
	gateway.String("description_c", "description", func(t *types.Task) *string { return &t.Description }),
	gateway.Ref("crop_id_c", "cropId", func(t *types.Task) *int64 { return &t.CropID }),
	gateway.Date("due_date_c", "dueDate", func(t *types.Task) *string { return &t.DueDate }),
	gateway.String("priority_c", "priority", func(t *types.Task) *string { return &t.Priority }),
	gateway.String("category_c", "category", func(t *types.Task) *string { return &t.Category }),
	gateway.Bool("completed_c", "completed", func(t *types.Task) *bool { return &t.Completed }),
}

// TaskService manages tasks.
type TaskService struct {
	crud[types.Task]
}

// NewTaskService creates a task service over store.
func NewTaskService(store types.RecordStore, opts ...Option) *TaskService {
	o := buildOptions(opts)
	return &TaskService{crud[types.Task]{
		gw: gateway.New(store, gateway.Config[types.Task]{
			Table:  types.TableTasks,
			Entity: "task",
			Fields: TaskFields,
			ID:     func(t *types.Task) *int64 { return &t.ID },
		}, o.log),
		validate: (*types.Task).Validate,
	}}
}

// ToggleComplete flips the completion flag of the task identified by id
// and writes the whole task back.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (*types.Task, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Completed = !t.Completed
	return s.crud.Update(ctx, id, t)
}
