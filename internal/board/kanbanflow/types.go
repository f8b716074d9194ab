// Package kanbanflow adapts a KanbanFlow board to the board.Adapter contract.
package kanbanflow

// BoardInfo is the response of GET /board.
type BoardInfo struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

type Column struct {
	UniqueID string `json:"uniqueId"`
	Name     string `json:"name"`
}

type Label struct {
	Name   string `json:"name"`
	Pinned bool   `json:"pinned"`
}

type Task struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	ColumnID    string  `json:"columnId"`
	Labels      []Label `json:"labels,omitempty"`
}

// columnTasks is one element of the GET /tasks response.
type columnTasks struct {
	ColumnID     string `json:"columnId"`
	ColumnName   string `json:"columnName"`
	TasksLimited bool   `json:"tasksLimited"`
	NextTaskID   string `json:"nextTaskId,omitempty"`
	Tasks        []Task `json:"tasks"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Name        string  `json:"name"`
	ColumnID    string  `json:"columnId"`
	Color       string  `json:"color,omitempty"`
	Description string  `json:"description,omitempty"`
	Labels      []Label `json:"labels,omitempty"`
}

type createTaskResponse struct {
	TaskID string `json:"taskId"`
}
