package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/sanonone/kektorgraph/pkg/engine"
)

// TaskStatus defines the possible states of a task.
type TaskStatus string

const (
	TaskStatusStarted   TaskStatus = "started"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is an import running in the background.
type Task struct {
	ID     string
	Status TaskStatus
	Report *engine.ImportReport
	Error  string
	mu     sync.RWMutex
}

// TaskInfo is a point-in-time copy of a Task.
type TaskInfo struct {
	ID     string               `json:"id"`
	Status TaskStatus           `json:"status"`
	Report *engine.ImportReport `json:"report,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// TaskManager tracks background imports.
type TaskManager struct {
	tasks map[string]*Task
	mu    sync.RWMutex
}

func NewTaskManager() *TaskManager {
	return &TaskManager{
		tasks: make(map[string]*Task),
	}
}

// NewTask creates a new task, registers it, and returns it.
func (tm *TaskManager) NewTask() *Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	task := &Task{
		ID:     uuid.New().String(),
		Status: TaskStatusStarted,
	}
	tm.tasks[task.ID] = task
	return task
}

// GetTask returns a snapshot of the task with the given id.
func (tm *TaskManager) GetTask(id string) (TaskInfo, bool) {
	tm.mu.RLock()
	task, found := tm.tasks[id]
	tm.mu.RUnlock()
	if !found {
		return TaskInfo{}, false
	}

	task.mu.RLock()
	defer task.mu.RUnlock()
	return TaskInfo{ID: task.ID, Status: task.Status, Report: task.Report, Error: task.Error}, true
}

func (t *Task) SetStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = status
}

// SetError marks the task as failed and records the error message.
func (t *Task) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusFailed
	t.Error = err.Error()
}

// Complete marks the task as done with its report.
func (t *Task) Complete(report *engine.ImportReport) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Status = TaskStatusCompleted
	t.Report = report
}
