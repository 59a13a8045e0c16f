package task

import (
	"container/list"
)

// Task is an interface which could be added into a List
type Task interface {
	// Name of the task
	Name() string
	// Run method
	Run() error
}

// Func adapts a function to a Task
type Func struct {
	TaskName string
	Fn       func() error
}

// Name of the task
func (f Func) Name() string { return f.TaskName }

// Run calls the function
func (f Func) Run() error { return f.Fn() }

// List is an ordered list of tasks
type List struct {
	taskList *list.List
}

// NewTaskList initials a list of task
func NewTaskList(tasks ...Task) *List {
	tl := list.New()
	for _, t := range tasks {
		tl.PushBack(t)
	}
	return &List{taskList: tl}
}

// Add appends a task
func (l *List) Add(t Task) {
	l.taskList.PushBack(t)
}

// Len returns the number of tasks
func (l *List) Len() int {
	return l.taskList.Len()
}

// Start runs the tasks in order and stops at the first failure, returning
// the failed task and its error
func (l *List) Start() (Task, error) {
	for te := l.taskList.Front(); te != nil; te = te.Next() {
		t := te.Value.(Task)
		if err := t.Run(); err != nil {
			return t, err
		}
	}
	return nil, nil
}
