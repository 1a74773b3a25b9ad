package service

// Service defines the task operations exposed to the tool layer.
// Not-found conditions are reported with a false flag, never an error.
type Service interface {
	// List returns all tasks in insertion order.
	List() []Task

	// Add creates a task with status "pending" and a fresh ID.
	Add(title, description string) Task

	// Get returns the task with the given ID.
	Get(id string) (Task, bool)

	// SetStatus overwrites a task's status. Returns false if the ID is unknown.
	// The status value is not validated.
	SetStatus(id, status string) bool

	// Update applies the supplied fields of u to the task.
	// Returns false and changes nothing if the ID is unknown.
	Update(id string, u Update) (Task, bool)

	// Next returns the earliest-inserted pending task.
	// It does not claim the task; repeated calls return the same one.
	Next() (Task, bool)
}
