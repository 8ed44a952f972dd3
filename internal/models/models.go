package models

import (
	"strings"
	"time"
)

// Default statuses stamped on newly created records.
const (
	ProjectStatusActive = "active"
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Account is a registered user together with its password hash.
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

// Public returns the representation of the account that is safe to send to clients.
func (a Account) Public() PublicUser {
	return PublicUser{ID: a.ID, Username: a.Username, Email: a.Email}
}

// PublicUser is the account as exposed over the API.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Project groups tasks under a name and an optional deadline.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Deadline    string    `json:"deadline"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewProject carries the caller supplied fields of a project to create.
type NewProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

// Validate performs the presence checks for a new project.
func (p NewProject) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "is required"}
	}
	return nil
}

// ProjectPatch lists the project fields a caller may change. Nil means unchanged.
type ProjectPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
}

// Apply copies the set fields of the patch onto p.
func (pp ProjectPatch) Apply(p *Project) {
	setIf(&p.Name, pp.Name)
	setIf(&p.Description, pp.Description)
	setIf(&p.Deadline, pp.Deadline)
	setIf(&p.Status, pp.Status)
}

// Task is a unit of work owned by an account and loosely tied to a project.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectID   string    `json:"projectId"`
	Priority    string    `json:"priority"`
	DueDate     string    `json:"dueDate"`
	Status      string    `json:"status"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewTask carries the caller supplied fields of a task to create.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ProjectID   string `json:"projectId"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// Validate performs the presence checks for a new task.
func (t NewTask) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	return nil
}

// TaskPatch lists the task fields a caller may change. Nil means unchanged.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ProjectID   *string `json:"projectId"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}

// Apply copies the set fields of the patch onto t.
func (tp TaskPatch) Apply(t *Task) {
	setIf(&t.Title, tp.Title)
	setIf(&t.Description, tp.Description)
	setIf(&t.ProjectID, tp.ProjectID)
	setIf(&t.Priority, tp.Priority)
	setIf(&t.DueDate, tp.DueDate)
	setIf(&t.Status, tp.Status)
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// GlobalStats holds the unscoped totals shown on the public analytics page.
type GlobalStats struct {
	TotalUsers    int `json:"totalUsers"`
	TotalProjects int `json:"totalProjects"`
	TotalTasks    int `json:"totalTasks"`
}

// PriorityBreakdown counts tasks per well-known priority.
type PriorityBreakdown struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// UserStats summarises the tasks of a single account.
type UserStats struct {
	Total      int               `json:"total"`
	Completed  int               `json:"completed"`
	Remaining  int               `json:"remaining"`
	Priorities PriorityBreakdown `json:"priorities"`
}
