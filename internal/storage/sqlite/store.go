package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"planner/internal/models"
	"planner/internal/storage"
)

// Store keeps the planner collections in an in-memory SQLite database that
// lives as long as the Store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ storage.Store = (*Store)(nil)

type scanner interface {
	Scan(dest ...any) error
}

// Open creates a private in-memory database and runs the migrations. An
// empty name picks a random one so that stores never share data.
func Open(name string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = "planner-" + uuid.NewString()
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// The database disappears with its last connection, so keep exactly one open.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	s := &Store{db: conn, logger: logger}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logger.Debug("sqlite store ready", slog.String("name", name))
	return s, nil
}

// Close releases the database; its contents are gone afterwards.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS projects (
            id TEXT NOT NULL UNIQUE,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            deadline TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            owner_id TEXT NOT NULL,
            created_at DATETIME NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS tasks (
            id TEXT NOT NULL UNIQUE,
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            project_id TEXT NOT NULL DEFAULT '',
            priority TEXT NOT NULL DEFAULT '',
            due_date TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            owner_id TEXT NOT NULL,
            created_at DATETIME NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_projects_owner ON projects(owner_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner_id);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CreateAccount inserts a; the UNIQUE constraint on email rejects duplicates.
func (s *Store) CreateAccount(ctx context.Context, a models.Account) (models.Account, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO accounts(id, username, email, password_hash) VALUES(?, ?, ?, ?)`,
		a.ID, a.Username, a.Email, a.PasswordHash)
	if isUniqueViolation(err) {
		return models.Account{}, storage.ErrDuplicateEmail
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("insert account: %w", err)
	}
	return a, nil
}

// AccountByEmail looks an account up by exact email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var a models.Account
	err := s.db.QueryRowContext(ctx, `SELECT id, username, email, password_hash FROM accounts WHERE email = ?`, email).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

// CountAccounts returns the number of registered accounts.
func (s *Store) CountAccounts(ctx context.Context) (int, error) {
	return s.count(ctx, "accounts")
}

const projectColumns = `id, name, description, deadline, status, owner_id, created_at`

func scanProject(row scanner) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Deadline, &p.Status, &p.OwnerID, &p.CreatedAt)
	p.CreatedAt = p.CreatedAt.UTC()
	return p, err
}

// ListProjects returns the projects of ownerID in insertion order.
func (s *Store) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE owner_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateProject persists p as given.
func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects(`+projectColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Deadline, p.Status, p.OwnerID, p.CreatedAt.UTC())
	if err != nil {
		return models.Project{}, fmt.Errorf("insert project: %w", err)
	}
	return s.GetProject(ctx, p.OwnerID, p.ID)
}

// GetProject fetches a project owned by ownerID.
func (s *Store) GetProject(ctx context.Context, ownerID, id string) (models.Project, error) {
	return getProject(ctx, s.db, ownerID, id)
}

func getProject(ctx context.Context, q queryer, ownerID, id string) (models.Project, error) {
	p, err := scanProject(q.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// UpdateProject applies patch to the owned project inside a transaction.
func (s *Store) UpdateProject(ctx context.Context, ownerID, id string, patch models.ProjectPatch) (models.Project, error) {
	var updated models.Project
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getProject(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		patch.Apply(&current)

		_, err = tx.ExecContext(ctx, `UPDATE projects SET name = ?, description = ?, deadline = ?, status = ? WHERE id = ? AND owner_id = ?`,
			current.Name, current.Description, current.Deadline, current.Status, id, ownerID)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}
	return updated, nil
}

// DeleteProject removes the owned project.
func (s *Store) DeleteProject(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return expectAffected(res)
}

// CountProjects returns the number of projects across all owners.
func (s *Store) CountProjects(ctx context.Context) (int, error) {
	return s.count(ctx, "projects")
}

const taskColumns = `id, title, description, project_id, priority, due_date, status, owner_id, created_at`

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.ProjectID, &t.Priority, &t.DueDate, &t.Status, &t.OwnerID, &t.CreatedAt)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, err
}

// ListTasks returns the tasks of ownerID in insertion order.
func (s *Store) ListTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY rowid`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateTask persists t as given. ProjectID is stored without a foreign key.
func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks(`+taskColumns+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.ProjectID, t.Priority, t.DueDate, t.Status, t.OwnerID, t.CreatedAt.UTC())
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, t.OwnerID, t.ID)
}

// GetTask fetches a task owned by ownerID.
func (s *Store) GetTask(ctx context.Context, ownerID, id string) (models.Task, error) {
	return getTask(ctx, s.db, ownerID, id)
}

func getTask(ctx context.Context, q queryer, ownerID, id string) (models.Task, error) {
	t, err := scanTask(q.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// UpdateTask applies patch to the owned task inside a transaction.
func (s *Store) UpdateTask(ctx context.Context, ownerID, id string, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := getTask(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		patch.Apply(&current)

		_, err = tx.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, project_id = ?, priority = ?, due_date = ?, status = ? WHERE id = ? AND owner_id = ?`,
			current.Title, current.Description, current.ProjectID, current.Priority, current.DueDate, current.Status, id, ownerID)
		if err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		updated = current
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes the owned task.
func (s *Store) DeleteTask(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return expectAffected(res)
}

// CountTasks returns the number of tasks across all owners.
func (s *Store) CountTasks(ctx context.Context) (int, error) {
	return s.count(ctx, "tasks")
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// count is only called with the fixed table names above.
func (s *Store) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func expectAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
