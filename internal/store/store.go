package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store runs the application's queries against a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ProjectRole is a member's role within a project.
type ProjectRole string

const (
	RoleOwner  ProjectRole = "owner"
	RoleEditor ProjectRole = "editor"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   time.Time
}

type Project struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectMember struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

// MemberDetail is a membership row joined with the member's user record.
type MemberDetail struct {
	UserID      string
	Role        ProjectRole
	DisplayName string
	Email       string
}

// Snapshot is one persisted scene version. Scene is the JSON document.
type Snapshot struct {
	ID        string
	ProjectID string
	Version   int32
	Scene     []byte
	CreatedAt time.Time
}

// --- Users ---

type CreateUserParams struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
}

func (s *Store) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, password, display_name, created_at`,
		arg.ID, arg.Email, arg.Password, arg.DisplayName)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE email = $1`, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

func (s *Store) GetUserByID(ctx context.Context, id string) (User, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, password, display_name, created_at
		FROM users WHERE id = $1`, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.DisplayName, &u.CreatedAt)
	return u, err
}

// --- Projects ---

type CreateProjectParams struct {
	ID      string
	Name    string
	OwnerID string
}

func (s *Store) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO projects (id, name, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, name, owner_id, created_at, updated_at`,
		arg.ID, arg.Name, arg.OwnerID)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM projects WHERE id = $1`, id)
	var p Project
	err := row.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProjectsForUser(ctx context.Context, userID string) ([]Project, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.name, p.owner_id, p.created_at, p.updated_at
		FROM projects p
		JOIN project_members m ON m.project_id = p.id
		WHERE m.user_id = $1
		ORDER BY p.updated_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

// --- Members ---

type AddProjectMemberParams struct {
	ProjectID string
	UserID    string
	Role      ProjectRole
}

func (s *Store) AddProjectMember(ctx context.Context, arg AddProjectMemberParams) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO NOTHING`,
		arg.ProjectID, arg.UserID, arg.Role)
	return err
}

type GetProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (s *Store) GetProjectMember(ctx context.Context, arg GetProjectMemberParams) (ProjectMember, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT project_id, user_id, role
		FROM project_members
		WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID)
	var m ProjectMember
	err := row.Scan(&m.ProjectID, &m.UserID, &m.Role)
	return m, err
}

func (s *Store) ListProjectMembers(ctx context.Context, projectID string) ([]MemberDetail, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.user_id, m.role, u.display_name, u.email
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.role, u.display_name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []MemberDetail
	for rows.Next() {
		var m MemberDetail
		if err := rows.Scan(&m.UserID, &m.Role, &m.DisplayName, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type RemoveProjectMemberParams struct {
	ProjectID string
	UserID    string
}

func (s *Store) RemoveProjectMember(ctx context.Context, arg RemoveProjectMemberParams) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM project_members
		WHERE project_id = $1 AND user_id = $2`,
		arg.ProjectID, arg.UserID)
	return err
}

// --- Snapshots ---

type CreateSnapshotParams struct {
	ID        string
	ProjectID string
	Version   int32
	Scene     []byte
}

func (s *Store) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO snapshots (id, project_id, version, scene)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, version, scene, created_at`,
		arg.ID, arg.ProjectID, arg.Version, arg.Scene)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Scene, &snap.CreatedAt)
	return snap, err
}

// GetLatestSnapshot returns the highest-version snapshot for a project.
func (s *Store) GetLatestSnapshot(ctx context.Context, projectID string) (Snapshot, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, project_id, version, scene, created_at
		FROM snapshots
		WHERE project_id = $1
		ORDER BY version DESC
		LIMIT 1`, projectID)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.ProjectID, &snap.Version, &snap.Scene, &snap.CreatedAt)
	return snap, err
}
