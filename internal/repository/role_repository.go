package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/corporate-directory/internal/model"
)

// RoleRepo reads and seeds the `roles` table. Roles are looked up by
// name, never created by request handlers.
type RoleRepo struct{ DB *sql.DB }

func NewRoleRepo(db *sql.DB) *RoleRepo { return &RoleRepo{DB: db} }

// FindByName returns the role when a row for the name exists, or
// ErrRoleNotConfigured otherwise.
func (r *RoleRepo) FindByName(ctx context.Context, name string) (model.Role, error) {
    var got string
    err := r.DB.QueryRowContext(ctx,
        "SELECT name FROM roles WHERE name=? LIMIT 1", name).Scan(&got)
    if err == sql.ErrNoRows {
        return "", ErrRoleNotConfigured
    }
    if err != nil {
        return "", err
    }
    role, ok := model.ParseRole(got)
    if !ok {
        return "", ErrRoleNotConfigured
    }
    return role, nil
}

// Ensure inserts the role row if it does not exist yet. Used by the
// startup seeder only.
func (r *RoleRepo) Ensure(ctx context.Context, role model.Role) error {
    _, err := r.DB.ExecContext(ctx,
        "INSERT IGNORE INTO roles (name) VALUES (?)", string(role))
    return err
}
