package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/corporate-directory/internal/model"
)

// ManagerRepo persists managers in the `managers` table.
type ManagerRepo struct{ DB *sql.DB }

func NewManagerRepo(db *sql.DB) *ManagerRepo { return &ManagerRepo{DB: db} }

const managerColumns = "id,name,designation,experience,city,created_at,updated_at"

// Create inserts a manager and returns its id.
func (r *ManagerRepo) Create(ctx context.Context, m model.Manager) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO managers (name, designation, experience, city) VALUES (?,?,?,?)",
        m.Name, m.Designation, m.Experience, m.City)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches one manager or ErrNotFound.
func (r *ManagerRepo) GetByID(ctx context.Context, id uint64) (model.Manager, error) {
    var m model.Manager
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+managerColumns+" FROM managers WHERE id=? LIMIT 1",
        id).Scan(&m.ID, &m.Name, &m.Designation, &m.Experience, &m.City, &m.CreatedAt, &m.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Manager{}, ErrNotFound
    }
    return m, err
}

// List returns all managers ordered by id.
func (r *ManagerRepo) List(ctx context.Context) ([]model.Manager, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+managerColumns+" FROM managers ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Manager
    for rows.Next() {
        var m model.Manager
        if err := rows.Scan(&m.ID, &m.Name, &m.Designation, &m.Experience, &m.City, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// Update rewrites the mutable fields of a manager.
func (r *ManagerRepo) Update(ctx context.Context, m model.Manager) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE managers SET name=?, designation=?, experience=?, city=?, updated_at=NOW() WHERE id=?",
        m.Name, m.Designation, m.Experience, m.City, m.ID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// Delete removes a manager by id. Employees referencing it keep a
// dangling manager_id of NULL via the schema's ON DELETE SET NULL.
func (r *ManagerRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM managers WHERE id=?", id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}
