package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/corporate-directory/internal/model"
)

// EmployeeRepo persists directory employees in the `employees` table.
type EmployeeRepo struct{ DB *sql.DB }

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo { return &EmployeeRepo{DB: db} }

const employeeColumns = "id,first_name,last_name,email,phone,position,manager_id,created_at,updated_at"

func scanEmployee(row interface{ Scan(...any) error }) (model.Employee, error) {
    var (
        e   model.Employee
        mid sql.NullInt64
    )
    err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Position, &mid, &e.CreatedAt, &e.UpdatedAt)
    if err != nil {
        return model.Employee{}, err
    }
    if mid.Valid {
        v := uint64(mid.Int64)
        e.ManagerID = &v
    }
    return e, nil
}

// Create inserts an employee and returns its id. A duplicate email
// surfaces as ErrEmailExists.
func (r *EmployeeRepo) Create(ctx context.Context, e model.Employee) (uint64, error) {
    var mid any
    if e.ManagerID != nil {
        mid = *e.ManagerID
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO employees (first_name, last_name, email, phone, position, manager_id) VALUES (?,?,?,?,?,?)",
        e.FirstName, e.LastName, strings.ToLower(strings.TrimSpace(e.Email)), e.Phone, e.Position, mid)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrEmailExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches one employee or ErrNotFound.
func (r *EmployeeRepo) GetByID(ctx context.Context, id uint64) (model.Employee, error) {
    e, err := scanEmployee(r.DB.QueryRowContext(ctx,
        "SELECT "+employeeColumns+" FROM employees WHERE id=? LIMIT 1", id))
    if err == sql.ErrNoRows {
        return model.Employee{}, ErrNotFound
    }
    return e, err
}

// List returns all employees ordered by id.
func (r *EmployeeRepo) List(ctx context.Context) ([]model.Employee, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT "+employeeColumns+" FROM employees ORDER BY id")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Employee
    for rows.Next() {
        e, err := scanEmployee(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, e)
    }
    return out, rows.Err()
}

// Update rewrites the mutable fields of an employee. Missing rows
// surface as ErrNotFound.
func (r *EmployeeRepo) Update(ctx context.Context, e model.Employee) error {
    var mid any
    if e.ManagerID != nil {
        mid = *e.ManagerID
    }
    res, err := r.DB.ExecContext(ctx,
        "UPDATE employees SET first_name=?, last_name=?, email=?, phone=?, position=?, manager_id=?, updated_at=NOW() WHERE id=?",
        e.FirstName, e.LastName, strings.ToLower(strings.TrimSpace(e.Email)), e.Phone, e.Position, mid, e.ID)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrEmailExists
        }
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

// Delete removes an employee by id.
func (r *EmployeeRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx, "DELETE FROM employees WHERE id=?", id)
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
