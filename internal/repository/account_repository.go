package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/corporate-directory/internal/model"
)

// AccountRepo persists accounts in the `users` table with roles joined
// through `user_roles`. It satisfies the credential-store contract the
// identity resolver and credential service consume.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

const accountColumns = "id,username,email,password_hash,enabled,created_at,updated_at"

// FindByUsername fetches an account and its roles by exact username.
func (r *AccountRepo) FindByUsername(ctx context.Context, username string) (model.Account, error) {
    return r.findBy(ctx, "username", username)
}

// FindByEmail fetches an account and its roles by normalized email.
func (r *AccountRepo) FindByEmail(ctx context.Context, email string) (model.Account, error) {
    return r.findBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

// FindByID fetches an account and its roles by id.
func (r *AccountRepo) FindByID(ctx context.Context, id uint64) (model.Account, error) {
    var a model.Account
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+accountColumns+" FROM users WHERE id=? LIMIT 1",
        id).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Enabled, &a.CreatedAt, &a.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Account{}, ErrAccountNotFound
    }
    if err != nil {
        return model.Account{}, err
    }
    if a.Roles, err = r.loadRoles(ctx, a.ID); err != nil {
        return model.Account{}, err
    }
    return a, nil
}

func (r *AccountRepo) findBy(ctx context.Context, column, value string) (model.Account, error) {
    var a model.Account
    err := r.DB.QueryRowContext(ctx,
        "SELECT "+accountColumns+" FROM users WHERE "+column+"=? LIMIT 1",
        value).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Enabled, &a.CreatedAt, &a.UpdatedAt)
    if err == sql.ErrNoRows {
        return model.Account{}, ErrAccountNotFound
    }
    if err != nil {
        return model.Account{}, err
    }
    if a.Roles, err = r.loadRoles(ctx, a.ID); err != nil {
        return model.Account{}, err
    }
    return a, nil
}

func (r *AccountRepo) loadRoles(ctx context.Context, userID uint64) ([]model.Role, error) {
    rows, err := r.DB.QueryContext(ctx,
        "SELECT r.name FROM roles r JOIN user_roles ur ON ur.role_id=r.id WHERE ur.user_id=?",
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var roles []model.Role
    for rows.Next() {
        var name string
        if err := rows.Scan(&name); err != nil {
            return nil, err
        }
        if role, ok := model.ParseRole(name); ok {
            roles = append(roles, role)
        }
    }
    return roles, rows.Err()
}

// ExistsByUsername reports whether any account already uses the username.
func (r *AccountRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
    return r.exists(ctx, "username", username)
}

// ExistsByEmail reports whether any account already uses the email.
func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
    return r.exists(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *AccountRepo) exists(ctx context.Context, column, value string) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        "SELECT COUNT(1) FROM users WHERE "+column+"=?", value).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// Create inserts the account and links its roles, returning the new id.
// Duplicate username/email collisions surface as ErrUsernameExists or
// ErrEmailExists.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) (uint64, error) {
    tx, err := r.DB.BeginTx(ctx, nil)
    if err != nil {
        return 0, err
    }
    defer func() { _ = tx.Rollback() }()

    res, err := tx.ExecContext(ctx,
        "INSERT INTO users (username, email, password_hash, enabled) VALUES (?,?,?,?)",
        a.Username, strings.ToLower(strings.TrimSpace(a.Email)), a.PasswordHash, a.Enabled)
    if err != nil {
        // MySQL 1062 = duplicate entry; the index name tells us which
        // unique column collided.
        msg := strings.ToLower(err.Error())
        if strings.Contains(msg, "1062") {
            if strings.Contains(msg, "email") {
                return 0, ErrEmailExists
            }
            return 0, ErrUsernameExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    for _, role := range a.Roles {
        if _, err := tx.ExecContext(ctx,
            "INSERT INTO user_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name=?",
            id, string(role)); err != nil {
            return 0, err
        }
    }
    if err := tx.Commit(); err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// UpdatePassword replaces the password hash for the account owning the
// given email.
func (r *AccountRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE users SET password_hash=?, updated_at=NOW() WHERE email=?",
        passwordHash, strings.ToLower(strings.TrimSpace(email)))
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrAccountNotFound
    }
    return nil
}

// SetEnabled flips the account's enabled flag (administrative action).
func (r *AccountRepo) SetEnabled(ctx context.Context, id uint64, enabled bool) error {
    res, err := r.DB.ExecContext(ctx,
        "UPDATE users SET enabled=?, updated_at=NOW() WHERE id=?", enabled, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrAccountNotFound
    }
    return nil
}
