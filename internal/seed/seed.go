// Package seed brings the database to its minimum usable state at
// startup: the role vocabulary rows and, optionally, a bootstrap admin
// account. Failures here are configuration errors; the caller exits.
package seed

import (
    "context"
    "errors"
    "log"

    "github.com/iliyamo/corporate-directory/internal/auth"
    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

// Params configures the bootstrap admin. Password empty means no admin
// is seeded (an existing deployment already has one).
type Params struct {
    AdminUsername string
    AdminEmail    string
    AdminPassword string
    BcryptCost    int
}

// Run ensures the role rows exist and seeds the bootstrap admin account
// when configured and absent.
func Run(ctx context.Context, accounts *repository.AccountRepo, roles *repository.RoleRepo, p Params) error {
    for _, role := range model.AllRoles {
        if err := roles.Ensure(ctx, role); err != nil {
            return err
        }
    }

    if p.AdminPassword == "" {
        return nil
    }
    _, err := accounts.FindByUsername(ctx, p.AdminUsername)
    if err == nil {
        return nil // already present
    }
    if !errors.Is(err, repository.ErrAccountNotFound) {
        return err
    }

    hash, err := auth.HashPassword(p.AdminPassword, p.BcryptCost)
    if err != nil {
        return err
    }
    id, err := accounts.Create(ctx, model.Account{
        Username:     p.AdminUsername,
        Email:        p.AdminEmail,
        PasswordHash: hash,
        Enabled:      true,
        Roles:        []model.Role{model.RoleAdmin},
    })
    if err != nil {
        return err
    }
    log.Printf("seed: bootstrap admin %q created (id=%d)", p.AdminUsername, id)
    return nil
}
