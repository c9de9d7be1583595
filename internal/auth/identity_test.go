package auth

import (
    "context"
    "errors"
    "reflect"
    "testing"

    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

// stubAccounts serves a fixed account set keyed by username and email.
type stubAccounts struct {
    byUsername map[string]model.Account
    byEmail    map[string]model.Account
}

func (s stubAccounts) FindByUsername(_ context.Context, username string) (model.Account, error) {
    if acc, ok := s.byUsername[username]; ok {
        return acc, nil
    }
    return model.Account{}, repository.ErrAccountNotFound
}

func (s stubAccounts) FindByEmail(_ context.Context, email string) (model.Account, error) {
    if acc, ok := s.byEmail[email]; ok {
        return acc, nil
    }
    return model.Account{}, repository.ErrAccountNotFound
}

func TestResolveAccountUsernamePriority(t *testing.T) {
    t.Parallel()
    // "bob@corp.test" is simultaneously alice's username and bob's email.
    // The username lookup must win.
    alice := model.Account{Username: "bob@corp.test", Email: "alice@corp.test", Enabled: true}
    bob := model.Account{Username: "bob", Email: "bob@corp.test", Enabled: true}
    r := NewResolver(stubAccounts{
        byUsername: map[string]model.Account{"bob@corp.test": alice, "bob": bob},
        byEmail:    map[string]model.Account{"alice@corp.test": alice, "bob@corp.test": bob},
    })

    acc, err := r.ResolveAccount(context.Background(), "bob@corp.test")
    if err != nil {
        t.Fatalf("ResolveAccount: %v", err)
    }
    if acc.Email != "alice@corp.test" {
        t.Errorf("resolved %q, want the username match", acc.Email)
    }
}

func TestResolveAccountFallsBackToEmail(t *testing.T) {
    t.Parallel()
    acc := model.Account{Username: "carol", Email: "carol@corp.test", Enabled: true}
    r := NewResolver(stubAccounts{
        byUsername: map[string]model.Account{"carol": acc},
        byEmail:    map[string]model.Account{"carol@corp.test": acc},
    })

    got, err := r.ResolveAccount(context.Background(), "carol@corp.test")
    if err != nil {
        t.Fatalf("ResolveAccount: %v", err)
    }
    if got.Username != "carol" {
        t.Errorf("username = %q, want carol", got.Username)
    }
}

func TestResolveUnknownIdentity(t *testing.T) {
    t.Parallel()
    r := NewResolver(stubAccounts{})
    if _, err := r.Resolve(context.Background(), "nobody"); !errors.Is(err, ErrIdentityNotFound) {
        t.Fatalf("err = %v, want ErrIdentityNotFound", err)
    }
}

func TestResolveDisabledAccount(t *testing.T) {
    t.Parallel()
    acc := model.Account{Username: "dave", Enabled: false, Roles: []model.Role{model.RoleUser}}
    r := NewResolver(stubAccounts{byUsername: map[string]model.Account{"dave": acc}})
    if _, err := r.Resolve(context.Background(), "dave"); !errors.Is(err, ErrAccountDisabled) {
        t.Fatalf("err = %v, want ErrAccountDisabled", err)
    }
}

func TestResolveMapsRolesToAuthorities(t *testing.T) {
    t.Parallel()
    acc := model.Account{Username: "erin", Enabled: true, Roles: []model.Role{model.RoleAdmin, model.RoleUser}}
    r := NewResolver(stubAccounts{byUsername: map[string]model.Account{"erin": acc}})

    id, err := r.Resolve(context.Background(), "erin")
    if err != nil {
        t.Fatalf("Resolve: %v", err)
    }
    want := []string{"ROLE_ADMIN", "ROLE_USER"}
    if !reflect.DeepEqual(id.Authorities, want) {
        t.Errorf("authorities = %v, want %v", id.Authorities, want)
    }
    if !id.HasAuthority("ROLE_ADMIN") || id.HasAuthority("ROLE_OWNER") {
        t.Error("HasAuthority gave wrong answers")
    }
}

func TestResolveEmptyRoleSet(t *testing.T) {
    t.Parallel()
    acc := model.Account{Username: "frank", Enabled: true}
    r := NewResolver(stubAccounts{byUsername: map[string]model.Account{"frank": acc}})

    id, err := r.Resolve(context.Background(), "frank")
    if err != nil {
        t.Fatalf("Resolve: %v", err)
    }
    if len(id.Authorities) != 0 {
        t.Errorf("authorities = %v, want empty", id.Authorities)
    }
}
