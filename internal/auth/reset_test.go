package auth

import (
    "errors"
    "sync"
    "testing"
    "time"
)

func TestResetTicketSingleUse(t *testing.T) {
    t.Parallel()
    store := NewResetTickets(time.Minute)

    ticket, err := store.Create("alice@corp.test")
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    if len(ticket.Token) != 64 {
        t.Errorf("token length = %d, want 64", len(ticket.Token))
    }

    email, err := store.Consume(ticket.Token)
    if err != nil {
        t.Fatalf("Consume: %v", err)
    }
    if email != "alice@corp.test" {
        t.Errorf("email = %q, want alice@corp.test", email)
    }

    if _, err := store.Consume(ticket.Token); !errors.Is(err, ErrTicketNotFound) {
        t.Fatalf("replay err = %v, want ErrTicketNotFound", err)
    }
}

func TestResetTicketUnknownToken(t *testing.T) {
    t.Parallel()
    store := NewResetTickets(time.Minute)
    if _, err := store.Consume("no-such-token"); !errors.Is(err, ErrTicketNotFound) {
        t.Fatalf("err = %v, want ErrTicketNotFound", err)
    }
}

func TestResetTicketExpiry(t *testing.T) {
    t.Parallel()
    store := NewResetTickets(time.Nanosecond)

    ticket, err := store.Create("bob@corp.test")
    if err != nil {
        t.Fatalf("Create: %v", err)
    }
    time.Sleep(5 * time.Millisecond)

    if _, err := store.Consume(ticket.Token); !errors.Is(err, ErrTicketExpired) {
        t.Fatalf("err = %v, want ErrTicketExpired", err)
    }
    // The expired ticket is removed on detection; a retry cannot see it.
    if _, err := store.Consume(ticket.Token); !errors.Is(err, ErrTicketNotFound) {
        t.Fatalf("retry err = %v, want ErrTicketNotFound", err)
    }
}

func TestResetTicketTokensAreUnique(t *testing.T) {
    t.Parallel()
    store := NewResetTickets(time.Minute)
    seen := make(map[string]bool)
    for i := 0; i < 50; i++ {
        ticket, err := store.Create("carol@corp.test")
        if err != nil {
            t.Fatalf("Create: %v", err)
        }
        if seen[ticket.Token] {
            t.Fatal("duplicate ticket token")
        }
        seen[ticket.Token] = true
    }
}

func TestResetTicketConcurrentConsume(t *testing.T) {
    t.Parallel()
    store := NewResetTickets(time.Minute)
    ticket, err := store.Create("dave@corp.test")
    if err != nil {
        t.Fatalf("Create: %v", err)
    }

    const workers = 16
    var wg sync.WaitGroup
    wins := make(chan struct{}, workers)
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            if _, err := store.Consume(ticket.Token); err == nil {
                wins <- struct{}{}
            }
        }()
    }
    wg.Wait()
    close(wins)

    n := 0
    for range wins {
        n++
    }
    if n != 1 {
        t.Fatalf("%d consumers succeeded, want exactly 1", n)
    }
}

func TestPurgeExpired(t *testing.T) {
    t.Parallel()
    store := NewResetTickets(time.Nanosecond)
    for i := 0; i < 3; i++ {
        if _, err := store.Create("erin@corp.test"); err != nil {
            t.Fatalf("Create: %v", err)
        }
    }
    time.Sleep(5 * time.Millisecond)

    if n := store.PurgeExpired(); n != 3 {
        t.Errorf("purged %d, want 3", n)
    }
    if n := store.PurgeExpired(); n != 0 {
        t.Errorf("second purge removed %d, want 0", n)
    }
}
