package main // Entry point package

import (
    "context"
    "log"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/auth"
    "github.com/iliyamo/corporate-directory/internal/config"
    "github.com/iliyamo/corporate-directory/internal/database"
    "github.com/iliyamo/corporate-directory/internal/handler"
    "github.com/iliyamo/corporate-directory/internal/queue"
    "github.com/iliyamo/corporate-directory/internal/repository"
    "github.com/iliyamo/corporate-directory/internal/router"
    "github.com/iliyamo/corporate-directory/internal/seed"
    "github.com/iliyamo/corporate-directory/internal/service"
)

func main() {
    cfg := config.Load()

    // Configuration errors (short signing key, bad lifetime) stop the
    // process here; they must never surface at request time.
    codec, err := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTLSeconds)
    if err != nil {
        log.Fatal(err)
    }

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    if err := database.EnsureSchema(ctx, db); err != nil {
        cancel()
        log.Fatalf("schema: %v", err)
    }

    accounts := repository.NewAccountRepo(db)
    roles := repository.NewRoleRepo(db)
    employees := repository.NewEmployeeRepo(db)
    managers := repository.NewManagerRepo(db)

    if err := seed.Run(ctx, accounts, roles, seed.Params{
        AdminUsername: cfg.BootstrapUsername,
        AdminEmail:    cfg.BootstrapEmail,
        AdminPassword: cfg.BootstrapPassword,
        BcryptCost:    cfg.BcryptCost,
    }); err != nil {
        cancel()
        log.Fatalf("seed: %v", err)
    }
    cancel()

    resolver := auth.NewResolver(accounts)
    tickets := auth.NewResetTickets(time.Duration(cfg.ResetTTLMinutes) * time.Minute)
    credentials := service.NewCredentialService(accounts, roles, resolver, codec, tickets, service.QueueNotifier{}, cfg.BcryptCost)
    policy := auth.NewPolicy(auth.DefaultRules())

    // Bound the ticket map even when nobody completes their resets.
    stopPurge := make(chan struct{})
    defer close(stopPurge)
    go tickets.StartPurgeLoop(time.Minute, stopPurge)

    // Notification consumer runs for the lifetime of the process and
    // reconnects on broker failures.
    go func() {
        if err := queue.StartAccountConsumer(); err != nil {
            log.Printf("account consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true
    router.Register(e, router.Deps{
        Policy:    policy,
        Codec:     codec,
        Resolver:  resolver,
        Auth:      handler.NewAuthHandler(credentials, codec, resolver),
        Employees: handler.NewEmployeeHandler(employees, managers),
        Managers:  handler.NewManagerHandler(managers),
        RateLimit: config.LoadRateLimitConfig(),
        Redis:     config.NewRedisClient(),
    })

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
