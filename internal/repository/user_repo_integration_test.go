package repository

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"auth-api/internal/db"
	"auth-api/internal/domain"
)

func newIntegrationRepo(t *testing.T) *PgUserRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)
	if _, err := pool.Exec(ctx, "TRUNCATE users RESTART IDENTITY"); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return NewPgUserRepository(pool)
}

func TestPgUserRepository_CreateAndGet(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	name := "Alice"

	created, err := repo.Create(ctx, domain.User{Email: "alice@example.com", PasswordHash: "hash", Name: &name})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 || created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected server generated fields, got %+v", created)
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != created.ID || byEmail.PasswordHash != "hash" || byEmail.Name == nil || *byEmail.Name != "Alice" {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	byID, err := repo.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != "alice@example.com" {
		t.Fatalf("unexpected email %q", byID.Email)
	}

	second, err := repo.Create(ctx, domain.User{Email: "bob@example.com", PasswordHash: "hash"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ID <= created.ID {
		t.Fatalf("expected monotonic ids, got %d after %d", second.ID, created.ID)
	}
	if second.Name != nil {
		t.Fatalf("expected nil name, got %q", *second.Name)
	}
}

func TestPgUserRepository_NotFound(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPgUserRepository_ConcurrentDuplicateEmail(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	const workers = 2
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Create(ctx, domain.User{Email: "race@example.com", PasswordHash: "hash"})
		}(i)
	}
	wg.Wait()

	var ok, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrEmailTaken):
			taken++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || taken != 1 {
		t.Fatalf("expected one success and one conflict, got ok=%d taken=%d", ok, taken)
	}
}
