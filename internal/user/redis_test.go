package user

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStoreFromClient(client)
}

func TestRedisStore_CreateAssignsUniqueIDs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seen := make(map[int64]bool)
	for _, name := range []string{"alice", "bob", "carol"} {
		u, err := store.Create(ctx, name)
		if err != nil {
			t.Fatalf("Create(%q) returned unexpected error: %v", name, err)
		}
		if u.Name != name {
			t.Errorf("Create(%q).Name = %q", name, u.Name)
		}
		if seen[u.ID] {
			t.Errorf("Create(%q) reused id %d", name, u.ID)
		}
		seen[u.ID] = true
	}
}

func TestRedisStore_ListOrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	names := []string{"alice", "bob", "carol"}
	for _, name := range names {
		if _, err := store.Create(ctx, name); err != nil {
			t.Fatalf("Create(%q) returned unexpected error: %v", name, err)
		}
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(users) != len(names) {
		t.Fatalf("List() returned %d users, want %d", len(users), len(names))
	}

	for i, u := range users {
		if u.Name != names[i] {
			t.Errorf("users[%d].Name = %q, want %q", i, u.Name, names[i])
		}
		if i > 0 && users[i-1].ID >= u.ID {
			t.Errorf("users not ordered by id: %d before %d", users[i-1].ID, u.ID)
		}
	}
}

func TestRedisStore_ListEmpty(t *testing.T) {
	store := newTestStore(t)

	users, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("List() on empty store returned %d users", len(users))
	}
}

func TestRedisStore_Get(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(%d) returned unexpected error: %v", created.ID, err)
	}
	if got != created {
		t.Errorf("Get(%d) = %+v, want %+v", created.ID, got, created)
	}
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	if err := store.Update(ctx, created.ID, "alicia"); err != nil {
		t.Fatalf("Update(%d) returned unexpected error: %v", created.ID, err)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get(%d) returned unexpected error: %v", created.ID, err)
	}
	if got.Name != "alicia" {
		t.Errorf("name after update = %q, want %q", got.Name, "alicia")
	}
}

func TestRedisStore_UpdateNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), 999, "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(999) error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, "alice")
	if err != nil {
		t.Fatalf("Create() returned unexpected error: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete(%d) returned unexpected error: %v", created.ID, err)
	}

	if _, err := store.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}

	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() returned unexpected error: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("List() after delete returned %d users", len(users))
	}
}

func TestRedisStore_DeleteNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.Delete(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(999) error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	store := newTestStore(t)

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() returned unexpected error: %v", err)
	}
}
