package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestAdminStoreIsAdmin(t *testing.T) {
	ctx := context.Background()
	store := NewAdminStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "EXISTS") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*bool) = true
			return nil
		},
	})
	isAdmin, err := store.IsAdmin(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isAdmin {
		t.Fatalf("expected admin")
	}
}

func TestAdminStoreHasRoleUnknownRole(t *testing.T) {
	ctx := context.Background()
	store := NewAdminStore(stubDB{
		getFn: func(_ context.Context, _ any, _ string, _ ...any) error {
			t.Fatal("unknown roles must not hit the database")
			return nil
		},
	})
	ok, err := store.HasRole(ctx, "user-1", "auditor")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("unknown role must not grant access")
	}
}

func TestAdminStoreCreateAdminIdempotent(t *testing.T) {
	ctx := context.Background()
	createdBy := "admin-0"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "ON CONFLICT DO NOTHING") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAdminStore(stubDB{})
	if err := store.CreateAdmin(ctx, execer, "user-1", &createdBy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuditStoreLog(t *testing.T) {
	ctx := context.Background()
	target := "user-7"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO admin_actions") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != "admin-1" || args[1] != "fund_account" {
				t.Fatalf("unexpected args: %#v", args)
			}
			if ptr, ok := args[2].(*string); !ok || *ptr != target {
				t.Fatalf("unexpected target arg: %#v", args[2])
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAuditStore(stubDB{})
	if err := store.Log(ctx, execer, "admin-1", "fund_account", &target, `{"amount":"1"}`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
