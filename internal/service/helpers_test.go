package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/settleup/settleup/internal/auth"
	"github.com/settleup/settleup/internal/models"
	"github.com/settleup/settleup/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "settleup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createUser(t *testing.T, store *sqlite.SQLiteStore, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func newAuthService(store *sqlite.SQLiteStore) *AuthService {
	return NewAuthService(
		auth.NewPasswordAuthenticator(store),
		auth.NewJWTManager("test-secret-key-for-tests", time.Hour),
	)
}

func createGroup(t *testing.T, store *sqlite.SQLiteStore, creator *models.User, memberIDs ...string) *models.Group {
	t.Helper()
	group := &models.Group{Name: "Test Group", CreatedBy: creator.ID}
	if err := store.CreateGroup(context.Background(), group, memberIDs); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group
}
