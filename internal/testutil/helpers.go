package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/repository"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/service"
)

// TestAdminPassword is the shared secret test view services are gated on.
const TestAdminPassword = "test-secret"

// TestLocator is a well-formed spreadsheet locator for tests.
const TestLocator = "https://docs.google.com/spreadsheets/d/test-sheet-id/edit?gid=644186025#gid=644186025"

// NewTestViewService returns a ViewService gated on TestAdminPassword.
func NewTestViewService(t *testing.T) *service.ViewService {
	t.Helper()

	return service.NewViewService(TestAdminPassword)
}

// NewTestDatasetService returns a DatasetService backed by the given mock
// fetcher with a one-minute cache TTL.
func NewTestDatasetService(t *testing.T, fetcher *MockSheetFetcher) *service.DatasetService {
	t.Helper()

	return service.NewDatasetService(fetcher, TestLocator, time.Minute)
}

// NewTestEditorService returns an EditorService over an in-memory session
// store with a freshly generated signing key and a one-hour TTL.
func NewTestEditorService(t *testing.T, db *sql.DB) *service.EditorService {
	t.Helper()

	sessionRepo := repository.NewSessionRepository(db)

	return service.NewEditorService(
		sessionRepo,
		TestFernetKey(t),
		time.Hour,
	)
}

// NewTestSystemService returns a SystemService over the given database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// TestFernetKey generates a throwaway session signing key.
func TestFernetKey(t *testing.T) *fernet.Key {
	t.Helper()

	key := &fernet.Key{}
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return key
}
