package directory

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/autogeral/dashboard-sso/internal/config"
)

func newMockDirectory(t *testing.T) (*SQLDirectory, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dir := NewSQLDirectory(db, &config.DirectoryConfig{
		Table:        "acessos",
		QueryTimeout: 5,
	})
	return dir, mock
}

func TestLookupRoleFound(t *testing.T) {
	dir, mock := newMockDirectory(t)

	rows := sqlmock.NewRows([]string{"nome", "cargo", "email"}).
		AddRow("Maria", "Gestor", "maria@autogeral.com")
	mock.ExpectQuery("SELECT nome, cargo, email FROM acessos WHERE email = \\$1").
		WithArgs("maria@autogeral.com").
		WillReturnRows(rows)

	rec, err := dir.LookupRole(context.Background(), "maria@autogeral.com")
	if err != nil {
		t.Fatalf("LookupRole failed: %v", err)
	}

	if rec.Name != "Maria" {
		t.Errorf("Name = %q, want Maria", rec.Name)
	}
	if rec.Role != "Gestor" {
		t.Errorf("Role = %q, want Gestor", rec.Role)
	}
	if rec.Email != "maria@autogeral.com" {
		t.Errorf("Email = %q, want maria@autogeral.com", rec.Email)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestLookupRoleNotFound(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery("SELECT nome, cargo, email FROM acessos WHERE email = \\$1").
		WithArgs("unknown@autogeral.com").
		WillReturnRows(sqlmock.NewRows([]string{"nome", "cargo", "email"}))

	_, err := dir.LookupRole(context.Background(), "unknown@autogeral.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLookupRoleQueryError(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery("SELECT nome, cargo, email FROM acessos WHERE email = \\$1").
		WithArgs("maria@autogeral.com").
		WillReturnError(errors.New("connection reset"))

	_, err := dir.LookupRole(context.Background(), "maria@autogeral.com")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("a query failure must not look like a missing record")
	}
}
