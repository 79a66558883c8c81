package access

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/autogeral/dashboard-sso/internal/session"
)

func testTable(t *testing.T) *Table {
	t.Helper()

	table, err := New([]Page{
		{ID: "painel-geral", Title: "Dashboard e Métricas", Public: true},
		{ID: "centro-custo", Title: "Centro de custo", Roles: []string{"Gestor", "Encarregado", "Sócio"}},
		{ID: "mapa-calor", Title: "Mapa de Calor", Roles: []string{"Gestor", "Sócio"}},
		{ID: "combustivel-frota", Title: "Custo combustível frota", Roles: []string{"Gestor", "Compras"}},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return table
}

func loggedIn(role string) *session.Session {
	return &session.Session{
		ID:          "test-session",
		Name:        "Maria",
		Email:       "maria@autogeral.com",
		AccessToken: "token-abc",
		Role:        role,
		LoggedIn:    true,
	}
}

func TestPublicPagesAllowAnyLoggedInSession(t *testing.T) {
	table := testTable(t)

	for _, role := range []string{"Gestor", "Compras", "Outro Cargo", ""} {
		if !table.CanAccess(loggedIn(role), "painel-geral") {
			t.Errorf("role %q denied on public page", role)
		}
	}
}

func TestRoleGatedPagesMatchMembership(t *testing.T) {
	table := testTable(t)

	roles := []string{"Gestor", "Encarregado", "Sócio", "Compras", "VENDAS"}
	for _, p := range table.Pages() {
		if p.Public {
			continue
		}
		for _, role := range roles {
			want := p.allows(role)
			got := table.CanAccess(loggedIn(role), p.ID)
			if got != want {
				t.Errorf("CanAccess(%q, %q) = %v, want %v", role, p.ID, got, want)
			}
		}
	}
}

func TestNoSessionNoAccess(t *testing.T) {
	table := testTable(t)

	for _, p := range table.Pages() {
		if table.CanAccess(nil, p.ID) {
			t.Errorf("nil session allowed on %q", p.ID)
		}
		if got := table.Decide(nil, p.ID); got != RedirectToLogin {
			t.Errorf("Decide(nil, %q) = %v, want RedirectToLogin", p.ID, got)
		}
	}

	// A session that never finished login counts as no session
	anon := &session.Session{ID: "x", LoggedIn: false}
	if table.CanAccess(anon, "painel-geral") {
		t.Error("not-logged-in session allowed on public page")
	}
}

func TestEmptyRoleDeniedOnRoleGatedPages(t *testing.T) {
	table := testTable(t)
	sess := loggedIn("")

	for _, p := range table.Pages() {
		if p.Public {
			continue
		}
		if table.CanAccess(sess, p.ID) {
			t.Errorf("empty-role session allowed on %q", p.ID)
		}
		if got := table.Decide(sess, p.ID); got != NoRoleAssigned {
			t.Errorf("Decide = %v, want NoRoleAssigned (distinct from login redirect)", got)
		}
	}
}

func TestForbiddenIsDistinctFromNoRole(t *testing.T) {
	table := testTable(t)

	if got := table.Decide(loggedIn("VENDAS"), "mapa-calor"); got != Forbidden {
		t.Errorf("Decide = %v, want Forbidden", got)
	}
}

func TestUnregisteredPageForbidden(t *testing.T) {
	table := testTable(t)

	if got := table.Decide(loggedIn("Gestor"), "no-such-page"); got != Forbidden {
		t.Errorf("Decide = %v, want Forbidden", got)
	}
}

func TestVisiblePagesPreservesOrderAndNeverLeaks(t *testing.T) {
	table := testTable(t)

	visible := table.VisiblePages(loggedIn("Compras"))

	wantIDs := []string{"painel-geral", "combustivel-frota"}
	if len(visible) != len(wantIDs) {
		t.Fatalf("visible = %d pages, want %d", len(visible), len(wantIDs))
	}
	for i, id := range wantIDs {
		if visible[i].ID != id {
			t.Errorf("visible[%d] = %q, want %q", i, visible[i].ID, id)
		}
	}

	// Everything visible must actually open
	for _, p := range visible {
		if !table.CanAccess(loggedIn("Compras"), p.ID) {
			t.Errorf("visible page %q is not accessible", p.ID)
		}
	}
}

func TestVisiblePagesForNilSession(t *testing.T) {
	table := testTable(t)

	if pages := table.VisiblePages(nil); len(pages) != 0 {
		t.Errorf("nil session sees %d pages, want 0", len(pages))
	}
}

func TestVisiblePagesEmptyRole(t *testing.T) {
	table := testTable(t)

	visible := table.VisiblePages(loggedIn(""))
	for _, p := range visible {
		if !p.Public {
			t.Errorf("empty-role session sees role-gated page %q", p.ID)
		}
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.yaml")
	content := `
pages:
  - id: painel-geral
    title: "Dashboard"
    public: true
  - id: centro-custo
    title: "Centro de custo"
    roles: ["Gestor"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write pages file: %v", err)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(table.Pages()) != 2 {
		t.Errorf("pages = %d, want 2", len(table.Pages()))
	}
	if table.Lookup("centro-custo") == nil {
		t.Error("Lookup failed for registered page")
	}
}

func TestNewRejectsInvalidRegistry(t *testing.T) {
	tests := []struct {
		name  string
		pages []Page
	}{
		{"empty registry", nil},
		{"missing id", []Page{{Title: "x", Public: true}}},
		{"missing title", []Page{{ID: "x", Public: true}}},
		{"public with roles", []Page{{ID: "x", Title: "x", Public: true, Roles: []string{"Gestor"}}}},
		{"neither public nor roles", []Page{{ID: "x", Title: "x"}}},
		{"duplicate id", []Page{
			{ID: "x", Title: "x", Public: true},
			{ID: "x", Title: "y", Public: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.pages); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
