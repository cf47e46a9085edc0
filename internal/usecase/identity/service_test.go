package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/taskdesk/taskdesk/internal/domain"
	domid "github.com/taskdesk/taskdesk/internal/domain/identity"
)

// --- Mocks ---

type mockRepo struct {
	profiles map[domid.Principal]domid.Profile
	roles    map[domid.Principal]domid.Role
	saveErr  error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		profiles: map[domid.Principal]domid.Profile{},
		roles:    map[domid.Principal]domid.Role{},
	}
}

func (m *mockRepo) SaveProfile(_ context.Context, p domid.Principal, prof domid.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[p] = prof
	return nil
}

func (m *mockRepo) GetProfile(_ context.Context, p domid.Principal) (domid.Profile, error) {
	prof, ok := m.profiles[p]
	if !ok {
		return domid.Profile{}, domain.ErrNotFound
	}
	return prof, nil
}

func (m *mockRepo) AssignRole(_ context.Context, p domid.Principal, role domid.Role) error {
	m.roles[p] = role
	return nil
}

func (m *mockRepo) GetRole(_ context.Context, p domid.Principal) (domid.Role, error) {
	role, ok := m.roles[p]
	if !ok {
		return "", domain.ErrNotFound
	}
	return role, nil
}

// --- Tests ---

func TestWhoami_TokenRoleByDefault(t *testing.T) {
	svc := New(newMockRepo())

	info, err := svc.Whoami(context.Background(), "alice", domid.RoleUser)
	if err != nil {
		t.Fatalf("Whoami: %v", err)
	}
	if info.Role != domid.RoleUser || info.HasProfile {
		t.Errorf("info = %+v", info)
	}
}

func TestWhoami_AssignedRoleOverrides(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()

	if _, err := svc.AssignRole(ctx, "alice", "admin"); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}
	info, err := svc.Whoami(ctx, "alice", domid.RoleUser)
	if err != nil {
		t.Fatalf("Whoami: %v", err)
	}
	if info.Role != domid.RoleAdmin {
		t.Errorf("role = %s, want admin", info.Role)
	}
}

func TestWhoami_AnonymousKeepsTokenRole(t *testing.T) {
	repo := newMockRepo()
	svc := New(repo)
	ctx := context.Background()

	// An assigned role for some other principal must not leak onto the
	// anonymous caller.
	if _, err := svc.AssignRole(ctx, "alice", "guest"); err != nil {
		t.Fatalf("AssignRole: %v", err)
	}

	info, err := svc.Whoami(ctx, domid.Anonymous, domid.RoleAdmin)
	if err != nil {
		t.Fatalf("Whoami: %v", err)
	}
	if info.Role != domid.RoleAdmin {
		t.Errorf("role = %s, want admin", info.Role)
	}
	if info.HasProfile {
		t.Error("anonymous caller should have no profile")
	}
}

func TestSaveProfile_AndWhoami(t *testing.T) {
	svc := New(newMockRepo())
	ctx := context.Background()

	prof, err := svc.SaveProfile(ctx, "alice", "Alice Ray", "alice@example.com", "eng")
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if prof.Name() != "Alice Ray" {
		t.Errorf("name = %q", prof.Name())
	}

	info, err := svc.Whoami(ctx, "alice", domid.RoleUser)
	if err != nil {
		t.Fatalf("Whoami: %v", err)
	}
	if !info.HasProfile || info.Profile.Department() != "eng" {
		t.Errorf("info = %+v", info)
	}
}

func TestAssignRole_Invalid(t *testing.T) {
	svc := New(newMockRepo())

	if _, err := svc.AssignRole(context.Background(), "alice", "superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestSaveProfile_Invalid(t *testing.T) {
	svc := New(newMockRepo())

	if _, err := svc.SaveProfile(context.Background(), "alice", "", "", ""); err == nil {
		t.Fatal("expected error for empty profile")
	}
}

func TestWhoami_StorageFailure(t *testing.T) {
	repo := newMockRepo()
	repo.saveErr = errors.New("unreachable")
	svc := New(repo)

	if _, err := svc.SaveProfile(context.Background(), "alice", "Alice", "a@b.c", "eng"); err == nil {
		t.Fatal("expected wrapped storage error")
	}
}
