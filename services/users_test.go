package services

import (
	"context"
	"errors"
	"testing"

	"smartshala_go/models"
	"smartshala_go/store"
)

func TestUserServiceCreateAssignsSequentialID(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	first, err := svc.Create(ctx, CreateUserInput{
		Email: "ravi@school.test", Name: "Ravi", Role: models.RoleStudent, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.StudentID != "STU-1" {
		t.Fatalf("expected STU-1, got %q", first.StudentID)
	}

	second, err := svc.Create(ctx, CreateUserInput{
		Email: "asha@school.test", Name: "Asha", Role: models.RoleStudent, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.StudentID != "STU-2" {
		t.Fatalf("expected STU-2, got %q", second.StudentID)
	}
}

func TestUserServiceCreateAdminHasNoRoleID(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())
	admin, err := svc.Create(context.Background(), CreateUserInput{
		Email: "head@school.test", Name: "Head", Role: models.RoleAdmin, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	if admin.RoleID() != "" {
		t.Fatalf("expected no role id for admin, got %q", admin.RoleID())
	}
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	if _, err := svc.Create(ctx, CreateUserInput{
		Email: "ravi@school.test", Name: "Ravi", Role: models.RoleStudent, PasswordHash: "h",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, CreateUserInput{
		Email: "ravi@school.test", Name: "Other", Role: models.RoleTeacher, PasswordHash: "h",
	})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserServiceCreateParentRequiresChildLink(t *testing.T) {
	svc := NewUserService(store.NewMemoryStore())
	var verr *ValidationError
	_, err := svc.Create(context.Background(), CreateUserInput{
		Email: "dad@school.test", Name: "Dad", Role: models.RoleParent, PasswordHash: "h",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserServiceCreateSuppliedRoleID(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	user, err := svc.Create(ctx, CreateUserInput{
		Email: "meera@school.test", Name: "Meera", Role: models.RoleTeacher,
		PasswordHash: "h", RoleID: "TEA-40",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.TeacherID != "TEA-40" {
		t.Fatalf("expected TEA-40, got %q", user.TeacherID)
	}

	// Same id again conflicts.
	_, err = svc.Create(ctx, CreateUserInput{
		Email: "arun@school.test", Name: "Arun", Role: models.RoleTeacher,
		PasswordHash: "h", RoleID: "TEA-40",
	})
	if !errors.Is(err, ErrDuplicateRoleID) {
		t.Fatalf("expected ErrDuplicateRoleID, got %v", err)
	}

	// Malformed override is rejected.
	var verr *ValidationError
	_, err = svc.Create(ctx, CreateUserInput{
		Email: "kiran@school.test", Name: "Kiran", Role: models.RoleTeacher,
		PasswordHash: "h", RoleID: "TEACHER-1",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUserServicePasswordHashRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	user, err := svc.Create(ctx, CreateUserInput{
		Email: "ravi@school.test", Name: "Ravi", Role: models.RoleStudent, PasswordHash: "bcrypt-hash",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	hash, err := svc.PasswordHash(ctx, user.ID)
	if err != nil {
		t.Fatalf("password hash: %v", err)
	}
	if hash != "bcrypt-hash" {
		t.Fatalf("expected stored hash, got %q", hash)
	}

	// The hash never appears on the decoded user document.
	got, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Email != "ravi@school.test" || got.StudentID != "STU-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestUserServiceListFiltersByRole(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(store.NewMemoryStore())

	for _, in := range []CreateUserInput{
		{Email: "s@school.test", Name: "S", Role: models.RoleStudent, PasswordHash: "h"},
		{Email: "t@school.test", Name: "T", Role: models.RoleTeacher, PasswordHash: "h"},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.Role, err)
		}
	}

	teachers, err := svc.List(ctx, models.RoleTeacher)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(teachers) != 1 || teachers[0].TeacherID != "TEA-1" {
		t.Fatalf("unexpected teachers: %+v", teachers)
	}

	all, err := svc.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 users, got %d", len(all))
	}
}

func TestUserServiceAssignClass(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewUserService(st)

	user, err := svc.Create(ctx, CreateUserInput{
		Email: "ravi@school.test", Name: "Ravi", Role: models.RoleStudent, PasswordHash: "h",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.AssignClass(ctx, []string{user.ID}, "C1"); err != nil {
		t.Fatalf("assign class: %v", err)
	}
	got, err := svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ClassID != "C1" {
		t.Fatalf("expected classId C1, got %q", got.ClassID)
	}
	if got.StudentID != "STU-1" {
		t.Fatalf("merge lost studentId: %+v", got)
	}
}
