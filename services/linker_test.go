package services

import (
	"context"
	"errors"
	"testing"

	"smartshala_go/models"
	"smartshala_go/store"
)

func TestResolveLinkedStudentByEmail(t *testing.T) {
	parent := models.User{Role: models.RoleParent, ChildEmail: "asha@school.test"}
	users := []models.User{
		{ID: "u1", Role: models.RoleStudent, Email: "ravi@school.test", StudentID: "STU-1"},
		{ID: "u2", Role: models.RoleStudent, Email: "asha@school.test", StudentID: "STU-2"},
	}

	child, err := ResolveLinkedStudent(parent, users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.ID != "u2" {
		t.Fatalf("expected u2, got %q", child.ID)
	}
}

func TestResolveLinkedStudentEmailWinsOverStudentID(t *testing.T) {
	// Both link fields set and pointing at different students: the email
	// match takes priority.
	parent := models.User{
		Role:           models.RoleParent,
		ChildEmail:     "asha@school.test",
		ChildStudentID: "STU-1",
	}
	users := []models.User{
		{ID: "u1", Role: models.RoleStudent, Email: "ravi@school.test", StudentID: "STU-1"},
		{ID: "u2", Role: models.RoleStudent, Email: "asha@school.test", StudentID: "STU-2"},
	}

	child, err := ResolveLinkedStudent(parent, users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.ID != "u2" {
		t.Fatalf("expected email match u2, got %q", child.ID)
	}
}

func TestResolveLinkedStudentFallsBackToStudentID(t *testing.T) {
	parent := models.User{
		Role:           models.RoleParent,
		ChildEmail:     "nobody@school.test",
		ChildStudentID: "STU-1",
	}
	users := []models.User{
		{ID: "u1", Role: models.RoleStudent, Email: "ravi@school.test", StudentID: "STU-1"},
	}

	child, err := ResolveLinkedStudent(parent, users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.ID != "u1" {
		t.Fatalf("expected u1, got %q", child.ID)
	}
}

func TestResolveLinkedStudentIgnoresNonStudents(t *testing.T) {
	parent := models.User{Role: models.RoleParent, ChildEmail: "shared@school.test"}
	users := []models.User{
		{ID: "u1", Role: models.RoleTeacher, Email: "shared@school.test", TeacherID: "TEA-1"},
	}

	if _, err := ResolveLinkedStudent(parent, users); !errors.Is(err, ErrNoLinkedStudent) {
		t.Fatalf("expected ErrNoLinkedStudent, got %v", err)
	}
}

func TestResolveLinkedStudentNotFound(t *testing.T) {
	parent := models.User{Role: models.RoleParent, ChildEmail: "nobody@school.test"}

	if _, err := ResolveLinkedStudent(parent, nil); !errors.Is(err, ErrNoLinkedStudent) {
		t.Fatalf("expected ErrNoLinkedStudent, got %v", err)
	}
}

func TestResolveLinkedStudentRejectsNonParent(t *testing.T) {
	var verr *ValidationError
	_, err := ResolveLinkedStudent(models.User{Role: models.RoleTeacher}, nil)
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestLinkerServiceLinkedStudent(t *testing.T) {
	st := store.NewMemoryStore()
	seedUser(t, st, map[string]interface{}{
		"role": "student", "email": "asha@school.test", "studentId": "STU-2", "name": "Asha",
	})

	parent := models.User{Role: models.RoleParent, ChildStudentID: "STU-2"}
	child, err := NewLinkerService(st).LinkedStudent(context.Background(), parent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if child.StudentID != "STU-2" || child.Name != "Asha" {
		t.Fatalf("unexpected child: %+v", child)
	}
}
