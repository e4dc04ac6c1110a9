package services

import (
	"context"
	"errors"
	"testing"

	"smartshala_go/models"
	"smartshala_go/store"
)

func seedUser(t *testing.T, st store.Store, fields map[string]interface{}) {
	t.Helper()
	if _, err := st.Create(context.Background(), store.Users, fields); err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestIDFieldForRole(t *testing.T) {
	tests := []struct {
		role  string
		field string
	}{
		{models.RoleStudent, "studentId"},
		{models.RoleTeacher, "teacherId"},
		{models.RoleParent, "parentId"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.role, func(t *testing.T) {
			field, err := IDFieldForRole(tc.role)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if field != tc.field {
				t.Fatalf("expected %q, got %q", tc.field, field)
			}
		})
	}
}

func TestIDFieldForRoleUnsupported(t *testing.T) {
	for _, role := range []string{models.RoleAdmin, "principal", ""} {
		if _, err := IDFieldForRole(role); !errors.Is(err, ErrUnsupportedRole) {
			t.Fatalf("role %q: expected ErrUnsupportedRole, got %v", role, err)
		}
		if _, err := PrefixForRole(role); !errors.Is(err, ErrUnsupportedRole) {
			t.Fatalf("role %q: expected ErrUnsupportedRole, got %v", role, err)
		}
	}
}

func TestNextIDForRoleEmpty(t *testing.T) {
	alloc := NewIDAllocator(store.NewMemoryStore())

	id, err := alloc.NextIDForRole(context.Background(), models.RoleStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "STU-1" {
		t.Fatalf("expected STU-1, got %q", id)
	}
}

func TestNextIDForRoleIgnoresGaps(t *testing.T) {
	st := store.NewMemoryStore()
	seedUser(t, st, map[string]interface{}{"role": "student", "studentId": "STU-1"})
	seedUser(t, st, map[string]interface{}{"role": "student", "studentId": "STU-3"})

	id, err := NewIDAllocator(st).NextIDForRole(context.Background(), models.RoleStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "STU-4" {
		t.Fatalf("expected STU-4, got %q", id)
	}
}

func TestNextIDForRoleSkipsOtherRolesAndMalformedIDs(t *testing.T) {
	st := store.NewMemoryStore()
	seedUser(t, st, map[string]interface{}{"role": "teacher", "teacherId": "TEA-9"})
	seedUser(t, st, map[string]interface{}{"role": "student", "studentId": "STU-x"})
	seedUser(t, st, map[string]interface{}{"role": "student", "studentId": "STU-2"})

	id, err := NewIDAllocator(st).NextIDForRole(context.Background(), models.RoleStudent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "STU-3" {
		t.Fatalf("expected STU-3, got %q", id)
	}
}

func TestNextIDForRoleDeterministic(t *testing.T) {
	st := store.NewMemoryStore()
	seedUser(t, st, map[string]interface{}{"role": "parent", "parentId": "PAR-5"})
	alloc := NewIDAllocator(st)

	first, err := alloc.NextIDForRole(context.Background(), models.RoleParent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := alloc.NextIDForRole(context.Background(), models.RoleParent)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second || first != "PAR-6" {
		t.Fatalf("expected PAR-6 on repeated calls, got %q then %q", first, second)
	}
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		id   string
		n    int
		ok   bool
		name string
	}{
		{"STU-12", 12, true, "plain"},
		{"STU-", 0, false, "missing number"},
		{"STU-abc", 0, false, "non numeric"},
		{"TEA-3", 0, false, "wrong prefix"},
		{"STU--1", 0, false, "negative"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			n, ok := parseSequence(tc.id, "STU")
			if ok != tc.ok || n != tc.n {
				t.Fatalf("parseSequence(%q) = (%d, %v), expected (%d, %v)", tc.id, n, ok, tc.n, tc.ok)
			}
		})
	}
}
