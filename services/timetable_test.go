package services

import (
	"context"
	"errors"
	"testing"

	"smartshala_go/models"
	"smartshala_go/store"
)

func emptyTimetable() models.Timetable {
	return models.Timetable{Schedule: make(map[string][]models.LessonSlot)}
}

func slotIDs(slots []models.LessonSlot) []string {
	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestUpsertLessonSlotSortsByStartTime(t *testing.T) {
	tt := emptyTimetable()

	tt, err := UpsertLessonSlot(tt, "Monday", models.LessonSlot{
		ID: "a", StartTime: "10:00", EndTime: "11:00", Subject: "Maths", TeacherID: "TEA-1",
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tt, err = UpsertLessonSlot(tt, "Monday", models.LessonSlot{
		ID: "b", StartTime: "09:00", EndTime: "10:00", Subject: "Science", TeacherID: "TEA-2",
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := slotIDs(tt.Schedule["Monday"])
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected [b a], got %v", got)
	}
}

func TestUpsertLessonSlotEditMovesSlot(t *testing.T) {
	tt := emptyTimetable()
	tt.Schedule["Monday"] = []models.LessonSlot{
		{ID: "a", StartTime: "09:00", EndTime: "10:00", Subject: "Maths", TeacherID: "TEA-1"},
		{ID: "b", StartTime: "10:00", EndTime: "11:00", Subject: "Science", TeacherID: "TEA-2"},
	}

	tt, err := UpsertLessonSlot(tt, "Monday", models.LessonSlot{
		ID: "a", StartTime: "11:00", EndTime: "12:00", Subject: "Maths", TeacherID: "TEA-1",
	}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := slotIDs(tt.Schedule["Monday"])
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("expected edit to re-sort to [b a], got %v", got)
	}
}

func TestUpsertLessonSlotAssignsID(t *testing.T) {
	tt, err := UpsertLessonSlot(emptyTimetable(), "Tuesday", models.LessonSlot{
		StartTime: "09:00", EndTime: "10:00", Subject: "English", TeacherID: "TEA-1",
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tt.Schedule["Tuesday"][0].ID == "" {
		t.Fatal("expected a generated slot id")
	}
}

func TestUpsertLessonSlotValidation(t *testing.T) {
	tests := []struct {
		name string
		day  string
		slot models.LessonSlot
	}{
		{"invalid day", "Sunday", models.LessonSlot{StartTime: "09:00", EndTime: "10:00", Subject: "x", TeacherID: "t"}},
		{"bad start time", "Monday", models.LessonSlot{StartTime: "9:00", EndTime: "10:00", Subject: "x", TeacherID: "t"}},
		{"bad end time", "Monday", models.LessonSlot{StartTime: "09:00", EndTime: "25:00", Subject: "x", TeacherID: "t"}},
		{"missing subject", "Monday", models.LessonSlot{StartTime: "09:00", EndTime: "10:00", TeacherID: "t"}},
		{"missing teacher", "Monday", models.LessonSlot{StartTime: "09:00", EndTime: "10:00", Subject: "x"}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var verr *ValidationError
			_, err := UpsertLessonSlot(emptyTimetable(), tc.day, tc.slot, false)
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestUpsertLessonSlotDoesNotMutateInput(t *testing.T) {
	orig := emptyTimetable()
	orig.Schedule["Monday"] = []models.LessonSlot{
		{ID: "a", StartTime: "09:00", EndTime: "10:00", Subject: "Maths", TeacherID: "TEA-1"},
	}

	if _, err := UpsertLessonSlot(orig, "Monday", models.LessonSlot{
		ID: "b", StartTime: "08:00", EndTime: "09:00", Subject: "Science", TeacherID: "TEA-2",
	}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(orig.Schedule["Monday"]) != 1 {
		t.Fatalf("input timetable mutated: %v", slotIDs(orig.Schedule["Monday"]))
	}
}

func TestDeleteLessonSlot(t *testing.T) {
	tt := emptyTimetable()
	tt.Schedule["Monday"] = []models.LessonSlot{
		{ID: "a", StartTime: "09:00"},
		{ID: "b", StartTime: "10:00"},
		{ID: "c", StartTime: "11:00"},
	}

	out := DeleteLessonSlot(tt, "Monday", "b")
	got := slotIDs(out.Schedule["Monday"])
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Fatalf("expected [a c], got %v", got)
	}
}

func TestDeleteLessonSlotMissingIDIsNoop(t *testing.T) {
	tt := emptyTimetable()
	tt.Schedule["Monday"] = []models.LessonSlot{{ID: "a", StartTime: "09:00"}}

	out := DeleteLessonSlot(tt, "Monday", "zzz")
	if got := slotIDs(out.Schedule["Monday"]); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected [a], got %v", got)
	}

	out = DeleteLessonSlot(tt, "Friday", "a")
	if _, ok := out.Schedule["Friday"]; ok {
		t.Fatal("expected untouched schedule for a day with no slots")
	}
}

func TestIsClockTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	invalid := []string{"24:00", "12:60", "9:00", "09-30", "0900", ""}
	for _, s := range valid {
		if !isClockTime(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if isClockTime(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestTimetableServiceSaveAndRemove(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	seedUser(t, st, map[string]interface{}{
		"role": "teacher", "teacherId": "TEA-1", "name": "Meera",
	})
	svc := NewTimetableService(st)
	class := models.SchoolClass{ID: "C1", Name: "5 - A"}

	if _, err := svc.Get(ctx, "C1"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first save, got %v", err)
	}

	tt, err := svc.SaveEntry(ctx, class, "Monday", models.LessonSlot{
		StartTime: "09:00", EndTime: "10:00", Subject: "Maths", TeacherID: "TEA-1",
	}, false)
	if err != nil {
		t.Fatalf("save A: %v", err)
	}
	slotA := tt.Schedule["Monday"][0]
	if slotA.TeacherName != "Meera" {
		t.Fatalf("expected teacher name snapshot, got %q", slotA.TeacherName)
	}

	tt, err = svc.SaveEntry(ctx, class, "Monday", models.LessonSlot{
		StartTime: "08:00", EndTime: "09:00", Subject: "Science", TeacherID: "TEA-9",
	}, false)
	if err != nil {
		t.Fatalf("save B: %v", err)
	}
	slots := tt.Schedule["Monday"]
	if len(slots) != 2 || slots[0].Subject != "Science" || slots[1].Subject != "Maths" {
		t.Fatalf("expected [Science Maths], got %+v", slots)
	}
	if slots[0].TeacherName != "Unknown" {
		t.Fatalf("expected Unknown for missing teacher, got %q", slots[0].TeacherName)
	}

	tt, err = svc.RemoveEntry(ctx, "C1", "Monday", slotA.ID)
	if err != nil {
		t.Fatalf("remove A: %v", err)
	}
	slots = tt.Schedule["Monday"]
	if len(slots) != 1 || slots[0].Subject != "Science" {
		t.Fatalf("expected [Science] after delete, got %+v", slots)
	}

	// Persisted state matches what the service returned.
	stored, err := svc.Get(ctx, "C1")
	if err != nil {
		t.Fatalf("get after remove: %v", err)
	}
	if len(stored.Schedule["Monday"]) != 1 || stored.ClassName != "5 - A" {
		t.Fatalf("unexpected stored timetable: %+v", stored)
	}
}

func TestTimetableServiceRemoveFromMissingTimetable(t *testing.T) {
	svc := NewTimetableService(store.NewMemoryStore())
	if _, err := svc.RemoveEntry(context.Background(), "C9", "Monday", "a"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
