package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"smartshala_go/models"
	"smartshala_go/store"
	"smartshala_go/utils"
)

// IsWeekday reports whether day is one of the six timetable day labels.
func IsWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// isClockTime validates the zero-padded "HH:MM" form the schedule sort
// depends on.
func isClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h < 24 && m < 60
}

func validateSlot(slot models.LessonSlot) error {
	switch {
	case slot.StartTime == "":
		return validationErr("startTime is required")
	case slot.EndTime == "":
		return validationErr("endTime is required")
	case slot.Subject == "":
		return validationErr("subject is required")
	case slot.TeacherID == "":
		return validationErr("teacherId is required")
	case !isClockTime(slot.StartTime):
		return validationErr("startTime must be HH:MM")
	case !isClockTime(slot.EndTime):
		return validationErr("endTime must be HH:MM")
	}
	return nil
}

// UpsertLessonSlot applies an add or edit of one slot within a day's list
// and returns the updated document. Any existing slot with the same id is
// replaced, so day lists never hold duplicate ids, and the list is re-sorted
// by startTime afterwards (an edited slot may move). The input document is
// not mutated.
func UpsertLessonSlot(t models.Timetable, day string, slot models.LessonSlot, isEdit bool) (models.Timetable, error) {
	if !IsWeekday(day) {
		return models.Timetable{}, validationErr(fmt.Sprintf("invalid day %q", day))
	}
	if err := validateSlot(slot); err != nil {
		return models.Timetable{}, err
	}
	if !isEdit && slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if isEdit && slot.ID == "" {
		return models.Timetable{}, validationErr("entry id is required for edits")
	}

	out := cloneTimetable(t)
	daySlots := out.Schedule[day]
	kept := make([]models.LessonSlot, 0, len(daySlots)+1)
	for _, existing := range daySlots {
		if existing.ID != slot.ID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, slot)
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].StartTime < kept[j].StartTime
	})
	out.Schedule[day] = kept
	return out, nil
}

// DeleteLessonSlot removes the slot with the given id from the day's list.
// The remaining order is preserved; a missing id is a no-op.
func DeleteLessonSlot(t models.Timetable, day, slotID string) models.Timetable {
	out := cloneTimetable(t)
	daySlots, ok := out.Schedule[day]
	if !ok {
		return out
	}
	kept := make([]models.LessonSlot, 0, len(daySlots))
	for _, slot := range daySlots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	out.Schedule[day] = kept
	return out
}

func cloneTimetable(t models.Timetable) models.Timetable {
	out := t
	out.Schedule = make(map[string][]models.LessonSlot, len(t.Schedule))
	for day, slots := range t.Schedule {
		out.Schedule[day] = append([]models.LessonSlot(nil), slots...)
	}
	return out
}

// TimetableService persists per-class schedules. One document per class,
// document id == class id, created lazily on the first saved entry.
type TimetableService struct {
	st store.Store
}

func NewTimetableService(st store.Store) *TimetableService {
	return &TimetableService{st: st}
}

// Get loads a class timetable; store.ErrNotFound when it has no entries yet.
func (s *TimetableService) Get(ctx context.Context, classID string) (models.Timetable, error) {
	doc, err := s.st.GetByID(ctx, store.Timetables, classID)
	if err != nil {
		return models.Timetable{}, err
	}
	var t models.Timetable
	if err := store.Decode(doc, &t); err != nil {
		return models.Timetable{}, err
	}
	if t.Schedule == nil {
		t.Schedule = make(map[string][]models.LessonSlot)
	}
	return t, nil
}

// SaveEntry upserts one lesson slot for a class and merge-writes the result.
// The teacher's display name is snapshotted from the current users at write
// time and goes stale if the teacher is later renamed.
func (s *TimetableService) SaveEntry(ctx context.Context, class models.SchoolClass, day string, slot models.LessonSlot, isEdit bool) (models.Timetable, error) {
	current, err := s.Get(ctx, class.ID)
	if errors.Is(err, store.ErrNotFound) {
		current = models.Timetable{
			ClassID:   class.ID,
			ClassName: class.Name,
			Schedule:  make(map[string][]models.LessonSlot),
		}
	} else if err != nil {
		return models.Timetable{}, err
	}

	slot.TeacherName, err = s.teacherName(ctx, slot.TeacherID)
	if err != nil {
		return models.Timetable{}, err
	}

	updated, err := UpsertLessonSlot(current, day, slot, isEdit)
	if err != nil {
		return models.Timetable{}, err
	}
	updated.ID = class.ID
	updated.UpdatedAt = utils.NowISO()

	if err := s.merge(ctx, class, updated); err != nil {
		return models.Timetable{}, err
	}
	return updated, nil
}

// RemoveEntry deletes one slot from a day's list. A timetable that was never
// created yields store.ErrNotFound; a missing entry id inside an existing
// day list is a no-op.
func (s *TimetableService) RemoveEntry(ctx context.Context, classID, day, entryID string) (models.Timetable, error) {
	if !IsWeekday(day) {
		return models.Timetable{}, validationErr(fmt.Sprintf("invalid day %q", day))
	}
	current, err := s.Get(ctx, classID)
	if err != nil {
		return models.Timetable{}, err
	}

	updated := DeleteLessonSlot(current, day, entryID)
	updated.UpdatedAt = utils.NowISO()

	fields := map[string]interface{}{
		"schedule":  updated.Schedule,
		"updatedAt": updated.UpdatedAt,
	}
	if err := s.st.SetMerge(ctx, store.Timetables, classID, fields); err != nil {
		return models.Timetable{}, err
	}
	return updated, nil
}

func (s *TimetableService) merge(ctx context.Context, class models.SchoolClass, t models.Timetable) error {
	fields := map[string]interface{}{
		"classId":   class.ID,
		"className": class.Name,
		"schedule":  t.Schedule,
		"updatedAt": t.UpdatedAt,
	}
	return s.st.SetMerge(ctx, store.Timetables, class.ID, fields)
}

func (s *TimetableService) teacherName(ctx context.Context, teacherID string) (string, error) {
	docs, err := s.st.ListAll(ctx, store.Users)
	if err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}
	for _, doc := range docs {
		if store.StringField(doc, "teacherId") == teacherID {
			if name := store.StringField(doc, "name"); name != "" {
				return name, nil
			}
			break
		}
	}
	return "Unknown", nil
}
