package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"smartshala_go/models"
	"smartshala_go/store"
)

// ReportService builds spreadsheet exports from store data.
type ReportService struct {
	st store.Store
}

func NewReportService(st store.Store) *ReportService {
	return &ReportService{st: st}
}

// AttendanceWorkbook renders attendance records (optionally filtered by
// class and date) as an XLSX workbook. Student names and ids are joined
// from the users collection; records whose student was deleted show "N/A".
func (s *ReportService) AttendanceWorkbook(ctx context.Context, classID, date string) (*excelize.File, error) {
	attDocs, err := s.st.ListAll(ctx, store.Attendance)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	records, err := store.DecodeAll[models.Attendance](attDocs)
	if err != nil {
		return nil, err
	}

	userDocs, err := s.st.ListAll(ctx, store.Users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := store.DecodeAll[models.User](userDocs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	classDocs, err := s.st.ListAll(ctx, store.Classes)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	classes, err := store.DecodeAll[models.SchoolClass](classDocs)
	if err != nil {
		return nil, err
	}
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	filtered := records[:0]
	for _, r := range records {
		if classID != "" && r.ClassID != classID {
			continue
		}
		if date != "" && r.Date != date {
			continue
		}
		filtered = append(filtered, r)
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date < filtered[j].Date
		}
		return filtered[i].StudentID < filtered[j].StudentID
	})

	f := excelize.NewFile()
	const sheet = "Attendance"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Date", "Student ID", "Student Name", "Class", "Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, r := range filtered {
		student, ok := byID[r.StudentID]
		studentID, studentName := "N/A", "N/A"
		if ok {
			studentID = student.StudentID
			studentName = student.Name
		}
		className, ok := classNames[r.ClassID]
		if !ok {
			className = "N/A"
		}
		status := "Absent"
		if r.Present {
			status = "Present"
		}

		values := []interface{}{r.Date, studentID, studentName, className, status}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
