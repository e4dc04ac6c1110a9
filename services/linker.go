package services

import (
	"context"
	"fmt"

	"smartshala_go/models"
	"smartshala_go/store"
)

// ResolveLinkedStudent finds the one student a parent account is linked to.
// Email match wins; the generated student id is the fallback. First match
// in iteration order; emails are unique upstream so ties should not occur.
// ErrNoLinkedStudent is an expected outcome, not a failure.
func ResolveLinkedStudent(parent models.User, users []models.User) (models.User, error) {
	if parent.Role != models.RoleParent {
		return models.User{}, validationErr("account is not a parent")
	}

	if parent.ChildEmail != "" {
		for _, u := range users {
			if u.Role == models.RoleStudent && u.Email == parent.ChildEmail {
				return u, nil
			}
		}
	}
	if parent.ChildStudentID != "" {
		for _, u := range users {
			if u.Role == models.RoleStudent && u.StudentID == parent.ChildStudentID {
				return u, nil
			}
		}
	}
	return models.User{}, ErrNoLinkedStudent
}

// LinkerService resolves parent-student links against the live users
// collection. Results are recomputed on every call; nothing is cached.
type LinkerService struct {
	st store.Store
}

func NewLinkerService(st store.Store) *LinkerService {
	return &LinkerService{st: st}
}

func (s *LinkerService) LinkedStudent(ctx context.Context, parent models.User) (models.User, error) {
	docs, err := s.st.ListAll(ctx, store.Users)
	if err != nil {
		return models.User{}, fmt.Errorf("list users: %w", err)
	}
	users, err := store.DecodeAll[models.User](docs)
	if err != nil {
		return models.User{}, err
	}
	return ResolveLinkedStudent(parent, users)
}
