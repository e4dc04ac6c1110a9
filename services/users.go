package services

import (
	"context"
	"errors"
	"fmt"

	"smartshala_go/models"
	"smartshala_go/store"
	"smartshala_go/utils"
)

// passwordHashField is kept out of models.User on purpose: hashes are
// written and read only at this boundary and never serialized in responses.
const passwordHashField = "passwordHash"

// CreateUserInput carries a provisioning request. RoleID may pre-supply an
// identifier (the admin form allows overriding the generated one);
// otherwise one is allocated.
type CreateUserInput struct {
	Email          string
	Name           string
	Role           string
	PasswordHash   string
	RoleID         string
	ClassID        string
	ChildEmail     string
	ChildStudentID string
}

// UserService provisions and reads user documents.
type UserService struct {
	st    store.Store
	alloc *IDAllocator
}

func NewUserService(st store.Store) *UserService {
	return &UserService{st: st, alloc: NewIDAllocator(st)}
}

func (s *UserService) Allocator() *IDAllocator {
	return s.alloc
}

// Create provisions a user. For student/teacher/parent roles a sequential
// identifier is assigned; allocation is re-checked against the collection
// and retried, since a concurrent registration may have claimed the same
// next id between scan and write. Parents must name their child by email or
// student id before anything is written.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (models.User, error) {
	if !utils.IsValidRole(in.Role) {
		return models.User{}, fmt.Errorf("%w: %q", ErrUnsupportedRole, in.Role)
	}
	if in.Role == models.RoleParent && in.ChildEmail == "" && in.ChildStudentID == "" {
		return models.User{}, validationErr("child email or student id is required for parent registration")
	}

	if _, err := s.FindByEmail(ctx, in.Email); err == nil {
		return models.User{}, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	user := models.User{
		Email:          in.Email,
		Name:           in.Name,
		Role:           in.Role,
		ClassID:        in.ClassID,
		ChildEmail:     in.ChildEmail,
		ChildStudentID: in.ChildStudentID,
		CreatedAt:      utils.NowISO(),
	}

	if in.Role != models.RoleAdmin {
		roleID, err := s.claimRoleID(ctx, in.Role, in.RoleID)
		if err != nil {
			return models.User{}, err
		}
		switch in.Role {
		case models.RoleStudent:
			user.StudentID = roleID
		case models.RoleTeacher:
			user.TeacherID = roleID
		case models.RoleParent:
			user.ParentID = roleID
		}
	}

	fields, err := store.Fields(user)
	if err != nil {
		return models.User{}, err
	}
	if in.PasswordHash != "" {
		fields[passwordHashField] = in.PasswordHash
	}

	id, err := s.st.Create(ctx, store.Users, fields)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id
	return user, nil
}

// claimRoleID allocates (or verifies a supplied) role identifier, retrying
// when the computed id turns out taken. Best effort only: without a
// transactional counter a race can still slip through between the final
// check and the write.
func (s *UserService) claimRoleID(ctx context.Context, role, supplied string) (string, error) {
	field, err := IDFieldForRole(role)
	if err != nil {
		return "", err
	}

	if supplied != "" {
		prefix, err := PrefixForRole(role)
		if err != nil {
			return "", err
		}
		if _, ok := parseSequence(supplied, prefix); !ok {
			return "", validationErr(fmt.Sprintf("role id must match %s-<number>", prefix))
		}
		taken, err := s.roleIDTaken(ctx, field, supplied)
		if err != nil {
			return "", err
		}
		if taken {
			return "", ErrDuplicateRoleID
		}
		return supplied, nil
	}

	for attempt := 0; attempt < 3; attempt++ {
		id, err := s.alloc.NextIDForRole(ctx, role)
		if err != nil {
			return "", err
		}
		taken, err := s.roleIDTaken(ctx, field, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrDuplicateRoleID
}

func (s *UserService) roleIDTaken(ctx context.Context, field, id string) (bool, error) {
	docs, err := s.st.ListAll(ctx, store.Users)
	if err != nil {
		return false, fmt.Errorf("list users: %w", err)
	}
	for _, doc := range docs {
		if store.StringField(doc, field) == id {
			return true, nil
		}
	}
	return false, nil
}

// List returns users, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	docs, err := s.st.ListAll(ctx, store.Users)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	users, err := store.DecodeAll[models.User](docs)
	if err != nil {
		return nil, err
	}
	if role == "" {
		return users, nil
	}
	filtered := users[:0]
	for _, u := range users {
		if u.Role == role {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	doc, err := s.st.GetByID(ctx, store.Users, id)
	if err != nil {
		return models.User{}, err
	}
	var u models.User
	if err := store.Decode(doc, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// FindByEmail returns the user with the given email, store.ErrNotFound when
// none exists.
func (s *UserService) FindByEmail(ctx context.Context, email string) (models.User, error) {
	docs, err := s.st.ListAll(ctx, store.Users)
	if err != nil {
		return models.User{}, fmt.Errorf("list users: %w", err)
	}
	for _, doc := range docs {
		if store.StringField(doc, "email") == email {
			var u models.User
			if err := store.Decode(doc, &u); err != nil {
				return models.User{}, err
			}
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

// PasswordHash reads a user's stored credential hash for login checks.
func (s *UserService) PasswordHash(ctx context.Context, id string) (string, error) {
	doc, err := s.st.GetByID(ctx, store.Users, id)
	if err != nil {
		return "", err
	}
	return store.StringField(doc, passwordHashField), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.st.GetByID(ctx, store.Users, id); err != nil {
		return err
	}
	return s.st.DeleteByID(ctx, store.Users, id)
}

// AssignClass sets the class for each listed student.
func (s *UserService) AssignClass(ctx context.Context, studentIDs []string, classID string) error {
	for _, id := range studentIDs {
		fields := map[string]interface{}{
			"classId":   classID,
			"updatedAt": utils.NowISO(),
		}
		if err := s.st.SetMerge(ctx, store.Users, id, fields); err != nil {
			return fmt.Errorf("assign class to %s: %w", id, err)
		}
	}
	return nil
}
