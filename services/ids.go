package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"smartshala_go/models"
	"smartshala_go/store"
)

var roleIDFields = map[string]string{
	models.RoleStudent: "studentId",
	models.RoleTeacher: "teacherId",
	models.RoleParent:  "parentId",
}

var rolePrefixes = map[string]string{
	models.RoleStudent: "STU",
	models.RoleTeacher: "TEA",
	models.RoleParent:  "PAR",
}

// IDFieldForRole maps a role to the user-document field carrying its
// sequential identifier.
func IDFieldForRole(role string) (string, error) {
	field, ok := roleIDFields[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedRole, role)
	}
	return field, nil
}

// PrefixForRole maps a role to its identifier prefix (STU, TEA, PAR).
func PrefixForRole(role string) (string, error) {
	prefix, ok := rolePrefixes[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedRole, role)
	}
	return prefix, nil
}

// IDAllocator hands out the next sequential role identifier. Allocation is
// best effort: it scans the users collection with no counter document, so
// two concurrent callers can compute the same id. Persistence re-checks
// uniqueness and retries (see UserService.Create).
type IDAllocator struct {
	st store.Store
}

func NewIDAllocator(st store.Store) *IDAllocator {
	return &IDAllocator{st: st}
}

// NextIDForRole returns "<PFX>-<max+1>" over the existing ids for the role,
// ignoring gaps; "<PFX>-1" when none exist.
func (a *IDAllocator) NextIDForRole(ctx context.Context, role string) (string, error) {
	field, err := IDFieldForRole(role)
	if err != nil {
		return "", err
	}
	prefix, err := PrefixForRole(role)
	if err != nil {
		return "", err
	}

	docs, err := a.st.ListAll(ctx, store.Users)
	if err != nil {
		return "", fmt.Errorf("list users: %w", err)
	}

	max := 0
	for _, doc := range docs {
		if n, ok := parseSequence(store.StringField(doc, field), prefix); ok && n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%d", prefix, max+1), nil
}

// parseSequence extracts N from ids of the form "<prefix>-<N>". Ids that do
// not match the pattern are skipped.
func parseSequence(id, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(id, prefix+"-")
	if !found || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
