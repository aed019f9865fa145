package grading

import "errors"

type Role string

const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Principal is the authenticated caller of every core operation.
type Principal struct {
	UserID  uint
	Role    Role
	GroupID *uint
}

// TestAccess is the part of a test that authorization looks at.
type TestAccess struct {
	OwnerID  uint
	GroupIDs []uint
	Active   bool
}

var (
	ErrAccessDenied = errors.New("access denied")
	// ErrNotAssigned is an ErrAccessDenied for students outside the test's groups.
	ErrNotAssigned  = errNotAssigned{}
	ErrTestInactive = errTestInactive{}
)

type errNotAssigned struct{}

func (errNotAssigned) Error() string        { return "test is not assigned to the student's group" }
func (errNotAssigned) Is(target error) bool { return target == ErrAccessDenied }

type errTestInactive struct{}

func (errTestInactive) Error() string        { return "test is not active" }
func (errTestInactive) Is(target error) bool { return target == ErrAccessDenied }

// CanTake returns nil when p may start or submit the test.
func CanTake(p Principal, t TestAccess) error {
	if p.Role != RoleStudent {
		return ErrAccessDenied
	}
	if p.GroupID == nil || !containsID(t.GroupIDs, *p.GroupID) {
		return ErrNotAssigned
	}
	if !t.Active {
		return ErrTestInactive
	}
	return nil
}

// CanManage reports whether p owns the test.
func CanManage(p Principal, t TestAccess) bool {
	return p.Role == RoleTeacher && p.UserID == t.OwnerID
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
