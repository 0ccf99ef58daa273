package auth

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

const (
	XUserIDHeader   = "X-User-Id"
	XUserNameHeader = "X-User-Name"
	XUserRoleHeader = "X-User-Role"
)

type Role string

const (
	RoleTechnicalStaff Role = "TechnicalStaff"
	RoleSectionHead    Role = "SectionHead"
	RoleDepartmentHead Role = "DepartmentHead"
	RoleReader         Role = "Reader"
)

func (r Role) Valid() bool {
	switch r {
	case RoleTechnicalStaff, RoleSectionHead, RoleDepartmentHead, RoleReader:
		return true
	}
	return false
}

// IsStaff reports whether the role operates the circulation desk.
func (r Role) IsStaff() bool {
	switch r {
	case RoleTechnicalStaff, RoleSectionHead, RoleDepartmentHead:
		return true
	case RoleReader:
		return false
	}
	return false
}

// IsAdmin reports whether the role may run administrative overrides.
func (r Role) IsAdmin() bool {
	switch r {
	case RoleSectionHead, RoleDepartmentHead:
		return true
	case RoleTechnicalStaff, RoleReader:
		return false
	}
	return false
}

// Identity is the authenticated caller as forwarded by the gateway.
type Identity struct {
	UserID   int64  `json:"userId"`
	UserName string `json:"userName"`
	Role     Role   `json:"role"`
}

var (
	ErrNoIdentity  = errors.New("identity is missing")
	ErrInvalidRole = errors.New("user-role is invalid")
)

type ctxKey struct{}

func SetAuthContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

// ParseIdentity builds an Identity out of the raw gateway header values.
func ParseIdentity(userID, userName, role string) (Identity, error) {
	if userName == "" {
		return Identity{}, errors.New("user-name is empty")
	}
	r := Role(role)
	if !r.Valid() {
		return Identity{}, ErrInvalidRole
	}
	var id int64
	if userID != "" {
		v, err := strconv.ParseInt(userID, 10, 64)
		if err != nil {
			return Identity{}, errors.Wrap(err, "user-id is invalid")
		}
		id = v
	}
	if r == RoleReader && id == 0 {
		return Identity{}, errors.New("user-id is required for readers")
	}
	return Identity{UserID: id, UserName: userName, Role: r}, nil
}
