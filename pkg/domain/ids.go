// Package domain holds the primitive identifiers shared across packages.
package domain

import (
	"strconv"
	"strings"

	dErrors "tonetags/pkg/domain-errors"
)

// UserID identifies the invoking chat user. Values are 64-bit snowflakes;
// zero is never a valid user.
type UserID uint64

// ParseUserID validates a decimal user id at a trust boundary.
func ParseUserID(s string) (UserID, error) {
	if s == "" || strings.TrimSpace(s) != s {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid user id")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid user id")
	}
	if v == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "user id must be non-zero")
	}
	return UserID(v), nil
}

// String returns the decimal form.
func (u UserID) String() string {
	return strconv.FormatUint(uint64(u), 10)
}

// IsNil reports whether the id is the zero value.
func (u UserID) IsNil() bool {
	return u == 0
}

// Int64 reinterprets the bits as a signed integer for BIGINT columns.
func (u UserID) Int64() int64 {
	return int64(u)
}

// UserIDFromInt64 is the inverse of Int64.
func UserIDFromInt64(v int64) UserID {
	return UserID(uint64(v))
}
