package db

import "strings"

// IsUniqueViolation reports whether err looks like a Postgres unique
// constraint failure. With a constraint name it matches that constraint
// specifically; without one, any duplicate-key error matches.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName)
	}
	return strings.Contains(err.Error(), "duplicate key value")
}
