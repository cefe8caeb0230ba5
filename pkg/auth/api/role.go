package api

import "strings"

type Role string

const (
	InternalRole Role = "INTERNAL"
	AdminRole    Role = "ADMIN"
	ViewerRole   Role = "VIEWER"
)

// GetRole maps a header value to a role; anything unknown is treated as a viewer.
func GetRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case InternalRole:
		return InternalRole
	case AdminRole:
		return AdminRole
	default:
		return ViewerRole
	}
}
