package domain

import "context"

// Permission is one entry of the read-only permission catalog.
type Permission struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles"`
}

// PermissionRepository defines the interface for permission catalog reads.
// The catalog is seeded externally; the core only lists it.
type PermissionRepository interface {
	List(ctx context.Context) ([]Permission, error)
	ListForRole(ctx context.Context, role string) ([]Permission, error)
}
