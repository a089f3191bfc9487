package auth

import (
	"net/http"
	"slices"
	"strings"
)

// Role constants are carried in the token's role claim.
const (
	// RoleAdmin may read and change stored documents.
	RoleAdmin = "admin"
	// RoleViewer may only read through protected routes.
	RoleViewer = "viewer"
)

// Permission lists the methods and path patterns a role may use.
type Permission struct {
	AllowedMethods []string

	// AllowedPaths supports "/*" (everything) and "/prefix/*", which matches
	// "/prefix" and every path below it.
	AllowedPaths []string
}

// RolePermissions maps each role to its permissions on protected routes.
var RolePermissions = map[string]Permission{
	RoleAdmin: {
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedPaths:   []string{"/*"},
	},
	RoleViewer: {
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedPaths:   []string{"/documents/*"},
	},
}

// checkRolePermission reports whether role may call method on path.
//
// Example:
//
//	checkRolePermission("admin", "DELETE", "/documents/a.txt") // true
//	checkRolePermission("viewer", "GET", "/documents")         // true
//	checkRolePermission("viewer", "POST", "/documents")        // false
//	checkRolePermission("", "GET", "/documents")               // false
func checkRolePermission(role, method, path string) bool {
	perm, ok := RolePermissions[role]
	if !ok {
		return false
	}
	if !slices.Contains(perm.AllowedMethods, method) {
		return false
	}
	return matchesPathPattern(path, perm.AllowedPaths)
}

// matchesPathPattern reports whether path matches any of patterns.
func matchesPathPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if pattern == "/*" {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if path == prefix || strings.HasPrefix(path, prefix+"/") {
				return true
			}
			continue
		}
		if path == pattern {
			return true
		}
	}
	return false
}
