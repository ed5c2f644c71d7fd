package workflow

import (
	"strings"

	"genai-hiring-backend/internal/model"
)

// NavEntry is one sidebar destination for a role.
type NavEntry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// navTable maps each role to its ordered navigation entries. An unknown or
// missing role gets nothing, the gate fails closed.
var navTable = map[string][]NavEntry{
	model.RoleAccountManager: {
		{Name: "Dashboard", Path: "/dashboard"},
		{Name: "Jobs", Path: "/jobs"},
	},
	model.RoleHR: {
		{Name: "HR Dashboard", Path: "/hr-dashboard"},
		{Name: "Applications", Path: "/applications"},
		{Name: "Jobs", Path: "/jobs"},
	},
	model.RoleAdmin: {
		{Name: "Admin Dashboard", Path: "/admin-dashboard"},
		{Name: "Applications", Path: "/applications"},
		{Name: "Jobs", Path: "/jobs"},
		{Name: "Users", Path: "/users"},
		{Name: "Companies", Path: "/companies"},
		{Name: "Analytics", Path: "/analytics"},
	},
}

// Navigation returns the entries for a role with Active set on the entry
// whose path equals the current path or is a prefix of it ("/jobs" is active
// on "/jobs/42" but not on "/jobsite").
func Navigation(role, currentPath string) []NavEntry {
	entries, ok := navTable[role]
	if !ok {
		return []NavEntry{}
	}
	out := make([]NavEntry, len(entries))
	for i, e := range entries {
		e.Active = currentPath == e.Path || strings.HasPrefix(currentPath, e.Path+"/")
		out[i] = e
	}
	return out
}
