// Package workflow defines the status tables that drive the hiring pipeline:
// which states a job posting or an application may occupy, how each state is
// presented, and which transitions each role may invoke from it. Every
// handler consults these tables instead of carrying its own switch.
package workflow

import (
	"fmt"
	"strings"

	"genai-hiring-backend/internal/model"
)

// Action is a transition a viewer may invoke on an entity in its current status.
type Action struct {
	// Name is the wire identifier of the transition (e.g. "approve", "shortlist").
	Name string `json:"name"`
	// Label is the human-facing button text.
	Label string `json:"label"`
	// Target is the status the entity moves to when the action succeeds.
	Target string `json:"target"`
	// Roles that may invoke the action.
	Roles []string `json:"roles"`
}

// StatusInfo describes one status: presentation plus the legal actions out of it.
type StatusInfo struct {
	Label   string
	Color   string
	Actions []Action
}

var hrOrAdmin = []string{model.RoleHR, model.RoleAdmin}

// jobStatuses is the single source of truth for the job posting lifecycle:
// draft -> pending_approval -> approved -> published, with an HR reject
// resetting pending_approval back to draft. Nothing moves backward from
// approved or published.
var jobStatuses = map[string]StatusInfo{
	model.JobStatusDraft: {
		Label: "Draft",
		Color: "bg-gray-100 text-gray-800",
		Actions: []Action{
			{Name: "submit_for_approval", Label: "Submit for Approval", Target: model.JobStatusPendingApproval, Roles: []string{model.RoleAccountManager, model.RoleAdmin}},
		},
	},
	model.JobStatusPendingApproval: {
		Label: "Pending Approval",
		Color: "bg-yellow-100 text-yellow-800",
		Actions: []Action{
			{Name: "approve", Label: "Approve", Target: model.JobStatusApproved, Roles: hrOrAdmin},
			{Name: "reject", Label: "Reject", Target: model.JobStatusDraft, Roles: hrOrAdmin},
		},
	},
	model.JobStatusApproved: {
		Label: "Approved",
		Color: "bg-blue-100 text-blue-800",
		Actions: []Action{
			{Name: "publish", Label: "Publish", Target: model.JobStatusPublished, Roles: hrOrAdmin},
		},
	},
	model.JobStatusPublished: {
		Label: "Published",
		Color: "bg-green-100 text-green-800",
	},
}

// applicationStatuses is the single source of truth for the review pipeline:
// pending -> shortlisted -> interview_scheduled -> hired, with rejected as a
// side exit from every non-terminal status. hired and rejected are terminal.
var applicationStatuses = map[string]StatusInfo{
	model.ApplicationStatusPending: {
		Label: "Pending",
		Color: "bg-yellow-100 text-yellow-800",
		Actions: []Action{
			{Name: "shortlist", Label: "Shortlist", Target: model.ApplicationStatusShortlisted, Roles: hrOrAdmin},
			{Name: "reject", Label: "Reject", Target: model.ApplicationStatusRejected, Roles: hrOrAdmin},
		},
	},
	model.ApplicationStatusShortlisted: {
		Label: "Shortlisted",
		Color: "bg-blue-100 text-blue-800",
		Actions: []Action{
			{Name: "schedule_interview", Label: "Schedule Interview", Target: model.ApplicationStatusInterviewScheduled, Roles: hrOrAdmin},
			{Name: "reject", Label: "Reject", Target: model.ApplicationStatusRejected, Roles: hrOrAdmin},
		},
	},
	model.ApplicationStatusInterviewScheduled: {
		Label: "Interview Scheduled",
		Color: "bg-purple-100 text-purple-800",
		Actions: []Action{
			{Name: "hire", Label: "Hire", Target: model.ApplicationStatusHired, Roles: hrOrAdmin},
			{Name: "reject", Label: "Reject", Target: model.ApplicationStatusRejected, Roles: hrOrAdmin},
		},
	},
	model.ApplicationStatusHired: {
		Label: "Hired",
		Color: "bg-green-100 text-green-800",
	},
	model.ApplicationStatusRejected: {
		Label: "Rejected",
		Color: "bg-red-100 text-red-800",
	},
}

const unknownColor = "bg-gray-100 text-gray-800"

// capitalize mirrors the status.charAt(0).toUpperCase() fallback of the views.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// JobStatusLabel returns the display label for a job status.
func JobStatusLabel(status string) string {
	if info, ok := jobStatuses[status]; ok {
		return info.Label
	}
	return capitalize(status)
}

// JobStatusColor returns the badge color classes for a job status.
func JobStatusColor(status string) string {
	if info, ok := jobStatuses[status]; ok {
		return info.Color
	}
	return unknownColor
}

// ApplicationStatusLabel returns the display label for an application status.
func ApplicationStatusLabel(status string) string {
	if info, ok := applicationStatuses[status]; ok {
		return info.Label
	}
	return capitalize(status)
}

// ApplicationStatusColor returns the badge color classes for an application status.
func ApplicationStatusColor(status string) string {
	if info, ok := applicationStatuses[status]; ok {
		return info.Color
	}
	return unknownColor
}

func actionsFor(table map[string]StatusInfo, status, role string) []Action {
	info, ok := table[status]
	if !ok {
		return nil
	}
	var actions []Action
	for _, a := range info.Actions {
		for _, r := range a.Roles {
			if r == role {
				actions = append(actions, a)
				break
			}
		}
	}
	return actions
}

// JobActions returns the transitions a viewer with the given role may invoke
// on a job in the given status. Terminal or unknown statuses yield nothing.
func JobActions(status, role string) []Action {
	return actionsFor(jobStatuses, status, role)
}

// ApplicationActions is the application-side counterpart of JobActions.
func ApplicationActions(status, role string) []Action {
	return actionsFor(applicationStatuses, status, role)
}

func transition(table map[string]StatusInfo, entity, from, to, role string) error {
	info, ok := table[from]
	if !ok {
		return fmt.Errorf("unknown %s status %q", entity, from)
	}
	for _, a := range info.Actions {
		if a.Target != to {
			continue
		}
		for _, r := range a.Roles {
			if r == role {
				return nil
			}
		}
		return fmt.Errorf("role %q may not move a %s from %q to %q", role, entity, from, to)
	}
	return fmt.Errorf("cannot move %s from %q to %q", entity, from, to)
}

// JobTransition reports whether a role may move a job from one status to
// another. A nil return means the transition is legal.
func JobTransition(from, to, role string) error {
	return transition(jobStatuses, "job", from, to, role)
}

// ApplicationTransition reports whether a role may move an application from
// one status to another.
func ApplicationTransition(from, to, role string) error {
	return transition(applicationStatuses, "application", from, to, role)
}

// ValidJobStatus reports whether s is a known job status.
func ValidJobStatus(s string) bool {
	_, ok := jobStatuses[s]
	return ok
}

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	_, ok := applicationStatuses[s]
	return ok
}
