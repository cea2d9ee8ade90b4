package attachments

import (
	"sort"

	"task-manager.com/task-manager/internal/exceptions"
	model "task-manager.com/task-manager/internal/models"
)

// Plan is the set of actions that moves a task's attachment collection to
// a desired state. It is recomputed on every update and never persisted.
type Plan struct {
	Keep   []string
	Create []Descriptor
	Delete []string
}

// BuildPlan computes the plan for moving existing to the state described
// by desired. It is pure: no I/O, deterministic for a given input pair.
//
// An empty desired list deletes every existing attachment. The
// absent-versus-empty distinction is the caller's to make; callers that
// received no attachment list at all must not call BuildPlan.
//
// A keep descriptor referencing a UUID with no matching attachment fails
// the whole plan with ErrUnknownAttachmentReference. Duplicate keep
// references collapse to a single keep action. A kept attachment's stored
// order is preserved; the descriptor's order is ignored for keeps.
func BuildPlan(existing []model.Attachment, desired []Descriptor) (Plan, error) {
	known := make(map[string]struct{}, len(existing))
	for _, att := range existing {
		known[att.UUID] = struct{}{}
	}

	plan := Plan{}
	kept := make(map[string]struct{})

	for _, d := range desired {
		if d.IsKeep() {
			if _, ok := known[d.UUID()]; !ok {
				return Plan{}, exceptions.ErrUnknownAttachmentReference
			}
			if _, dup := kept[d.UUID()]; dup {
				continue
			}
			kept[d.UUID()] = struct{}{}
			plan.Keep = append(plan.Keep, d.UUID())
			continue
		}
		plan.Create = append(plan.Create, d)
	}

	for _, att := range existing {
		if _, ok := kept[att.UUID]; !ok {
			plan.Delete = append(plan.Delete, att.UUID)
		}
	}

	return plan, nil
}

// SortForDisplay orders attachments by ascending order value, ties broken
// by insertion order (row id), which keeps the sort stable across calls.
func SortForDisplay(list []model.Attachment) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].ID < list[j].ID
	})
}
