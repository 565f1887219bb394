// Package link determines whether an object is missing required references
// to other objects, which sibling objects are eligible targets, and what
// reference fields a link assigns. Everything is soft: an empty eligible
// set or an unresolvable reference is a valid answer, never a failure.
package link

import (
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/timeline"
)

// FieldSpec declares one foreign-key field of a linkable type and which
// target types satisfy it, in preference order.
type FieldSpec struct {
	Field   string
	Accepts []scene.ObjectType
}

// specs returns the link fields of a type. The first spec of a tool is its
// required anchor; for tools that accept either a cursor or a graph the
// anchor is satisfied by whichever of the two fields resolves.
func specs(t scene.ObjectType) []FieldSpec {
	switch t {
	case scene.TypeGraph:
		return []FieldSpec{
			{Field: "axesId", Accepts: []scene.ObjectType{scene.TypeAxes}},
		}
	case scene.TypeGraphCursor:
		return []FieldSpec{
			{Field: "graphId", Accepts: []scene.ObjectType{scene.TypeGraph}},
		}
	case scene.TypeTangentLine, scene.TypeLimitProbe, scene.TypeValueLabel:
		// cursorId is preferred over a bare graphId.
		return []FieldSpec{
			{Field: "cursorId", Accepts: []scene.ObjectType{scene.TypeGraphCursor}},
			{Field: "graphId", Accepts: []scene.ObjectType{scene.TypeGraph}},
		}
	}
	return nil
}

// Status reports the link state of one object.
type Status struct {
	// Missing lists the required fields with no resolving reference.
	Missing []string
	// EligibleTypes lists the object types that would satisfy the missing
	// fields, in preference order.
	EligibleTypes []scene.ObjectType
	// Complete is true when nothing required is missing.
	Complete bool
}

// resolves reports whether the field holds an id that exists in the index
// with an accepted type. Dangling references count as unresolved.
func resolves(idx scene.Index, id string, accepts []scene.ObjectType) bool {
	if id == "" {
		return false
	}
	obj, ok := idx[id]
	if !ok {
		return false
	}
	for _, t := range accepts {
		if obj.Type == t {
			return true
		}
	}
	return false
}

func fieldValue(obj *scene.Object, field string) string {
	switch field {
	case "axesId":
		return obj.AxesID
	case "graphId":
		return obj.GraphID
	case "cursorId":
		return obj.CursorID
	}
	return ""
}

// GetLinkingStatus reports the missing required references of an object.
// Types with no link fields are always complete. Tools accepting either a
// cursor or a graph are complete when either reference resolves.
func GetLinkingStatus(obj *scene.Object, idx scene.Index) Status {
	fs := specs(obj.Type)
	if len(fs) == 0 {
		return Status{Complete: true}
	}

	anySatisfied := false
	var missing []string
	var eligible []scene.ObjectType
	for _, f := range fs {
		if resolves(idx, fieldValue(obj, f.Field), f.Accepts) {
			anySatisfied = true
			continue
		}
		missing = append(missing, f.Field)
		eligible = append(eligible, f.Accepts...)
	}

	// The field specs of one type are alternatives for the same anchor:
	// any one resolving reference completes the object.
	if anySatisfied {
		return Status{Complete: true}
	}
	return Status{Missing: missing, EligibleTypes: eligible, Complete: false}
}

// EligibleTargets returns the ids of visible sibling objects whose type
// satisfies any of the source's missing fields, in scene array order.
func EligibleTargets(s *scene.Scene, source *scene.Object, t float64) []string {
	idx := s.BuildIndex()
	status := GetLinkingStatus(source, idx)
	if status.Complete || len(status.EligibleTypes) == 0 {
		return nil
	}

	wanted := make(map[scene.ObjectType]bool, len(status.EligibleTypes))
	for _, et := range status.EligibleTypes {
		wanted[et] = true
	}

	var ids []string
	for _, obj := range timeline.VisibleObjects(s, t) {
		if obj.ID != source.ID && wanted[obj.Type] {
			ids = append(ids, obj.ID)
		}
	}
	return ids
}

// GenerateLinkUpdates computes the field assignments for linking source to
// target: the best-matching field for the target's type, plus transitively
// inherited dependent links for fields the source has not already set
// (linking to a cursor inherits its graphId, and the resolved graph's
// axesId, when absent). Returns nil when the target satisfies nothing.
func GenerateLinkUpdates(source, target *scene.Object, idx scene.Index) map[string]any {
	if source == nil || target == nil {
		return nil
	}

	updates := make(map[string]any)

	switch target.Type {
	case scene.TypeAxes:
		if hasField(source.Type, "axesId") {
			updates["axesId"] = target.ID
		}

	case scene.TypeGraph:
		if !hasField(source.Type, "graphId") {
			return nil
		}
		updates["graphId"] = target.ID
		if hasField(source.Type, "axesId") && source.AxesID == "" && target.AxesID != "" {
			updates["axesId"] = target.AxesID
		}

	case scene.TypeGraphCursor:
		if !hasField(source.Type, "cursorId") {
			return nil
		}
		updates["cursorId"] = target.ID
		graphID := source.GraphID
		if graphID == "" && target.GraphID != "" {
			updates["graphId"] = target.GraphID
			graphID = target.GraphID
		}
		if hasField(source.Type, "axesId") && source.AxesID == "" {
			if g, ok := idx[graphID]; ok && g.Type == scene.TypeGraph && g.AxesID != "" {
				updates["axesId"] = g.AxesID
			}
		}
	}

	if len(updates) == 0 {
		return nil
	}
	return updates
}

// hasField reports whether the type carries the given reference field.
func hasField(t scene.ObjectType, field string) bool {
	switch field {
	case "axesId":
		return t == scene.TypeGraph || t == scene.TypeTangentLine ||
			t == scene.TypeLimitProbe || t == scene.TypeValueLabel
	case "graphId":
		return t == scene.TypeGraphCursor || t == scene.TypeTangentLine ||
			t == scene.TypeLimitProbe || t == scene.TypeValueLabel
	case "cursorId":
		return t == scene.TypeTangentLine || t == scene.TypeLimitProbe ||
			t == scene.TypeValueLabel
	}
	return false
}
