package scene

import (
	"fmt"
	"sort"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/typeid"
)

// normalizeKeyframes sorts keyframes ascending by time and drops earlier
// duplicates of the same (time, property) pair, keeping the last insertion.
func normalizeKeyframes(kfs []Keyframe) []Keyframe {
	if len(kfs) == 0 {
		return kfs
	}

	// Later entries win, so walk backwards keeping first-seen pairs.
	type pair struct {
		time float64
		prop string
	}
	seen := make(map[pair]bool, len(kfs))
	kept := make([]Keyframe, 0, len(kfs))
	for i := len(kfs) - 1; i >= 0; i-- {
		p := pair{kfs[i].Time, kfs[i].Property}
		if seen[p] {
			continue
		}
		seen[p] = true
		kept = append(kept, kfs[i])
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Time != kept[j].Time {
			return kept[i].Time < kept[j].Time
		}
		return kept[i].Property < kept[j].Property
	})
	return kept
}

// InsertKeyframe adds a keyframe to the object, replacing any existing entry
// at the same (time, property) and keeping the list sorted by time.
func (o *Object) InsertKeyframe(kf Keyframe) {
	for i := range o.Keyframes {
		if o.Keyframes[i].Time == kf.Time && o.Keyframes[i].Property == kf.Property {
			o.Keyframes[i] = kf
			return
		}
	}

	pos := sort.Search(len(o.Keyframes), func(i int) bool {
		return o.Keyframes[i].Time > kf.Time
	})
	o.Keyframes = append(o.Keyframes, Keyframe{})
	copy(o.Keyframes[pos+1:], o.Keyframes[pos:])
	o.Keyframes[pos] = kf
}

// Add appends an object with defaults for its type and a generated id,
// returning the new object's id.
func (s *Scene) Add(t ObjectType) string {
	obj := NewObject(t)
	obj.Name = s.nextName(t)
	s.Objects = append(s.Objects, obj)
	return obj.ID
}

// Duplicate clones the object with the given id, offsetting its position
// slightly so the copy is visible. Foreign references are carried over
// unchanged; the copy joins no transform chain.
func (s *Scene) Duplicate(id string) string {
	src := s.ObjectByID(id)
	if src == nil {
		return ""
	}

	dup := *src
	dup.ID = typeid.NewObjectID()
	dup.Name = s.nextName(src.Type)
	dup.X += 0.5
	dup.Y -= 0.5
	dup.TransformFromID = ""
	if len(src.Vertices) > 0 {
		dup.Vertices = append([]Vertex(nil), src.Vertices...)
	}
	if len(src.Keyframes) > 0 {
		dup.Keyframes = append([]Keyframe(nil), src.Keyframes...)
	}
	if len(src.DeltaSchedule) > 0 {
		dup.DeltaSchedule = append([]float64(nil), src.DeltaSchedule...)
	}
	if src.XRange != nil {
		r := *src.XRange
		dup.XRange = &r
	}
	if src.YRange != nil {
		r := *src.YRange
		dup.YRange = &r
	}

	s.Objects = append(s.Objects, dup)
	return dup.ID
}

// Delete removes the object and clears every foreign reference elsewhere in
// the scene that pointed at it. Clearing (rather than leaving the reference
// dangling) keeps subsequent link-mode eligibility honest; loaded scenes
// with dangling references are still tolerated by all consumers.
func (s *Scene) Delete(id string) bool {
	pos := s.IndexOf(id)
	if pos < 0 {
		return false
	}

	s.Objects = append(s.Objects[:pos], s.Objects[pos+1:]...)

	for i := range s.Objects {
		o := &s.Objects[i]
		if o.TransformFromID == id {
			o.TransformFromID = ""
		}
		if o.AxesID == id {
			o.AxesID = ""
		}
		if o.GraphID == id {
			o.GraphID = ""
		}
		if o.CursorID == id {
			o.CursorID = ""
		}
	}
	return true
}

// nextName generates the default display name for a new object of the given
// type, numbered by how many objects of that type the scene already holds.
func (s *Scene) nextName(t ObjectType) string {
	n := 1
	for i := range s.Objects {
		if s.Objects[i].Type == t {
			n++
		}
	}
	return fmt.Sprintf("%s %d", displayName(t), n)
}

func displayName(t ObjectType) string {
	switch t {
	case TypeGraphCursor:
		return "Cursor"
	case TypeTangentLine:
		return "Tangent"
	case TypeLimitProbe:
		return "Limit Probe"
	case TypeValueLabel:
		return "Value Label"
	default:
		// Single-word types capitalize directly.
		b := []byte(t)
		if len(b) > 0 && b[0] >= 'a' && b[0] <= 'z' {
			b[0] -= 'a' - 'A'
		}
		return string(b)
	}
}
