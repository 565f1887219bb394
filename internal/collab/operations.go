package collab

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/timeline"
)

// SceneState holds the authoritative scene for a room.
type SceneState struct {
	mu        sync.RWMutex
	scn       *scene.Scene
	serverSeq int64
	opLog     []Operation // operation history for persistence
}

// NewSceneState creates scene state from an initial scene.
func NewSceneState(s *scene.Scene) *SceneState {
	return &SceneState{
		scn:   s,
		opLog: make([]Operation, 0),
	}
}

// Snapshot returns the current scene serialized to JSON plus the server
// sequence it reflects.
func (ss *SceneState) Snapshot() (json.RawMessage, int64) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	data, err := ss.scn.Marshal()
	if err != nil {
		return json.RawMessage("{}"), ss.serverSeq
	}
	return data, ss.serverSeq
}

// Scene returns the underlying scene for persistence. Callers must not
// mutate it.
func (ss *SceneState) Scene() *scene.Scene {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.scn
}

// ServerSeq returns the last applied sequence number.
func (ss *SceneState) ServerSeq() int64 {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.serverSeq
}

// ApplyOperation applies an operation to the scene and returns the server
// sequence assigned to it.
func (ss *SceneState) ApplyOperation(op Operation) (int64, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if err := ss.applyOperationLocked(op); err != nil {
		return 0, err
	}

	ss.serverSeq++
	ss.opLog = append(ss.opLog, op)

	return ss.serverSeq, nil
}

func (ss *SceneState) applyOperationLocked(op Operation) error {
	switch op.Type {
	case OpObjectPatch:
		return ss.applyPatch(op)
	case OpObjectCreate:
		return ss.applyCreate(op)
	case OpObjectDelete:
		return ss.applyDelete(op)
	case OpSceneUpdate:
		return ss.applySceneUpdate(op)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (ss *SceneState) applyPatch(op Operation) error {
	obj := ss.scn.ObjectByID(op.ObjectID)
	if obj == nil {
		return fmt.Errorf("object not found: %s", op.ObjectID)
	}

	var fields map[string]any
	if err := json.Unmarshal(op.Fields, &fields); err != nil {
		return fmt.Errorf("invalid fields: %w", err)
	}

	// A transform-chain edit must not close a cycle; the timeline's root
	// resolution would become ambiguous for every peer.
	if v, ok := fields["transformFromId"]; ok {
		if target, ok := v.(string); ok && target != "" {
			if timeline.WouldCycle(ss.scn.BuildIndex(), op.ObjectID, target) {
				return fmt.Errorf("transformFromId %s -> %s would create a cycle", op.ObjectID, target)
			}
		}
	}

	scene.ApplyPatch(obj, fields)
	return nil
}

func (ss *SceneState) applyCreate(op Operation) error {
	var obj scene.Object
	if err := json.Unmarshal(op.Object, &obj); err != nil {
		return fmt.Errorf("invalid object: %w", err)
	}
	if obj.ID == "" {
		return fmt.Errorf("object has no id")
	}
	if !scene.KnownType(obj.Type) {
		return fmt.Errorf("unknown object type: %s", obj.Type)
	}
	if ss.scn.ObjectByID(obj.ID) != nil {
		return fmt.Errorf("object already exists: %s", obj.ID)
	}

	if op.Index != nil && *op.Index >= 0 && *op.Index <= len(ss.scn.Objects) {
		i := *op.Index
		ss.scn.Objects = append(ss.scn.Objects, scene.Object{})
		copy(ss.scn.Objects[i+1:], ss.scn.Objects[i:])
		ss.scn.Objects[i] = obj
	} else {
		ss.scn.Objects = append(ss.scn.Objects, obj)
	}

	ss.scn.Normalize()
	return nil
}

func (ss *SceneState) applyDelete(op Operation) error {
	if !ss.scn.Delete(op.ObjectID) {
		return fmt.Errorf("object not found: %s", op.ObjectID)
	}
	return nil
}

func (ss *SceneState) applySceneUpdate(op Operation) error {
	var changes map[string]any
	if err := json.Unmarshal(op.Changes, &changes); err != nil {
		return fmt.Errorf("invalid scene changes: %w", err)
	}

	if v, ok := changes["duration"].(float64); ok && v > 0 {
		ss.scn.Duration = v
	}
	return nil
}

// GetServerTimestamp returns the current server timestamp in milliseconds.
func GetServerTimestamp() int64 {
	return time.Now().UnixMilli()
}
