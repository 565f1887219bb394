package collab

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	Time        *float64   `json:"time,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

// CursorPos is a peer cursor in logical canvas coordinates.
type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Scene sync
	TypeSceneSync = "scene.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// --- Operation Types ---

// Operation is one scene mutation. The engine's single-writer model makes
// these commutative enough for last-write-wins: partial-field patches touch
// disjoint field sets far more often than not.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// For object.patch / object.delete / object.zorder
	ObjectID string          `json:"objectId,omitempty"`
	Fields   json.RawMessage `json:"fields,omitempty"`
	Previous json.RawMessage `json:"previous,omitempty"`

	// For object.create
	Object json.RawMessage `json:"object,omitempty"`
	Index  *int            `json:"index,omitempty"`

	// For object.delete undo
	PreviousObject json.RawMessage `json:"previousObject,omitempty"`
	PreviousIndex  *int            `json:"previousIndex,omitempty"`

	// For scene.update
	Changes json.RawMessage `json:"changes,omitempty"`
}

// Operation type names.
const (
	OpObjectPatch  = "object.patch"
	OpObjectCreate = "object.create"
	OpObjectDelete = "object.delete"
	OpSceneUpdate  = "scene.update"
)

// OperationSubmitPayload is the payload for op.submit messages.
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages.
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
}

// OperationNackPayload is the payload for op.nack messages.
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages.
type OperationBroadcastPayload struct {
	Operation Operation `json:"operation"`
	UserID    string    `json:"userId"`
	ServerSeq int64     `json:"serverSeq"`
}

// SceneSyncPayload carries the full authoritative scene.
type SceneSyncPayload struct {
	Scene     json.RawMessage `json:"scene"`
	ServerSeq int64           `json:"serverSeq"`
}
