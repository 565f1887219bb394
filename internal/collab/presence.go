package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// PresenceManager tracks what each connected peer is doing on the shared
// canvas: cursor position in logical coordinates, current selection, and
// playhead time. One manager per room.
type PresenceManager struct {
	mu    sync.RWMutex
	peers map[string]*PresencePayload // userID -> latest presence
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{peers: make(map[string]*PresencePayload)}
}

// Update replaces the stored presence for a user. Payloads are last-write-
// wins; a laggy peer's cursor updates simply overwrite each other.
func (pm *PresenceManager) Update(userID string, p *PresencePayload) {
	pm.mu.Lock()
	pm.peers[userID] = p
	pm.mu.Unlock()
}

func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	delete(pm.peers, userID)
	pm.mu.Unlock()
}

// StateMessage renders the full presence map for a newly joined client, so
// it sees every peer's cursor and playhead before the first update arrives.
func (pm *PresenceManager) StateMessage() *Message {
	pm.mu.RLock()
	snapshot := make(map[string]*PresencePayload, len(pm.peers))
	for id, p := range pm.peers {
		snapshot[id] = p
	}
	pm.mu.RUnlock()

	payload, err := json.Marshal(PresenceStatePayload{Presences: snapshot})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{Type: TypePresenceState, Payload: payload}
}
