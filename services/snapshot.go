package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SnapshotKey identifies the single saved project.
const SnapshotKey = "genboq_project"

// EncodeSnapshot serializes p for saving.
func EncodeSnapshot(p Project) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot restores a saved project. The data must contain client
// details and a rooms array. A missing margin is 0, missing branding is the
// default branding, a missing currency is USD and a room without an id gets a
// fresh one.
func DecodeSnapshot(data []byte) (Project, error) {
	var probe struct {
		ClientDetails json.RawMessage `json:"clientDetails"`
		Rooms         json.RawMessage `json:"rooms"`
		Branding      json.RawMessage `json:"brandingSettings"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Project{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if isJSONNull(probe.ClientDetails) {
		return Project{}, fmt.Errorf("%w: missing clientDetails", ErrInvalidSnapshot)
	}
	if isJSONNull(probe.Rooms) || probe.Rooms[0] != '[' {
		return Project{}, fmt.Errorf("%w: rooms must be an array", ErrInvalidSnapshot)
	}

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if isJSONNull(probe.Branding) {
		p.Branding = DefaultBranding()
	}
	if p.Currency == "" {
		p.Currency = CurrencyUSD
	}
	if p.Rooms == nil {
		p.Rooms = []Room{}
	}
	for i := range p.Rooms {
		if p.Rooms[i].ID == "" {
			p.Rooms[i].ID = uuid.NewString()
		}
	}
	return p, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
