// Package command sends scene changes to the light as setPilot datagrams.
package command

import (
	"context"
	"encoding/json"

	"scenenode-go/scene"
)

const methodSetPilot = "setPilot"

// Pilot selects a preset scene at a brightness.
type Pilot struct {
	SceneID int
	Dimming uint8
}

// FromScene builds the command for s.
func FromScene(s scene.Scene) Pilot {
	return Pilot{SceneID: s.ID, Dimming: s.Dimming}
}

type wireParams struct {
	SceneID int   `json:"sceneId"`
	Dimming uint8 `json:"dimming"`
}

type wireRequest struct {
	Method string     `json:"method"`
	Params wireParams `json:"params"`
}

// MarshalJSON renders {"method":"setPilot","params":{"sceneId":N,"dimming":D}}.
func (p Pilot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRequest{
		Method: methodSetPilot,
		Params: wireParams{SceneID: p.SceneID, Dimming: p.Dimming},
	})
}

// Sender delivers one command. Delivery is best effort; no reply is awaited.
type Sender interface {
	Send(ctx context.Context, p Pilot) error
}
