// Package command defines the wire envelope a chat assistant uses to mutate
// the scene and decodes each command's raw arguments into a typed record.
// Decoding has no side effects: a malformed payload or unknown name rejects
// the call before anything touches the scene.
package command

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Call is one named command with its raw argument payload.
type Call struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolCall is the chat transport shape: the assistant ships arguments as a
// JSON-encoded string inside the function block.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

func (tc ToolCall) Call() Call {
	return Call{Name: tc.Function.Name, Arguments: json.RawMessage(tc.Function.Arguments)}
}

// Ack is the fixed acknowledgement every dispatched command returns to its
// caller, regardless of whether it changed anything.
const Ack = `{"success": true}`

// Command is the decoded, tagged form of a call. The concrete types below
// are the only implementations; dispatch is a type switch over them.
type Command interface {
	commandName() string
}

var ErrUnknownCommand = errors.New("unknown command")

var decoders = map[string]func(json.RawMessage) (Command, error){
	"transformObject":   decodeInto[TransformObjectArgs],
	"spawnModel":        decodeInto[SpawnModelArgs],
	"spawnPrimitive":    decodeInto[SpawnPrimitiveArgs],
	"spawnPointLight":   decodeInto[SpawnPointLightArgs],
	"spawnCollectable":  decodeInto[SpawnCollectableArgs],
	"spawnNPC":          decodeInto[SpawnNPCArgs],
	"configureWater":    decodeInto[ConfigureWaterArgs],
	"configureSky":      decodeInto[ConfigureSkyArgs],
	"configureTrees":    decodeInto[ConfigureTreesArgs],
	"configureGrass":    decodeInto[ConfigureGrassArgs],
	"generateHeightmap": decodeInto[GenerateHeightmapArgs],
	"saveScript":        decodeInto[SaveScriptArgs],
}

type validator interface {
	validate() error
}

func decodeInto[T any](raw json.RawMessage) (Command, error) {
	v := new(T)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, v); err != nil {
			return nil, errors.Wrapf(err, "Failed to decode arguments")
		}
	}
	cmd, ok := any(v).(Command)
	if !ok {
		return nil, errors.Errorf("%T is not a command", v)
	}
	if val, ok := any(v).(validator); ok {
		if err := val.validate(); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

// Decode resolves a call to its typed command. An unrecognized name returns
// ErrUnknownCommand so the dispatcher can ignore the call without treating
// it as a decode failure of a known schema.
func Decode(call Call) (Command, error) {
	dec, ok := decoders[call.Name]
	if !ok {
		return nil, ErrUnknownCommand
	}
	cmd, err := dec(call.Arguments)
	if err != nil {
		return nil, errors.Wrapf(err, "Command %q", call.Name)
	}
	return cmd, nil
}
