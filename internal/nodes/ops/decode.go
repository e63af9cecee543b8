package ops

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// envelope is one entry of a command script.
type envelope struct {
	Type    string    `yaml:"type"`
	Payload yaml.Node `yaml:"payload"`
}

// DecodeScript parses a YAML (or JSON) list of {type, payload} envelopes into
// commands. Commands whose payload is a single context path or clipboard mode
// also accept it as a bare scalar:
//
//	- type: HIDE
//	  payload: /sites/neos/main@user-admin
//	- type: MOVE
//	  payload: {nodeToBeMoved: root/a, targetNode: root/b, position: after}
func DecodeScript(data []byte) ([]Command, error) {
	var envs []envelope
	if err := yaml.Unmarshal(data, &envs); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	cmds := make([]Command, 0, len(envs))
	for i := range envs {
		cmd, err := DecodeCommand(CommandType(envs[i].Type), &envs[i].Payload)
		if err != nil {
			return nil, fmt.Errorf("command %d (%s): %w", i, envs[i].Type, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// DecodeCommand decodes the payload of a single command of type t.
func DecodeCommand(t CommandType, payload *yaml.Node) (Command, error) {
	switch t {
	case TypeInit:
		return decodeAs[Init](payload, "")
	case TypeAdd:
		return decodeAs[Add](payload, "")
	case TypeMerge:
		return decodeAs[Merge](payload, "")
	case TypeFocus:
		return decodeAs[Focus](payload, "")
	case TypeUnfocus:
		return Unfocus{}, nil
	case TypeCommenceCreation:
		return decodeAs[CommenceCreation](payload, "")
	case TypeCommenceRemoval:
		return decodeAs[CommenceRemoval](payload, "contextPath")
	case TypeRemovalAborted:
		return AbortRemoval{}, nil
	case TypeRemovalConfirmed:
		return ConfirmRemoval{}, nil
	case TypeRemove:
		return decodeAs[Remove](payload, "contextPath")
	case TypeSetState:
		return decodeAs[SetState](payload, "")
	case TypeReloadState:
		return decodeAs[ReloadState](payload, "")
	case TypeCopy:
		return decodeAs[Copy](payload, "contextPath")
	case TypeCut:
		return decodeAs[Cut](payload, "contextPath")
	case TypeMove:
		return decodeAs[Move](payload, "")
	case TypePaste:
		return decodeAs[Paste](payload, "")
	case TypeCommitPaste:
		return decodeAs[CommitPaste](payload, "clipboardMode")
	case TypeHide:
		return decodeAs[Hide](payload, "contextPath")
	case TypeShow:
		return decodeAs[Show](payload, "contextPath")
	case TypeUpdateURI:
		return decodeAs[UpdateURI](payload, "")
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, t)
}

// decodeAs decodes payload into a T. When scalarField is set, a scalar payload
// is treated as the value of that field.
func decodeAs[T Command](payload *yaml.Node, scalarField string) (Command, error) {
	var c T
	if payload == nil || payload.Kind == 0 {
		return c, nil
	}
	if payload.Kind == yaml.ScalarNode && scalarField != "" {
		payload = &yaml.Node{
			Kind: yaml.MappingNode,
			Tag:  "!!map",
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: scalarField},
				payload,
			},
		}
	}
	if err := payload.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return c, nil
}
