package main

import (
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"v4lnode/internal/preflight"
	"v4lnode/internal/v4l"
)

// nodeView is the presentation form of a node shared by list and show.
type nodeView struct {
	Path    string                `json:"path"`
	Kind    v4l.Kind              `json:"kind"`
	Index   *int                  `json:"index,omitempty"`
	Name    string                `json:"name,omitempty"`
	HasName bool                  `json:"has_name"`
	Error   string                `json:"error,omitempty"`
	Access  *preflight.NodeAccess `json:"access,omitempty"`
}

// describeNode never fails; nodes that do not follow the naming convention
// carry the reason in Error.
func describeNode(node v4l.Node, probe bool) nodeView {
	view := nodeView{Path: node.Path(), Kind: node.Kind()}
	if info, err := node.Describe(); err != nil {
		view.Error = err.Error()
	} else {
		index := info.Index
		view.Index = &index
		view.Name = info.Name
		view.HasName = info.HasName
	}
	if probe {
		access, err := preflight.ProbeNode(node.Path())
		if err == nil {
			view.Access = &access
		}
	}
	return view
}

func kindLabel(kind v4l.Kind) string {
	switch kind {
	case v4l.KindSubDevice:
		return "Sub-device"
	default:
		return cases.Title(language.English).String(kind.String())
	}
}

func (v nodeView) indexText() string {
	if v.Index == nil {
		return ""
	}
	return strconv.Itoa(*v.Index)
}

func (v nodeView) nameText() string {
	if v.Error != "" {
		return "(unrecognized)"
	}
	if !v.HasName {
		return ""
	}
	return v.Name
}

func (v nodeView) accessCells() []string {
	if v.Access == nil {
		return []string{"", "missing"}
	}
	return []string{v.Access.DeviceNumber(), v.Access.Permissions()}
}
