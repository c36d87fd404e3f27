package v4l

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedNode reports a path whose file name does not follow the
// video<N> or v4l-subdev<N> convention.
var ErrUnrecognizedNode = errors.New("unrecognized video4linux node")

// NodeError describes why a node's index could not be derived.
type NodeError struct {
	Path   string
	Reason string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrUnrecognizedNode, e.Path, e.Reason)
}

func (e *NodeError) Unwrap() error {
	return ErrUnrecognizedNode
}
