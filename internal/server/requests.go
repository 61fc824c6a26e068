package server

import (
	stderrors "errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/matzehuels/treetable/pkg/dnd"
	terrors "github.com/matzehuels/treetable/pkg/errors"
)

// expandedRequest is the body of PUT /tables/{id}/expanded.
type expandedRequest struct {
	IDs []string `json:"ids"`
}

func (r expandedRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.IDs, validation.NotNil, validation.Each(validation.By(nodeID))),
	)
}

// dragRequest is the body of POST /tables/{id}/drag.
type dragRequest struct {
	SourceID string `json:"sourceId"`
}

func (r dragRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SourceID, validation.Required, validation.By(nodeID)),
	)
}

// pointerRequest is the body of POST /tables/{id}/hover and /drop.
type pointerRequest struct {
	TargetID string `json:"targetId"`
	Edge     string `json:"edge"`
}

func (r pointerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.TargetID, validation.Required, validation.By(nodeID)),
		validation.Field(&r.Edge, validation.Required, validation.In("top", "bottom")),
	)
}

func (r pointerRequest) edge() dnd.Edge {
	if r.Edge == "top" {
		return dnd.EdgeTop
	}
	return dnd.EdgeBottom
}

// computeRequest is the body of POST /tables/{id}/compute.
type computeRequest struct {
	SourceID    string          `json:"sourceId"`
	TargetID    string          `json:"targetId"`
	Instruction dnd.Instruction `json:"instruction"`
}

func (r computeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.SourceID, validation.Required, validation.By(nodeID)),
		validation.Field(&r.TargetID, validation.Required, validation.By(nodeID)),
		validation.Field(&r.Instruction, validation.Required, validation.By(instruction)),
	)
}

func nodeID(v any) error {
	s, _ := v.(string)
	if err := terrors.ValidateNodeID(s); err != nil {
		return stderrors.New(terrors.UserMessage(err))
	}
	return nil
}

func instruction(v any) error {
	in, _ := v.(dnd.Instruction)
	if _, err := dnd.ParseInstruction(string(in)); err != nil {
		return stderrors.New(terrors.UserMessage(err))
	}
	return nil
}
