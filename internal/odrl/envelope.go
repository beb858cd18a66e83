package odrl

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EnvelopeShape identifies how policies were wrapped in the source document.
type EnvelopeShape int

const (
	// ShapeSingle is a bare policy object (detected via "@type").
	ShapeSingle EnvelopeShape = iota
	// ShapeArray is a JSON array of policy objects.
	ShapeArray
	// ShapeGraph is an object containing a "@graph" array of policies.
	ShapeGraph
)

func (s EnvelopeShape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeArray:
		return "array"
	case ShapeGraph:
		return "graph"
	default:
		return "unknown"
	}
}

// ErrUnknownShape is returned when a document is valid JSON but matches
// none of the three supported envelope shapes.
var ErrUnknownShape = fmt.Errorf("unknown document shape: expected a policy object, an array, or a @graph envelope")

// Document is a decoded JSON-LD policy document. It remembers the envelope
// shape and any envelope-level members (such as "@context") so Encode can
// re-serialize in the same form.
type Document struct {
	Shape    EnvelopeShape
	Policies []Policy

	// envelope holds non-@graph members of a graph-shaped document.
	envelope map[string]any
}

// DecodeDocument parses a JSON-LD document in one of the three supported
// envelope shapes.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty document")
	}

	if trimmed[0] == '[' {
		var policies []Policy
		if err := json.Unmarshal(trimmed, &policies); err != nil {
			return nil, fmt.Errorf("parsing policy array: %w", err)
		}
		return &Document{Shape: ShapeArray, Policies: policies}, nil
	}

	raw, err := decodeObject(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	if graph, ok := raw["@graph"]; ok {
		var policies []Policy
		if err := json.Unmarshal(graph, &policies); err != nil {
			return nil, fmt.Errorf("parsing @graph: %w", err)
		}
		envelope := make(map[string]any, len(raw)-1)
		for key, val := range raw {
			if key == "@graph" {
				continue
			}
			v, err := decodeAny(val)
			if err != nil {
				return nil, err
			}
			envelope[key] = v
		}
		return &Document{Shape: ShapeGraph, Policies: policies, envelope: envelope}, nil
	}

	if _, ok := raw["@type"]; ok {
		var policy Policy
		if err := json.Unmarshal(trimmed, &policy); err != nil {
			return nil, fmt.Errorf("parsing policy: %w", err)
		}
		return &Document{Shape: ShapeSingle, Policies: []Policy{policy}}, nil
	}

	return nil, ErrUnknownShape
}

// Encode serializes the document using the envelope shape it was decoded
// with, indented for human-readable diffs.
func (d *Document) Encode() ([]byte, error) {
	var v any
	switch d.Shape {
	case ShapeArray:
		v = d.Policies
	case ShapeGraph:
		out := make(map[string]any, len(d.envelope)+1)
		for k, val := range d.envelope {
			out[k] = val
		}
		out["@graph"] = d.Policies
		v = out
	case ShapeSingle:
		if len(d.Policies) != 1 {
			return nil, fmt.Errorf("single-policy document holds %d policies", len(d.Policies))
		}
		v = d.Policies[0]
	default:
		return nil, fmt.Errorf("cannot encode shape %v", d.Shape)
	}
	return json.MarshalIndent(v, "", "  ")
}
