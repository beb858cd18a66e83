package odrl

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeDocument_Shapes(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantShape EnvelopeShape
		wantCount int
	}{
		{
			name:      "single policy",
			input:     `{"@type": "Set", "uid": "p1"}`,
			wantShape: ShapeSingle,
			wantCount: 1,
		},
		{
			name:      "array of policies",
			input:     `[{"@type": "Set", "uid": "p1"}, {"@type": "Set", "uid": "p2"}]`,
			wantShape: ShapeArray,
			wantCount: 2,
		},
		{
			name:      "graph envelope",
			input:     `{"@context": "http://www.w3.org/ns/odrl.jsonld", "@graph": [{"@type": "Set", "uid": "p1"}]}`,
			wantShape: ShapeGraph,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := DecodeDocument([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeDocument() error = %v", err)
			}
			if doc.Shape != tt.wantShape {
				t.Errorf("Shape = %v, want %v", doc.Shape, tt.wantShape)
			}
			if len(doc.Policies) != tt.wantCount {
				t.Errorf("len(Policies) = %d, want %d", len(doc.Policies), tt.wantCount)
			}
		})
	}
}

func TestDecodeDocument_UnknownShape(t *testing.T) {
	_, err := DecodeDocument([]byte(`{"foo": "bar"}`))
	if !errors.Is(err, ErrUnknownShape) {
		t.Errorf("error = %v, want ErrUnknownShape", err)
	}
}

func TestDocument_EncodePreservesShape(t *testing.T) {
	input := `{"@context": "http://www.w3.org/ns/odrl.jsonld", "@graph": [{"@type": "Set", "uid": "p1"}]}`

	doc, err := DecodeDocument([]byte(input))
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("re-parsing output: %v", err)
	}
	if _, ok := raw["@graph"]; !ok {
		t.Error("output lost the @graph envelope")
	}
	if _, ok := raw["@context"]; !ok {
		t.Error("output lost the @context member")
	}

	// and decoding the output again must yield the same shape
	doc2, err := DecodeDocument(out)
	if err != nil {
		t.Fatalf("DecodeDocument(round trip) error = %v", err)
	}
	if doc2.Shape != ShapeGraph {
		t.Errorf("round-trip shape = %v, want graph", doc2.Shape)
	}
}

func TestDocument_EncodeSingle(t *testing.T) {
	doc, err := DecodeDocument([]byte(`{"@type": "Set", "uid": "p1"}`))
	if err != nil {
		t.Fatalf("DecodeDocument() error = %v", err)
	}

	out, err := doc.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(out, &raw); err != nil {
		t.Fatalf("re-parsing output: %v", err)
	}
	if _, ok := raw["@graph"]; ok {
		t.Error("single policy was wrapped in a @graph envelope")
	}
	if string(raw["uid"]) != `"p1"` {
		t.Errorf("uid = %s", raw["uid"])
	}
}
