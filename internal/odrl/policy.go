package odrl

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Constraint is the atomic comparison unit of a rule: it restricts when the
// rule applies by comparing a field (leftOperand) against a value
// (rightOperand) using an ODRL operator.
//
// Policy documents in the wild carry all kinds of extra members on
// constraints (units, datatypes, comments). Those are kept in Extra so a
// cleaned document round-trips without losing them.
type Constraint struct {
	LeftOperand  string
	Operator     Operator
	RightOperand any

	// Extra holds unrecognized members of the constraint object.
	Extra map[string]any

	// raw is set when the source element was not a JSON object at all
	// (e.g. a bare string in a constraint array). Such elements are
	// skipped by analysis but preserved on re-serialization.
	raw json.RawMessage
}

// Malformed reports whether the source element was not a well-formed
// constraint object. Malformed constraints never participate in
// duplication detection.
func (c *Constraint) Malformed() bool {
	return c.raw != nil
}

func (c *Constraint) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		// not an object, keep the element verbatim
		c.raw = append(json.RawMessage(nil), data...)
		return nil
	}

	for key, val := range raw {
		switch key {
		case "leftOperand":
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if s, ok := v.(string); ok {
				c.LeftOperand = s
			}
		case "operator":
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if s, ok := v.(string); ok {
				c.Operator = Operator(s)
			}
		case "rightOperand":
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			c.RightOperand = v
		default:
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if c.Extra == nil {
				c.Extra = make(map[string]any)
			}
			c.Extra[key] = v
		}
	}
	return nil
}

func (c Constraint) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	out := make(map[string]any, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.LeftOperand != "" {
		out["leftOperand"] = c.LeftOperand
	}
	if c.Operator != "" {
		out["operator"] = string(c.Operator)
	}
	if c.RightOperand != nil {
		out["rightOperand"] = c.RightOperand
	}
	return json.Marshal(out)
}

// Constraints canonicalizes the "single object or array" shapes JSON-LD
// documents use for constraint members.
type Constraints []Constraint

func (cs *Constraints) UnmarshalJSON(data []byte) error {
	elems, single := splitArray(data)
	if single {
		elems = []json.RawMessage{data}
	}
	out := make(Constraints, 0, len(elems))
	for _, elem := range elems {
		var c Constraint
		if err := json.Unmarshal(elem, &c); err != nil {
			return err
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}

// Rule is a permission or prohibition entry of a policy.
type Rule struct {
	// Action is kept opaque: ODRL allows a string, an object, or an
	// array here, and the cleanup logic only cares whether one exists.
	Action any

	Constraint Constraints

	// Extra holds unrecognized members of the rule object.
	Extra map[string]any

	raw json.RawMessage
}

// Malformed reports whether the source element was not a rule object.
func (r *Rule) Malformed() bool {
	return r.raw != nil
}

// Empty reports whether the rule carries neither an action nor any
// constraints. Empty prohibition rules are dropped after cleanup.
func (r *Rule) Empty() bool {
	if r.raw != nil {
		return false
	}
	return r.Action == nil && len(r.Constraint) == 0
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		r.raw = append(json.RawMessage(nil), data...)
		return nil
	}

	for key, val := range raw {
		switch key {
		case "action":
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			r.Action = v
		case "constraint":
			if err := json.Unmarshal(val, &r.Constraint); err != nil {
				return err
			}
		default:
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if r.Extra == nil {
				r.Extra = make(map[string]any)
			}
			r.Extra[key] = v
		}
	}
	return nil
}

func (r Rule) MarshalJSON() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	out := make(map[string]any, len(r.Extra)+2)
	for k, v := range r.Extra {
		out[k] = v
	}
	if r.Action != nil {
		out["action"] = r.Action
	}
	if r.Constraint != nil {
		out["constraint"] = r.Constraint
	}
	return json.Marshal(out)
}

// Rules canonicalizes the "single object or array" shapes for the
// permission and prohibition members of a policy.
type Rules []Rule

func (rs *Rules) UnmarshalJSON(data []byte) error {
	elems, single := splitArray(data)
	if single {
		elems = []json.RawMessage{data}
	}
	out := make(Rules, 0, len(elems))
	for _, elem := range elems {
		var r Rule
		if err := json.Unmarshal(elem, &r); err != nil {
			return err
		}
		out = append(out, r)
	}
	*rs = out
	return nil
}

// Policy is a single ODRL policy document.
type Policy struct {
	UID  string
	Type string

	Permission  Rules
	Prohibition Rules

	// Extra holds unrecognized top-level members (targets, assigners,
	// profile references and so on).
	Extra map[string]any

	hasPermission  bool
	hasProhibition bool
}

func (p *Policy) UnmarshalJSON(data []byte) error {
	raw, err := decodeObject(data)
	if err != nil {
		return fmt.Errorf("policy is not an object: %w", err)
	}

	for key, val := range raw {
		switch key {
		case "uid":
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if s, ok := v.(string); ok {
				p.UID = s
			}
		case "@type":
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if s, ok := v.(string); ok {
				p.Type = s
			}
		case "permission":
			p.hasPermission = true
			if err := json.Unmarshal(val, &p.Permission); err != nil {
				return err
			}
		case "prohibition":
			p.hasProhibition = true
			if err := json.Unmarshal(val, &p.Prohibition); err != nil {
				return err
			}
		default:
			v, err := decodeAny(val)
			if err != nil {
				return err
			}
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[key] = v
		}
	}
	return nil
}

func (p Policy) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.UID != "" {
		out["uid"] = p.UID
	}
	if p.Type != "" {
		out["@type"] = p.Type
	}
	if p.hasPermission || p.Permission != nil {
		out["permission"] = p.Permission
	}
	if p.hasProhibition || p.Prohibition != nil {
		out["prohibition"] = p.Prohibition
	}
	return json.Marshal(out)
}

// decodeObject decodes data into a raw-message map, failing when the value
// is not a JSON object.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// decodeAny decodes an arbitrary JSON value, keeping numbers as
// json.Number so integer and float right operands stay distinguishable.
func decodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// splitArray returns the elements of a JSON array, or single=true when the
// value is not an array.
func splitArray(data []byte) (elems []json.RawMessage, single bool) {
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, true
	}
	return elems, false
}
