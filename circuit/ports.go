// Package circuit assembles components, wires, and the node-id registry into
// one document, and maps node ids to and from the saved form.
package circuit

import (
	"math"

	"github.com/pkg/errors"

	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"
)

// The saved form of a component's nodes is compact:
//
//   - no inputs and no outputs: no field at all
//   - inputs only: an "id" field holding one id or an array of ids
//   - outputs only: likewise, each entry optionally {"id": n, "force": "1"}
//   - both: separate "in" and "out" fields
//
// A single-element array collapses to the bare element. "force" is emitted
// only when a forced value is defined.

// SavePorts produces the saved node-id fields for one component, ready to be
// merged into its document entry.
func SavePorts(c sim.Component) map[string]interface{} {
	ins := c.Inputs()
	outs := c.Outputs()

	entry := map[string]interface{}{}

	switch {
	case len(ins) == 0 && len(outs) == 0:
		// No id field at all.
	case len(outs) == 0:
		entry["id"] = collapse(saveInputs(ins))
	case len(ins) == 0:
		entry["id"] = collapse(saveOutputs(outs))
	default:
		entry["in"] = collapse(saveInputs(ins))
		entry["out"] = collapse(saveOutputs(outs))
	}

	return entry
}

func saveInputs(nodes []*sim.Node) []interface{} {
	saved := make([]interface{}, len(nodes))
	for i, n := range nodes {
		saved[i] = int64(n.ID())
	}
	return saved
}

func saveOutputs(nodes []*sim.Node) []interface{} {
	saved := make([]interface{}, len(nodes))
	for i, n := range nodes {
		if force, ok := n.Force(); ok {
			saved[i] = map[string]interface{}{
				"id":    int64(n.ID()),
				"force": force.String(),
			}
		} else {
			saved[i] = int64(n.ID())
		}
	}
	return saved
}

func collapse(list []interface{}) interface{} {
	if len(list) == 1 {
		return list[0]
	}
	return list
}

// BindPorts rebinds a freshly built component's nodes to the ids read from a
// saved document and applies saved forced values. Duplicate ids and arity
// mismatches are MappingErrors; the component keeps its fresh ids when
// binding fails.
func BindPorts(
	c sim.Component,
	entry map[string]interface{},
	reg *sim.Registry,
) error {
	ins := c.Inputs()
	outs := c.Outputs()

	var inField, outField interface{}
	var inPresent, outPresent bool

	switch {
	case len(ins) == 0 && len(outs) == 0:
		return nil
	case len(outs) == 0:
		inField, inPresent = entry["id"], true
	case len(ins) == 0:
		outField, outPresent = entry["id"], true
	default:
		inField, inPresent = entry["in"], true
		outField, outPresent = entry["out"], true
	}

	if inPresent {
		refs, err := parseRefs(inField, len(ins))
		if err != nil {
			return errors.Wrap(err, "bind inputs of "+c.Name())
		}
		for i, ref := range refs {
			if ref.force != nil {
				return sim.NewMappingError(
					"input node cannot carry a forced value")
			}
			if err := reg.Rebind(ins[i], ref.id); err != nil {
				return errors.Wrap(err, "bind inputs of "+c.Name())
			}
		}
	}

	if outPresent {
		refs, err := parseRefs(outField, len(outs))
		if err != nil {
			return errors.Wrap(err, "bind outputs of "+c.Name())
		}
		for i, ref := range refs {
			if err := reg.Rebind(outs[i], ref.id); err != nil {
				return errors.Wrap(err, "bind outputs of "+c.Name())
			}
			if ref.force != nil {
				outs[i].SetForce(*ref.force)
			}
		}
	}

	return nil
}

type nodeRef struct {
	id    sim.NodeID
	force *logic.Value
}

// parseRefs reads the saved form of a node list: a bare element or an array,
// each element a number or an {id, force} object.
func parseRefs(field interface{}, want int) ([]nodeRef, error) {
	if field == nil {
		return nil, sim.NewMappingError("missing node id field")
	}

	var raw []interface{}
	if list, ok := field.([]interface{}); ok {
		raw = list
	} else {
		raw = []interface{}{field}
	}

	if len(raw) != want {
		return nil, sim.NewMappingError(
			"saved %d node ids, component has %d nodes", len(raw), want)
	}

	refs := make([]nodeRef, len(raw))
	for i, el := range raw {
		ref, err := parseRef(el)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}

	return refs, nil
}

func parseRef(el interface{}) (nodeRef, error) {
	switch v := el.(type) {
	case map[string]interface{}:
		id, err := parseID(v["id"])
		if err != nil {
			return nodeRef{}, err
		}

		ref := nodeRef{id: id}
		if rawForce, ok := v["force"]; ok {
			s, ok := rawForce.(string)
			if !ok {
				return nodeRef{}, sim.NewMappingError(
					"forced value %v is not a string", rawForce)
			}
			force, ok := logic.ParseValue(s)
			if !ok {
				return nodeRef{}, sim.NewMappingError(
					"malformed forced value %q", s)
			}
			ref.force = &force
		}
		return ref, nil

	default:
		id, err := parseID(el)
		if err != nil {
			return nodeRef{}, err
		}
		return nodeRef{id: id}, nil
	}
}

func parseID(el interface{}) (sim.NodeID, error) {
	switch v := el.(type) {
	case int64:
		return sim.NodeID(v), nil
	case int:
		return sim.NodeID(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, sim.NewMappingError("node id %v is not an integer", v)
		}
		return sim.NodeID(v), nil
	}
	return 0, sim.NewMappingError("node id %v is not a number", el)
}
