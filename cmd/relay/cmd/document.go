package cmd

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/gridlab/relay/alu"
	"github.com/gridlab/relay/circuit"
	"github.com/gridlab/relay/flipflop"
	"github.com/gridlab/relay/gates"
	"github.com/gridlab/relay/ram"
	"github.com/gridlab/relay/sim"
)

// A document is the saved form of a circuit. The engine core treats the
// component factory as an external collaborator; this is that collaborator.
type document struct {
	Components []componentEntry `json:"components"`
	Wires      []wireEntry      `json:"wires"`
}

type componentEntry struct {
	Type    string   `json:"type"`
	Name    string   `json:"name"`
	Trigger string   `json:"trigger,omitempty"`
	Memory  []string `json:"memory,omitempty"`

	// Node-id fields per the compact scheme: id, or in and out.
	Ports map[string]json.RawMessage `json:"-"`
}

type wireEntry struct {
	From  sim.NodeID `json:"from"`
	To    sim.NodeID `json:"to"`
	Delay sim.VTime  `json:"delay"`
}

// UnmarshalJSON keeps the node-id fields alongside the typed ones.
func (e *componentEntry) UnmarshalJSON(data []byte) error {
	type bare componentEntry
	if err := json.Unmarshal(data, (*bare)(e)); err != nil {
		return err
	}

	all := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	e.Ports = map[string]json.RawMessage{}
	for _, key := range []string{"id", "in", "out"} {
		if raw, ok := all[key]; ok {
			e.Ports[key] = raw
		}
	}

	return nil
}

// loadDocument reads a document file and assembles the circuit it describes.
func loadDocument(path string) (*circuit.Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read document")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse document")
	}

	c := circuit.New()

	for _, entry := range doc.Components {
		if err := addComponent(c, entry); err != nil {
			return nil, errors.Wrap(err, "component "+entry.Name)
		}
	}

	for _, w := range doc.Wires {
		if _, err := c.Connect(w.From, w.To, w.Delay); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func addComponent(c *circuit.Circuit, entry componentEntry) error {
	trigger := sim.RisingEdge
	if entry.Trigger != "" {
		var err error
		trigger, err = sim.ParseEdgeTrigger(entry.Trigger)
		if err != nil {
			return err
		}
	}

	var comp sim.Component

	switch entry.Type {
	case "alu":
		comp = alu.MakeBuilder().
			WithRegistry(c.Registry()).
			WithTimeline(c.Timeline()).
			Build(entry.Name)
	case "flipflop":
		comp = flipflop.MakeBuilder().
			WithRegistry(c.Registry()).
			WithTimeline(c.Timeline()).
			WithTrigger(trigger).
			Build(entry.Name)
	case "ram":
		mem := ram.MakeBuilder().
			WithRegistry(c.Registry()).
			WithTimeline(c.Timeline()).
			WithTrigger(trigger).
			Build(entry.Name)
		if len(entry.Memory) > 0 {
			if err := mem.LoadMemoryImage(entry.Memory); err != nil {
				return err
			}
		}
		comp = mem
	default:
		kind, err := gates.ParseKind(entry.Type)
		if err != nil {
			return err
		}
		comp = gates.MakeBuilder().
			WithRegistry(c.Registry()).
			WithTimeline(c.Timeline()).
			WithKind(kind).
			Build(entry.Name)
	}

	ports := map[string]interface{}{}
	for key, raw := range entry.Ports {
		var parsed interface{}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return err
		}
		ports[key] = parsed
	}

	if len(ports) > 0 {
		if err := circuit.BindPorts(comp, ports, c.Registry()); err != nil {
			return err
		}
	}

	c.AddComponent(comp)
	return nil
}

// saveDocument is the inverse of loadDocument for the parts the engine owns:
// component node ids, forced values, RAM memory images, and the wiring.
func saveDocument(c *circuit.Circuit) (*document, error) {
	doc := &document{}

	for _, comp := range c.Components() {
		entry := componentEntry{
			Name:  comp.Name(),
			Ports: map[string]json.RawMessage{},
		}

		switch concrete := comp.(type) {
		case *gates.Comp:
			entry.Type = concrete.Kind().String()
		case *alu.Comp:
			entry.Type = "alu"
		case *flipflop.Comp:
			entry.Type = "flipflop"
			entry.Trigger = concrete.Trigger().String()
		case *ram.Comp:
			entry.Type = "ram"
			entry.Trigger = concrete.Trigger().String()
			entry.Memory = concrete.MemoryImage()
		default:
			return nil, errors.Errorf("cannot save component %s", comp.Name())
		}

		for key, val := range circuit.SavePorts(comp) {
			raw, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			entry.Ports[key] = raw
		}

		doc.Components = append(doc.Components, entry)
	}

	for _, comp := range c.Components() {
		for _, in := range comp.Inputs() {
			w := in.Incoming()
			if w == nil {
				continue
			}
			doc.Wires = append(doc.Wires, wireEntry{
				From:  w.Start().ID(),
				To:    in.ID(),
				Delay: w.Delay(),
			})
		}
	}

	return doc, nil
}

// MarshalJSON merges the node-id fields back into the component entry.
func (e componentEntry) MarshalJSON() ([]byte, error) {
	type bare componentEntry
	data, err := json.Marshal(bare(e))
	if err != nil {
		return nil, err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for key, raw := range e.Ports {
		merged[key] = raw
	}

	return json.Marshal(merged)
}
