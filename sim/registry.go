package sim

// A NodeID identifies a node. IDs are stable across save and load.
type NodeID int64

// A Registry tracks every live node of one document by id. It is the only
// authority for id uniqueness and next-id allocation. A registry is created
// when a document is loaded and cleared when the document is replaced.
//
// The whole graph is mutated from a single cooperative control flow, so the
// registry needs no locking.
type Registry struct {
	nodes  map[NodeID]*Node
	nextID NodeID
}

// NewRegistry creates an empty registry. The first allocated id is 1.
func NewRegistry() *Registry {
	r := new(Registry)
	r.nodes = make(map[NodeID]*Node)
	r.nextID = 1
	return r
}

// Allocate hands out the next unused id.
func (r *Registry) Allocate() NodeID {
	id := r.nextID
	r.nextID++
	return id
}

// Reserve claims a specific id, as read from a saved document. Claiming an id
// that a live node already holds is a MappingError.
func (r *Registry) Reserve(id NodeID) error {
	if _, taken := r.nodes[id]; taken {
		return NewMappingError("node id %d is already in use", id)
	}

	if id >= r.nextID {
		r.nextID = id + 1
	}

	return nil
}

// Lookup returns the live node holding the id, or nil.
func (r *Registry) Lookup(id NodeID) *Node {
	return r.nodes[id]
}

// Rebind moves a node to a new id, keeping the registry consistent. The new
// id must not belong to another live node.
func (r *Registry) Rebind(n *Node, id NodeID) error {
	if n.id == id {
		return nil
	}

	if other, taken := r.nodes[id]; taken && other != n {
		return NewMappingError("node id %d is already in use", id)
	}

	if err := r.Reserve(id); err != nil {
		return err
	}

	delete(r.nodes, n.id)
	n.id = id
	r.nodes[id] = n

	return nil
}

// NodeCount returns the number of live nodes.
func (r *Registry) NodeCount() int {
	return len(r.nodes)
}

// Clear forgets every node and restarts id allocation. Used when a document
// is replaced.
func (r *Registry) Clear() {
	r.nodes = make(map[NodeID]*Node)
	r.nextID = 1
}

func (r *Registry) add(n *Node) {
	r.nodes[n.id] = n
}

func (r *Registry) remove(n *Node) {
	delete(r.nodes, n.id)
}
