package relay

// channelTable owns the set of known channels and their member connections.
// Not synchronized: every access runs inside the hub loop.
type channelTable struct {
	members map[string]map[string]struct{} // channel name -> member connection IDs
	order   []string                       // creation order
}

func newChannelTable() *channelTable {
	return &channelTable{
		members: make(map[string]map[string]struct{}),
	}
}

// list returns all channel names in creation order.
func (t *channelTable) list() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// create creates an empty channel if the name is unknown. It reports whether
// a channel was actually created; creating an existing channel is a no-op.
func (t *channelTable) create(name string) bool {
	if _, ok := t.members[name]; ok {
		return false
	}
	t.members[name] = make(map[string]struct{})
	t.order = append(t.order, name)
	return true
}

// add puts a connection into a channel's member set, creating the channel if
// it does not exist yet.
func (t *channelTable) add(name, connID string) {
	t.create(name)
	t.members[name][connID] = struct{}{}
}

// remove takes a connection out of a channel's member set. Empty channels
// persist; there is no garbage collection.
func (t *channelTable) remove(name, connID string) {
	if set, ok := t.members[name]; ok {
		delete(set, connID)
	}
}

// memberIDs returns the connection IDs currently joined to a channel, empty
// if the channel is unknown.
func (t *channelTable) memberIDs(name string) []string {
	set, ok := t.members[name]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

func (t *channelTable) contains(name, connID string) bool {
	set, ok := t.members[name]
	if !ok {
		return false
	}
	_, in := set[connID]
	return in
}
