package column

// Raw returns pid's raw value.
func (c *Attribute) Raw(pid int32) (Value, bool) {
	v, ok := c.raw[pid]
	return v, ok
}

// Text returns pid's formatted, unpadded cell.
func (c *Attribute) Text(pid int32) (string, bool) {
	s, ok := c.fmt[pid]
	return s, ok
}

// Len is the number of ingested PIDs.
func (c *Attribute) Len() int { return len(c.pids) }

// Parent returns pid's recorded parent.
func (c *TreeColumn) Parent(pid int32) (int32, bool) {
	p, ok := c.parent[pid]
	return p, ok
}

// Children returns pid's children in ascending order.
func (c *TreeColumn) Children(pid int32) []int32 {
	return c.children[pid]
}
