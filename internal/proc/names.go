package proc

import (
	"os/user"
	"strconv"
)

// NameCache memoises ID-to-name lookups for one tick. A tick has few
// distinct IDs, so repeated lookups are the common case.
type NameCache struct {
	lookup func(id uint32) (string, error)
	names  map[uint32]string
}

// NewUserCache resolves UIDs through the system user database.
func NewUserCache() *NameCache {
	return NewNameCache(func(id uint32) (string, error) {
		u, err := user.LookupId(strconv.FormatUint(uint64(id), 10))
		if err != nil {
			return "", err
		}
		return u.Username, nil
	})
}

// NewGroupCache resolves GIDs through the system group database.
func NewGroupCache() *NameCache {
	return NewNameCache(func(id uint32) (string, error) {
		g, err := user.LookupGroupId(strconv.FormatUint(uint64(id), 10))
		if err != nil {
			return "", err
		}
		return g.Name, nil
	})
}

// NewNameCache wraps an arbitrary lookup.
func NewNameCache(lookup func(id uint32) (string, error)) *NameCache {
	return &NameCache{lookup: lookup, names: make(map[uint32]string)}
}

// Name returns the name for id, or "" if the lookup fails. Failures are
// cached too.
func (c *NameCache) Name(id uint32) string {
	if n, ok := c.names[id]; ok {
		return n
	}
	n, err := c.lookup(id)
	if err != nil {
		n = ""
	}
	c.names[id] = n
	return n
}
