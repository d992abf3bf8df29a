package settlement

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tradezlabs/tradez/pkg/account"
	"github.com/tradezlabs/tradez/pkg/store"
)

// accountCache holds the handful of accounts one external message can touch
// (the caller, and at most one resting counterparty per trade). A plain
// slice with linear search beats a map at this cardinality and avoids
// leaking unbounded state across invocations.
type accountCache struct {
	st      store.Store
	entries []*account.Account
}

func newAccountCache(st store.Store) *accountCache {
	return &accountCache{st: st}
}

// get returns the cached or freshly loaded account for addr, creating a
// zero-balance account if none has ever been saved.
func (c *accountCache) get(addr common.Address) (*account.Account, error) {
	for _, a := range c.entries {
		if a.Address == addr {
			return a, nil
		}
	}
	acc, err := account.Load(c.st, addr)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		acc = account.New(addr)
	}
	c.entries = append(c.entries, acc)
	return acc, nil
}

// flush persists every account touched during this invocation.
func (c *accountCache) flush() error {
	for _, a := range c.entries {
		if err := account.Save(c.st, a); err != nil {
			return err
		}
	}
	return nil
}
