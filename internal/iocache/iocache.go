package iocache

import (
	"sync"

	"github.com/huangsam/leaderboard/internal/contract"
)

// StoreManager holds the source cache and the snapshot store.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	source       contract.CacheStore
	snapshots    contract.SnapshotStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetSourceStore returns the cache of remote table bodies.
func (mgr *StoreManager) GetSourceStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.source
}

// GetSnapshotStore returns the snapshot store, or nil when snapshots are off.
func (mgr *StoreManager) GetSnapshotStore() contract.SnapshotStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}
