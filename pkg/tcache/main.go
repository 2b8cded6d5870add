package tcache

import (
	"sync"
	"time"
)

// temporary cache.
// used to store kv pairs that expires after a set amount of time.

type tCacheVal struct {
	timer *time.Timer
	value []byte
}

type TCache struct {
	defaultTimeout time.Duration
	lock sync.Mutex
	val map[string]*tCacheVal
}

func NewTCache(d time.Duration) *TCache {
	return &TCache{
		defaultTimeout: d,
		val: make(map[string]*tCacheVal, 0),
	}
}

func (tc *TCache) expire(key string, v *tCacheVal) {
	tc.lock.Lock()
	defer tc.lock.Unlock()
	// the key could have been re-registered after this timer fired
	// but before we got the lock.
	if tc.val[key] == v { delete(tc.val, key) }
}

// d <= 0 means the default timeout.
func (tc *TCache) Register(key string, value []byte, d time.Duration) {
	if d <= 0 { d = tc.defaultTimeout }
	tc.lock.Lock()
	defer tc.lock.Unlock()
	if old, ok := tc.val[key]; ok { old.timer.Stop() }
	v := &tCacheVal{ value: value }
	v.timer = time.AfterFunc(d, func() { tc.expire(key, v) })
	tc.val[key] = v
}

func (tc *TCache) Get(key string) ([]byte, bool) {
	tc.lock.Lock()
	defer tc.lock.Unlock()
	v, ok := tc.val[key]
	if !ok { return nil, false }
	return v.value, true
}

func (tc *TCache) Delete(key string) {
	tc.lock.Lock()
	defer tc.lock.Unlock()
	v, ok := tc.val[key]
	if !ok { return }
	v.timer.Stop()
	delete(tc.val, key)
}

func (tc *TCache) Len() int {
	tc.lock.Lock()
	defer tc.lock.Unlock()
	return len(tc.val)
}
