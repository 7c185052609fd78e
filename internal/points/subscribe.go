package points

import "sync"

// Subscription is an owned registration handle. Close releases it; calling
// Close more than once is a no-op.
type Subscription struct {
	once  sync.Once
	close func()
}

// Close deregisters the callback.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.close)
}

// OnChanged registers fn to run after the point list changes shape
// (add, remove, load).
func (c *Collection) OnChanged(fn func()) *Subscription {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.changedSubs[id] = fn
	return &Subscription{close: func() {
		c.subMu.Lock()
		delete(c.changedSubs, id)
		c.subMu.Unlock()
	}}
}

// OnPointChanged registers fn to run after a single point is updated in place.
func (c *Collection) OnPointChanged(fn func(idx int)) *Subscription {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.pointSubs[id] = fn
	return &Subscription{close: func() {
		c.subMu.Lock()
		delete(c.pointSubs, id)
		c.subMu.Unlock()
	}}
}

// Subscribers returns the number of live registrations.
func (c *Collection) Subscribers() int {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	return len(c.changedSubs) + len(c.pointSubs)
}

// Callbacks run outside both locks so they may read the collection or close
// their own subscription.
func (c *Collection) notifyChanged() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.changedSubs))
	for _, fn := range c.changedSubs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (c *Collection) notifyPoint(idx int) {
	c.subMu.Lock()
	fns := make([]func(int), 0, len(c.pointSubs))
	for _, fn := range c.pointSubs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(idx)
	}
}
