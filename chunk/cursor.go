package chunk

// Cursor yields the windows of one traversal.
type Cursor struct {
	p        *Planner
	forward  bool
	next     uint64
	done     bool
	consumed bool
}

// Forward returns a cursor over candidates start, start+Step, ... up to the
// last candidate. A start below Begin is raised to Begin.
func (p *Planner) Forward(start uint64) *Cursor {
	c := &Cursor{p: p, forward: true}
	c.Seek(start)
	return c
}

// Backward returns a cursor over candidates start, start-Step, ... down to
// Begin. A start above the last candidate is clamped to it.
func (p *Planner) Backward(start uint64) *Cursor {
	c := &Cursor{p: p}
	c.Seek(start)
	return c
}

// Seek repositions the cursor so that offset is the next candidate. It is
// used to resume after a hit changed the stride.
func (c *Cursor) Seek(offset uint64) {
	cfg := c.p.cfg
	c.done = c.p.plan.Empty()
	if c.done {
		return
	}

	if c.forward {
		offset = max(offset, cfg.Begin)
		c.done = offset > c.p.last
	} else {
		offset = min(offset, c.p.last)
		c.done = offset < cfg.Begin
	}
	c.next = offset
}

// Done reports whether the traversal is exhausted.
func (c *Cursor) Done() bool {
	return c.done
}

// Next returns the window holding the next candidates.
func (c *Cursor) Next() (Chunk, bool) {
	if c.done {
		return Chunk{}, false
	}
	if c.forward {
		return c.nextForward(), true
	}
	return c.nextBackward(), true
}

func (c *Cursor) nextForward() Chunk {
	cfg := c.p.cfg
	plan := c.p.plan
	start := c.next

	size := plan.WindowSize
	if plan.BigStep {
		size = cfg.NeedleLen
	}
	// Tail: shrink to end on End.
	if rest := cfg.End - start + 1; rest != 0 && rest < size {
		size = rest
	}
	ch := Chunk{
		Offset:          start,
		Size:            size,
		MaxSearchOffset: size - cfg.NeedleLen,
	}

	tested := ch.MaxSearchOffset/cfg.Step + 1
	if tested > (c.p.last-start)/cfg.Step {
		c.done = true
	} else {
		c.next = start + tested*cfg.Step
	}
	return ch
}

func (c *Cursor) nextBackward() Chunk {
	cfg := c.p.cfg
	plan := c.p.plan
	top := c.next

	size := plan.WindowSize
	if plan.BigStep {
		size = cfg.NeedleLen
	}
	// Head: shrink to start on Begin.
	if avail := top - cfg.Begin + cfg.NeedleLen; avail < size {
		size = avail
	}
	off := top + cfg.NeedleLen - size
	ch := Chunk{
		Offset:          off,
		Size:            size,
		MaxSearchOffset: size - cfg.NeedleLen,
		First:           top - off,
	}

	tested := ch.First/cfg.Step + 1
	if tested > (top-cfg.Begin)/cfg.Step {
		c.done = true
	} else {
		c.next = top - tested*cfg.Step
	}
	return ch
}
