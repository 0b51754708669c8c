package task

// Commands buffers changes to the task list that are requested while a step
// is running. They are applied once every task of the frame has run. Outside
// a step they are applied right away.
type Commands struct {
	mgr     *Manager
	adds    []addCommand
	removes []string
	defers  []func()
}

type addCommand struct {
	handle *Handle
}

func newCommands(m *Manager) *Commands {
	return &Commands{mgr: m}
}

// Add registers a task. The task first runs on the step after the current
// one, or on the next step when called outside a step.
func (c *Commands) Add(name string, t Task) {
	if !c.mgr.stepping {
		c.mgr.insert(newHandle(name, t))
		return
	}
	c.adds = append(c.adds, addCommand{handle: newHandle(name, t)})
}

// Remove cancels every task registered under name once the step ends.
func (c *Commands) Remove(name string) {
	if !c.mgr.stepping {
		c.mgr.Remove(name)
		return
	}
	c.removes = append(c.removes, name)
}

// Defer runs fn after the current step, or right away outside a step.
func (c *Commands) Defer(fn func()) {
	if !c.mgr.stepping {
		fn()
		return
	}
	c.defers = append(c.defers, fn)
}

// flush applies queued commands in order: removals, additions, deferred
// functions. A task added and removed in the same frame stays registered.
func (c *Commands) flush(m *Manager) {
	for _, name := range c.removes {
		m.Remove(name)
	}

	for _, cmd := range c.adds {
		m.insert(cmd.handle)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
