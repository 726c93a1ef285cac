package dom

// Event is dispatched on an element and bubbles through its ancestors.
// Bubbling stops at the tree root: events inside a frame's content
// document never reach the embedding document.
type Event struct {
	Type   string
	Target *Element
	Detail any
}

// Handler receives dispatched events.
type Handler func(*Event)

type listener struct {
	id   int
	fn   Handler
	once bool
}

// On registers a handler and returns a deregistration func. Calling off
// more than once is harmless.
func (e *Element) On(event string, fn Handler) (off func()) {
	return e.addListener(event, fn, false)
}

// Once registers a handler that is deregistered before its first, and
// only, invocation.
func (e *Element) Once(event string, fn Handler) (off func()) {
	return e.addListener(event, fn, true)
}

func (e *Element) addListener(event string, fn Handler, once bool) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.listeners == nil {
		e.listeners = make(map[string][]*listener)
	}
	e.nextID++
	id := e.nextID
	e.listeners[event] = append(e.listeners[event], &listener{id: id, fn: fn, once: once})
	return func() { e.removeListener(event, id) }
}

func (e *Element) removeListener(event string, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := e.listeners[event]
	for i, l := range ls {
		if l.id == id {
			e.listeners[event] = append(ls[:i], ls[i+1:]...)
			return
		}
	}
}

// Dispatch fires the event on the element, then bubbles it through the
// ancestor chain. Handlers run synchronously in registration order.
func (e *Element) Dispatch(ev *Event) {
	if ev.Target == nil {
		ev.Target = e
	}
	for el := e; el != nil; el = el.Parent() {
		el.fire(ev)
	}
}

func (e *Element) fire(ev *Event) {
	e.mu.Lock()
	ls := e.listeners[ev.Type]
	run := make([]Handler, 0, len(ls))
	kept := ls[:0]
	for _, l := range ls {
		run = append(run, l.fn)
		if !l.once {
			kept = append(kept, l)
		}
	}
	if e.listeners != nil {
		e.listeners[ev.Type] = kept
	}
	e.mu.Unlock()
	for _, fn := range run {
		fn(ev)
	}
}
