package circuit

// Component is anything that can be wired into a Circuit: it exposes
// named pins and reacts when a linked pin's level changes. Reactions
// must be straight-line (no suspension) except for the CPU, whose
// stepper is the one documented exception in spec §5.
type Component interface {
	Pin(name string) *Pin
	OnPinStateChange(name string, level bool)
}

// Initializer is an optional Component extension for post-wiring setup
// (e.g. seeding the reset vector, starting the first stepper).
type Initializer interface {
	Init()
}

type endpoint struct {
	comp string
	pin  string
}

// CircuitBuilder accumulates components and link declarations and
// produces an immutable Circuit.
type CircuitBuilder struct {
	components map[string]Component
	order      []string
	links      map[string]map[string][]endpoint
}

func NewCircuitBuilder() *CircuitBuilder {
	return &CircuitBuilder{
		components: make(map[string]Component),
		links:      make(map[string]map[string][]endpoint),
	}
}

// AddComponent registers a component instance under a string name
// (e.g. "U1", "X1", matching the reference-designator convention of
// the breadboard machines this emulator models).
func (b *CircuitBuilder) AddComponent(name string, c Component) *CircuitBuilder {
	b.components[name] = c
	b.order = append(b.order, name)
	return b
}

// Link declares that level changes on (writerComp, writerPin) are
// delivered to (readerComp, readerPin).
func (b *CircuitBuilder) Link(writerComp, writerPin, readerComp, readerPin string) *CircuitBuilder {
	if b.links[writerComp] == nil {
		b.links[writerComp] = make(map[string][]endpoint)
	}
	b.links[writerComp][writerPin] = append(b.links[writerComp][writerPin], endpoint{readerComp, readerPin})
	return b
}

// LinkRange expands into n individual links: writerPrefix+i -> readerPrefix+i
// for i in [0, n). Used for address/data buses.
func (b *CircuitBuilder) LinkRange(writerComp, writerPrefix, readerComp, readerPrefix string, n int) *CircuitBuilder {
	for i := 0; i < n; i++ {
		b.Link(writerComp, groupPinName(writerPrefix, i), readerComp, groupPinName(readerPrefix, i))
	}
	return b
}

// Build validates every link references a real component/pin, attaches
// writer pins to the resulting Circuit so their Write calls propagate,
// and runs Init on any component that wants it.
func (b *CircuitBuilder) Build() (*Circuit, error) {
	c := &Circuit{
		components: b.components,
		order:      b.order,
		links:      b.links,
	}

	for writerComp, pinMap := range b.links {
		wc, ok := b.components[writerComp]
		if !ok {
			return nil, &ErrUnknownComponent{Name: writerComp}
		}
		for writerPin, endpoints := range pinMap {
			pin := wc.Pin(writerPin)
			if pin == nil {
				return nil, &ErrUnknownPin{Component: writerComp, Pin: writerPin}
			}
			pin.attach(c, writerComp)
			for _, ep := range endpoints {
				rc, ok := b.components[ep.comp]
				if !ok {
					return nil, &ErrUnknownComponent{Name: ep.comp}
				}
				if rc.Pin(ep.pin) == nil {
					return nil, &ErrUnknownPin{Component: ep.comp, Pin: ep.pin}
				}
			}
		}
	}

	for _, name := range c.order {
		if init, ok := c.components[name].(Initializer); ok {
			init.Init()
		}
	}

	return c, nil
}

// Circuit is the immutable, wired set of components. Propagation is
// synchronous, recursive, and single-threaded: a writer pin's Write
// call walks straight through every affected reader before control
// returns to the caller (spec §4.2/§5).
type Circuit struct {
	components map[string]Component
	order      []string
	links      map[string]map[string][]endpoint
}

// Component looks up a wired component by name (used by Machine to
// reach the oscillator and CPU for ticking/inspection).
func (c *Circuit) Component(name string) Component {
	return c.components[name]
}

// propagate delivers a writer pin's new level to every linked reader,
// recursing into whatever reaction that triggers. Delivery to a given
// reader is skipped if its level already matches (the "only on change"
// quiescence guard from spec §4.2).
func (c *Circuit) propagate(writerComp, writerPin string, val bool) {
	for _, ep := range c.links[writerComp][writerPin] {
		reader := c.components[ep.comp]
		pin := reader.Pin(ep.pin)
		if pin.Direction() == Output && pin.Enabled() {
			panic(&ErrBusContention{
				Writer: writerComp + "." + writerPin,
				Reader: ep.comp + "." + ep.pin,
			})
		}
		if pin.Level() != val {
			pin.SetLevel(val)
			reader.OnPinStateChange(ep.pin, val)
		}
	}
}
