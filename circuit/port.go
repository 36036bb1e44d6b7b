package circuit

// Word is the set of integer widths a Port can compose pins into.
type Word interface {
	~uint8 | ~uint16
}

// Port aggregates an ordered sequence of pins (N ≤ 16) into an integer
// word with a shared direction. Direction changes fan out to every
// constituent pin atomically.
type Port[T Word] struct {
	pins []*Pin
}

// NewPort wraps existing pins (ordered LSB→MSB) into a Port. The pins
// must already exist on their owning component; Port never creates
// pins itself.
func NewPort[T Word](pins []*Pin) *Port[T] {
	return &Port[T]{pins: pins}
}

// Read composes pin levels LSB→MSB into an unsigned integer.
func (p *Port[T]) Read() T {
	var v T
	for i, pin := range p.pins {
		if pin.Level() {
			v |= T(1) << uint(i)
		}
	}
	return v
}

// Write drives each pin with the corresponding bit of v, respecting
// each pin's direction (a silent no-op on pins that aren't drivable,
// per Pin.Write's permissive mode).
func (p *Port[T]) Write(v T) {
	for i, pin := range p.pins {
		bit := (v>>uint(i))&1 == 1
		_ = pin.Write(bit)
	}
}

// SetLevels is the input-side counterpart to Write: it latches the
// word into the pins without driving/propagating, used when this port
// is being driven by another component's routing.
func (p *Port[T]) SetLevels(v T) {
	for i, pin := range p.pins {
		pin.SetLevel((v>>uint(i))&1 == 1)
	}
}

// SetDirection fans out to every constituent pin. Must be called
// before Write if the port had been configured for reading.
func (p *Port[T]) SetDirection(d Direction) error {
	for _, pin := range p.pins {
		if err := pin.SetDirection(d); err != nil {
			return err
		}
	}
	return nil
}

// SetEnable fans enable out to every constituent pin (tri-state ports
// only; non-tri-state pins ignore it).
func (p *Port[T]) SetEnable(v bool) {
	for _, pin := range p.pins {
		pin.SetEnable(v)
	}
}

func (p *Port[T]) Pins() []*Pin { return p.pins }

//--------------------------------------------------------------------
// Declarative pin-set construction, grounded on the Rust PinBuilder
// (emulator/components/hm62256b.rs): chips describe their pins as
// physical-pin-number → name/group/direction mappings rather than
// hand writing N pin literals.

// PinSpec is one declared pin within a PinSet.
type PinSpec struct {
	Name      string
	Group     string
	GroupIdx  int
	Dir       Direction
	TriState  bool
}

// PinSet is a named collection of pins built from PinSpecs, addressable
// by name and grouped into Ports.
type PinSet struct {
	order []string
	byName map[string]*Pin
}

// BuildPinSet constructs every pin described by specs, in order.
func BuildPinSet(specs []PinSpec) *PinSet {
	ps := &PinSet{byName: make(map[string]*Pin, len(specs)), order: make([]string, 0, len(specs))}
	for _, s := range specs {
		var pin *Pin
		if s.TriState {
			pin = NewTriStatePin(s.Name)
		} else {
			pin = NewPin(s.Name, s.Dir)
		}
		pin.group = s.Group
		pin.groupIdx = s.GroupIdx
		ps.byName[s.Name] = pin
		ps.order = append(ps.order, s.Name)
	}
	return ps
}

func (ps *PinSet) ByName(name string) *Pin { return ps.byName[name] }

func (ps *PinSet) All() []*Pin {
	out := make([]*Pin, 0, len(ps.order))
	for _, n := range ps.order {
		out = append(out, ps.byName[n])
	}
	return out
}

// Group returns the pins of the given group name, ordered by GroupIdx
// ascending (0 = LSB). Used to build a Port from e.g. all "D" pins.
func (ps *PinSet) Group(name string) []*Pin {
	var matches []*Pin
	for _, n := range ps.order {
		pin := ps.byName[n]
		if g, ok := pin.GroupName(); ok && g == name {
			matches = append(matches, pin)
		}
	}
	// insertion sort by GroupIdx; groups are small (<=16 pins)
	for i := 1; i < len(matches); i++ {
		j := i
		for j > 0 && matches[j-1].GroupIndex() > matches[j].GroupIndex() {
			matches[j-1], matches[j] = matches[j], matches[j-1]
			j--
		}
	}
	return matches
}

// RangeSpecs generates PinSpecs for a numbered group, e.g. RangeSpecs("A", Input, false, 15)
// produces A0..A14.
func RangeSpecs(group string, dir Direction, triState bool, n int) []PinSpec {
	out := make([]PinSpec, n)
	for i := 0; i < n; i++ {
		out[i] = PinSpec{
			Name:     groupPinName(group, i),
			Group:    group,
			GroupIdx: i,
			Dir:      dir,
			TriState: triState,
		}
	}
	return out
}

func groupPinName(group string, idx int) string {
	return group + itoa(idx)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [8]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	return string(buf[pos:])
}
