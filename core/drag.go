package core

import "github.com/huangsam/leaderboard/schema"

// GestureState is the state of the drag coordinator.
type GestureState int

// Coordinator states.
const (
	Idle GestureState = iota
	Dragging
)

// String returns the state name.
func (s GestureState) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// NormalizeAction is the change a drop makes to the normalization relation.
type NormalizeAction int

// Normalization actions.
const (
	NoDecision NormalizeAction = iota
	SetDivisor
	ClearDivisor
)

// Decision is the normalization change implied by dropping one feature on another.
type Decision struct {
	Action  NormalizeAction
	Target  string // feature whose divisor changes
	Divisor string // dragged feature
}

// NormalizeDecision decides what dropping dragFeature onto targetFeature does
// to the relation. It does not modify n.
func NormalizeDecision(n *Normalization, dragFeature, targetFeature string) Decision {
	none := Decision{Action: NoDecision}
	if dragFeature == targetFeature {
		return none
	}
	if g, ok := n.Divisor(dragFeature); ok && g == targetFeature {
		return none
	}
	g, ok := n.Divisor(targetFeature)
	switch {
	case !ok:
		return Decision{Action: SetDivisor, Target: targetFeature, Divisor: dragFeature}
	case g == dragFeature:
		return Decision{Action: ClearDivisor, Target: targetFeature, Divisor: dragFeature}
	default:
		return none
	}
}

// Resolution is the pure outcome of a drop before it is applied.
type Resolution struct {
	Kind     schema.DropKind
	Decision Decision
}

// ResolveDrop decides between returning home, changing normalization and
// swapping positions. A nil or identical target means no target.
func ResolveDrop(n *Normalization, dragged schema.CardKey, target *schema.CardKey) Resolution {
	if target == nil || *target == dragged {
		return Resolution{Kind: schema.DropNone}
	}
	d := NormalizeDecision(n, dragged.Feature, target.Feature)
	if d.Action != NoDecision {
		return Resolution{Kind: schema.DropNormalize, Decision: d}
	}
	return Resolution{Kind: schema.DropSwap}
}

// SlotFunc returns where the slot of a card is drawn.
type SlotFunc func(schema.CardKey) schema.Position

// Feedback is the advisory state reported while dragging.
type Feedback struct {
	Candidate *schema.CardKey
	Kind      schema.DropKind // what dropping now would do
	Droppable bool            // dropping now would change normalization
	Position  schema.Position // current offset of the dragged card
}

// Outcome is the applied result of a finished gesture.
type Outcome struct {
	Resolution
	Dragged schema.CardKey
	Target  *schema.CardKey
	Moved   map[schema.CardKey]schema.Position
}

// Coordinator runs one drag gesture at a time. It owns the normalization
// relation and the arrangement and is the only writer of both.
type Coordinator struct {
	norm      *Normalization
	arrange   *Arrangement
	slots     SlotFunc
	state     GestureState
	dragged   schema.CardKey
	origin    schema.Position
	delta     schema.Position
	candidate *schema.CardKey
}

// NewCoordinator takes ownership of a relation. slots may be nil, in which
// case every slot is drawn at the origin.
func NewCoordinator(n *Normalization, slots SlotFunc) *Coordinator {
	if n == nil {
		n = NewNormalization(nil)
	}
	if slots == nil {
		slots = func(schema.CardKey) schema.Position { return schema.Position{} }
	}
	return &Coordinator{norm: n, arrange: NewArrangement(), slots: slots}
}

// State returns the current gesture state.
func (c *Coordinator) State() GestureState {
	return c.state
}

// Normalization returns the live relation for read access.
func (c *Coordinator) Normalization() *Normalization {
	return c.norm
}

// Arrangement returns the live arrangement for read access.
func (c *Coordinator) Arrangement() *Arrangement {
	return c.arrange
}

// SetSlots replaces the slot lookup, used after the card set is relaid out.
func (c *Coordinator) SetSlots(slots SlotFunc) {
	if slots != nil {
		c.slots = slots
	}
}

// Start begins a gesture on a card. It returns false while another gesture is active.
func (c *Coordinator) Start(key schema.CardKey) bool {
	if c.state == Dragging {
		return false
	}
	c.state = Dragging
	c.dragged = key
	c.origin = c.arrange.Get(key)
	c.delta = schema.Position{}
	c.candidate = nil
	return true
}

// Move records the pointer delta since Start and the card under the pointer,
// if any. It never mutates the relation.
func (c *Coordinator) Move(delta schema.Position, over *schema.CardKey) Feedback {
	if c.state != Dragging {
		return Feedback{Kind: schema.DropNone}
	}
	c.delta = delta
	c.candidate = nil
	if over != nil && *over != c.dragged {
		k := *over
		c.candidate = &k
	}
	res := ResolveDrop(c.norm, c.dragged, c.candidate)
	return Feedback{
		Candidate: c.candidate,
		Kind:      res.Kind,
		Droppable: res.Kind == schema.DropNormalize,
		Position:  c.origin.Add(c.delta),
	}
}

// End finishes the gesture on the last candidate and applies the result.
func (c *Coordinator) End() Outcome {
	if c.state != Dragging {
		return Outcome{Resolution: Resolution{Kind: schema.DropNone}}
	}
	return c.finish(c.candidate)
}

// Cancel aborts the gesture as if it ended over no card.
func (c *Coordinator) Cancel() Outcome {
	if c.state != Dragging {
		return Outcome{Resolution: Resolution{Kind: schema.DropNone}}
	}
	return c.finish(nil)
}

// Drop runs a whole gesture at once: dragged is released over target.
func (c *Coordinator) Drop(dragged schema.CardKey, target *schema.CardKey) Outcome {
	if !c.Start(dragged) {
		return Outcome{Resolution: Resolution{Kind: schema.DropNone}, Dragged: dragged}
	}
	c.Move(schema.Position{}, target)
	return c.End()
}

func (c *Coordinator) finish(target *schema.CardKey) Outcome {
	dragged := c.dragged
	res := ResolveDrop(c.norm, dragged, target)
	out := Outcome{Resolution: res, Dragged: dragged, Target: target}

	switch res.Kind {
	case schema.DropNormalize:
		switch res.Decision.Action {
		case SetDivisor:
			c.norm.set(res.Decision.Target, res.Decision.Divisor)
		case ClearDivisor:
			c.norm.clear(res.Decision.Target)
		}
		c.arrange.Reset()
	case schema.DropSwap:
		c.arrange.swap(dragged, *target, c.slots(dragged), c.slots(*target))
		out.Moved = map[schema.CardKey]schema.Position{
			dragged: c.arrange.Get(dragged),
			*target: c.arrange.Get(*target),
		}
	default:
		out.Moved = map[schema.CardKey]schema.Position{dragged: c.origin}
	}

	c.state = Idle
	c.candidate = nil
	c.delta = schema.Position{}
	return out
}
