package port

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Ref identifies a port by its owning node and port name.
type Ref struct {
	Node string
	Port string
}

func (r Ref) String() string {
	return r.Node + "." + r.Port
}

// Input is the consumer handle of a channel.
type Input struct {
	ref       Ref
	typ       cty.Type
	buf       []cty.Value
	requested int
	upstream  *Output
	notify    func()
}

// NewInput creates a disconnected input. notify, if non-nil, is called every
// time a value is delivered into the buffer.
func NewInput(ref Ref, typ cty.Type, notify func()) *Input {
	return &Input{ref: ref, typ: typ, notify: notify}
}

// Ref returns the owning node and port name.
func (in *Input) Ref() Ref { return in.ref }

// Type returns the element type accepted by this input.
func (in *Input) Type() cty.Type { return in.typ }

// Upstream returns the output feeding this input, or nil.
func (in *Input) Upstream() *Output { return in.upstream }

// Connected reports whether a producer has been linked.
func (in *Input) Connected() bool { return in.upstream != nil }

// Remaining returns the number of buffered values.
func (in *Input) Remaining() int { return len(in.buf) }

// Requested returns the outstanding demand.
func (in *Input) Requested() int { return in.requested }

// RequestUpTo raises the outstanding demand so that n values will eventually
// be available, counting those already buffered.
func (in *Input) RequestUpTo(n int) {
	if want := n - len(in.buf); want > in.requested {
		in.requested = want
	}
}

// Pop removes and returns the oldest buffered value.
func (in *Input) Pop() (cty.Value, error) {
	if len(in.buf) == 0 {
		return cty.NilVal, fmt.Errorf("pop %s: %w", in.ref, ErrEmptyBuffer)
	}
	v := in.buf[0]
	in.buf[0] = cty.NilVal
	in.buf = in.buf[1:]
	return v, nil
}

func (in *Input) deliver(v cty.Value) {
	if in.requested > 0 {
		in.requested--
	}
	in.buf = append(in.buf, v)
	if in.notify != nil {
		in.notify()
	}
}

func (in *Input) String() string {
	from := "none"
	if in.upstream != nil {
		from = in.upstream.ref.String()
	}
	return fmt.Sprintf("requested=%d buffered=%d from=%s", in.requested, len(in.buf), from)
}

// Output is the producer handle of a channel.
type Output struct {
	ref       Ref
	typ       cty.Type
	requested int
	consumers []*Input
	notify    func()
}

// NewOutput creates an output with no consumers. notify, if non-nil, is
// called whenever the outstanding demand rises.
func NewOutput(ref Ref, typ cty.Type, notify func()) *Output {
	return &Output{ref: ref, typ: typ, notify: notify}
}

// Ref returns the owning node and port name.
func (o *Output) Ref() Ref { return o.ref }

// Type returns the element type produced by this output.
func (o *Output) Type() cty.Type { return o.typ }

// Requested returns the outstanding demand.
func (o *Output) Requested() int { return o.requested }

// Consumers returns the inputs this output fans out to.
func (o *Output) Consumers() []*Input {
	return append([]*Input(nil), o.consumers...)
}

// DownstreamDemand returns the largest outstanding demand among the
// consumers.
func (o *Output) DownstreamDemand() int {
	most := 0
	for _, in := range o.consumers {
		if in.requested > most {
			most = in.requested
		}
	}
	return most
}

// RequestUpTo raises the outstanding demand to n. Outputs hold no buffer of
// their own, so nothing is subtracted.
func (o *Output) RequestUpTo(n int) {
	if n > o.requested {
		o.requested = n
		if o.notify != nil {
			o.notify()
		}
	}
}

// Push sends v to every consumer and lowers the outstanding demand by one.
func (o *Output) Push(v cty.Value) error {
	if errs := v.Type().TestConformance(o.typ); len(errs) > 0 {
		return fmt.Errorf("push %s: %w: got %s, want %s", o.ref, ErrTypeMismatch,
			v.Type().FriendlyName(), o.typ.FriendlyNameForConstraint())
	}
	if o.requested > 0 {
		o.requested--
	}
	for _, in := range o.consumers {
		in.deliver(v)
	}
	return nil
}

func (o *Output) String() string {
	to := make([]string, len(o.consumers))
	for i, in := range o.consumers {
		to[i] = in.ref.String()
	}
	return fmt.Sprintf("requested=%d to=[%s]", o.requested, strings.Join(to, ", "))
}

// Assignable reports whether values of type from may flow into an input of
// type to.
func Assignable(from, to cty.Type) error {
	if errs := from.TestConformance(to); len(errs) > 0 {
		return fmt.Errorf("%w: %s is not assignable to %s", ErrTypeMismatch,
			from.FriendlyName(), to.FriendlyNameForConstraint())
	}
	return nil
}

// Link wires out to in. Nothing is modified when an error is returned.
func Link(out *Output, in *Input) error {
	if err := Assignable(out.typ, in.typ); err != nil {
		return fmt.Errorf("link %s -> %s: %w", out.ref, in.ref, err)
	}
	if in.upstream != nil {
		return fmt.Errorf("link %s -> %s: %w (fed by %s)", out.ref, in.ref, ErrAlreadyConnected, in.upstream.ref)
	}
	in.upstream = out
	out.consumers = append(out.consumers, in)
	return nil
}
