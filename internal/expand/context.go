package expand

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind selects the adjacency used to grow a selection.
type Kind int

const (
	KindAtom Kind = iota
	KindIn
	KindOut
	KindBoth
	KindInTree
	KindOutTree
)

var kindNames = map[Kind]string{
	KindAtom:    "atom",
	KindIn:      "in",
	KindOut:     "out",
	KindBoth:    "both",
	KindInTree:  "in-tree",
	KindOutTree: "out-tree",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// bounded reports whether the kind runs a fixed number of hops.
func (k Kind) bounded() bool {
	return k == KindIn || k == KindOut || k == KindBoth
}

// Context is a context-expansion policy. For bounded kinds Hops is the
// number of one-hop rounds; zero hops is the identity. Tree kinds run to a
// fixpoint and ignore Hops.
type Context struct {
	Kind Kind
	Hops int
}

// Identity leaves the selection unchanged.
var Identity = Context{Kind: KindAtom}

// InTree follows incoming references until nothing new is reached.
var InTree = Context{Kind: KindInTree}

// OutTree follows outgoing references until nothing new is reached.
var OutTree = Context{Kind: KindOutTree}

// Subgraph pulls in everything an atom references, down to the leaves.
var Subgraph = OutTree

// In adds atoms that reference a member, n times.
func In(n int) Context { return Context{Kind: KindIn, Hops: n} }

// Out adds atoms referenced by a member, n times.
func Out(n int) Context { return Context{Kind: KindOut, Hops: n} }

// Both adds incoming and outgoing neighbors, n times.
func Both(n int) Context { return Context{Kind: KindBoth, Hops: n} }

// Validate checks that the context is in its domain.
func (c Context) Validate() error {
	if _, ok := kindNames[c.Kind]; !ok {
		return &InvalidContextError{Context: c.String(), Err: ErrUnknownContext}
	}
	if c.Hops < 0 {
		return &InvalidContextError{Context: c.String(), Err: ErrNegativeHops}
	}
	return nil
}

func (c Context) String() string {
	if c.Kind.bounded() && c.Hops != 1 {
		return fmt.Sprintf("%s:%d", c.Kind, c.Hops)
	}
	return c.Kind.String()
}

// ParseContext parses a context policy. Accepted forms are "atom", "in",
// "out", "both" (or "in_out"), "in-tree", "out-tree", "subgraph", a bounded
// kind with a hop count such as "in:2", and the tuple form "('in', 2)".
// Bounded kinds without a count default to one hop.
func ParseContext(s string) (Context, error) {
	raw := s
	s = strings.TrimSpace(strings.ToLower(s))

	name, hops, hasHops, err := splitHops(s)
	if err != nil {
		return Context{}, &InvalidContextError{Context: raw, Err: err}
	}

	var kind Kind
	switch name {
	case "atom", "":
		kind = KindAtom
	case "in":
		kind = KindIn
	case "out":
		kind = KindOut
	case "both", "in_out", "in-out", "inout":
		kind = KindBoth
	case "in-tree", "in_tree":
		kind = KindInTree
	case "out-tree", "out_tree", "subgraph":
		kind = KindOutTree
	default:
		return Context{}, &InvalidContextError{Context: raw, Err: ErrUnknownContext}
	}

	if !hasHops {
		if kind.bounded() {
			hops = 1
		}
		return Context{Kind: kind, Hops: hops}, nil
	}
	if !kind.bounded() {
		return Context{}, &InvalidContextError{Context: raw, Err: ErrHopsNotSupported}
	}
	if hops < 0 {
		return Context{}, &InvalidContextError{Context: raw, Err: ErrNegativeHops}
	}
	return Context{Kind: kind, Hops: hops}, nil
}

// splitHops separates "in:2" or "('in', 2)" into its name and count.
func splitHops(s string) (name string, hops int, hasHops bool, err error) {
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		inner := strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
		parts := strings.Split(inner, ",")
		if len(parts) != 2 {
			return "", 0, false, fmt.Errorf("tuple context needs exactly two elements")
		}
		name = strings.Trim(strings.TrimSpace(parts[0]), `'"`)
		hops, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return "", 0, false, fmt.Errorf("parsing hop count: %w", err)
		}
		return name, hops, true, nil
	}

	if i := strings.LastIndex(s, ":"); i >= 0 {
		hops, err = strconv.Atoi(strings.TrimSpace(s[i+1:]))
		if err != nil {
			return "", 0, false, fmt.Errorf("parsing hop count: %w", err)
		}
		return strings.TrimSpace(s[:i]), hops, true, nil
	}
	return s, 0, false, nil
}

// Mode decides whether the expanded selection is kept or removed from the
// candidate universe.
type Mode int

const (
	Include Mode = iota
	Exclude
)

func (m Mode) String() string {
	switch m {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode parses "include" or "exclude". An empty string is Include.
func ParseMode(s string) (Mode, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "include":
		return Include, nil
	case "exclude":
		return Exclude, nil
	default:
		return Include, fmt.Errorf("%w %q: must be include or exclude", ErrUnknownMode, s)
	}
}
