// Package jtd infers JSON Type Definition (RFC 8927) schemas from example
// documents.
//
// An Inferrer folds documents one at a time into an inferred tree, guided by
// Hints that mark enums, maps and tagged unions. The tree can be joined with
// another built from a different set of documents, and emitted as a Schema at
// any point.
package jtd

import (
	"math"

	"github.com/valyala/fastjson"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Option configures an Inferrer.
type Option func(*Inferrer)

// WithStats records, for every path, which documents reached it.
func WithStats() Option {
	return func(in *Inferrer) {
		in.stats = newPathStats()
	}
}

// WithDocumentOffset numbers this Inferrer's documents starting at n, so that
// stats of independently built partitions can be joined.
func WithDocumentOffset(n uint32) Option {
	return func(in *Inferrer) {
		in.offset = n
	}
}

// Inferrer accumulates an inferred schema over a sequence of documents.
// It is not safe for concurrent use.
type Inferrer struct {
	root   *Node
	hints  *Hints
	docs   int
	offset uint32
	stats  *pathStats

	parser fastjson.Parser
	stack  []frame
	path   Path
}

// frame is a pending merge of value into node. depth is the length of the
// node's path and seg its last segment.
type frame struct {
	node  *Node
	value *fastjson.Value
	depth int
	seg   Segment
}

// New returns an Inferrer with nothing observed. A nil hints means no hints.
func New(hints *Hints, opts ...Option) *Inferrer {
	if hints == nil {
		hints = NoHints()
	}
	in := &Inferrer{
		root:  &Node{},
		hints: hints,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Root returns the accumulated tree.
func (in *Inferrer) Root() *Node {
	return in.root
}

// Documents returns the number of documents merged so far.
func (in *Inferrer) Documents() int {
	return in.docs
}

// Hints returns the hints the Inferrer was built with.
func (in *Inferrer) Hints() *Hints {
	return in.hints
}

// Schema emits the schema for everything observed so far.
func (in *Inferrer) Schema() *Schema {
	return Emit(in.root)
}

// InferBytes parses one JSON document and merges it. Parse errors are
// returned unchanged; documents nested deeper than fastjson.MaxDepth (300)
// fail to parse.
func (in *Inferrer) InferBytes(data []byte) error {
	v, err := in.parser.ParseBytes(data)
	if err != nil {
		return err
	}
	return in.Infer(v)
}

// Infer merges one parsed document. A document violating a discriminator hint
// is rejected before anything is merged, leaving the Inferrer unchanged.
func (in *Inferrer) Infer(v *fastjson.Value) error {
	if in.hints.Discriminator.Len() > 0 {
		if err := checkDiscriminators(v, in.hints.Discriminator); err != nil {
			return err
		}
	}
	in.merge(v, in.offset+uint32(in.docs))
	in.docs++
	return nil
}

func (in *Inferrer) push(n *Node, v *fastjson.Value, depth int, seg Segment) {
	in.stack = append(in.stack, frame{node: n, value: v, depth: depth, seg: seg})
}

func (in *Inferrer) merge(v *fastjson.Value, doc uint32) {
	in.stack = append(in.stack[:0], frame{node: in.root, value: v})
	for len(in.stack) > 0 {
		f := in.stack[len(in.stack)-1]
		in.stack = in.stack[:len(in.stack)-1]

		// Frames are handled depth-first, so the first depth-1 segments of
		// the current path still belong to this frame's ancestors.
		in.path = in.path[:max(f.depth-1, 0)]
		if f.depth > 0 {
			in.path = append(in.path, f.seg)
		}
		if in.stats != nil {
			in.stats.record(in.path, doc)
		}
		in.visit(f.node, f.value, f.depth)
	}
}

func (in *Inferrer) visit(n *Node, v *fastjson.Value, depth int) {
	if v.Type() == fastjson.TypeNull {
		n.Nullable = true
		return
	}
	if n.Kind == KindAny {
		return
	}

	switch v.Type() {
	case fastjson.TypeTrue, fastjson.TypeFalse:
		switch n.Kind {
		case KindUnknown:
			n.Kind = KindBool
		case KindBool:
		default:
			n.collapse()
		}

	case fastjson.TypeNumber:
		f, err := v.Float64()
		if err != nil {
			f = math.MaxFloat64
		}
		switch n.Kind {
		case KindUnknown:
			n.Kind = KindNumber
			n.Number = newNumber(f, in.hints.DefaultNumType)
		case KindNumber:
			n.Number.observe(f, in.hints.DefaultNumType)
		default:
			n.collapse()
		}

	case fastjson.TypeString:
		s := string(v.GetStringBytes())
		switch n.Kind {
		case KindUnknown:
			if in.hints.Enum.Match(in.path) {
				n.Kind = KindEnum
				n.Enum = map[string]struct{}{s: {}}
			} else {
				n.Kind = KindString
			}
		case KindEnum:
			n.Enum[s] = struct{}{}
		case KindString:
		default:
			n.collapse()
		}

	case fastjson.TypeArray:
		if n.Kind == KindUnknown {
			n.Kind = KindArray
			n.Element = &Node{}
		}
		if n.Kind != KindArray {
			n.collapse()
			return
		}
		for i, elem := range v.GetArray() {
			in.push(n.Element, elem, depth+1, Segment{Index: i, IsIndex: true})
		}

	case fastjson.TypeObject:
		in.visitObject(n, v.GetObject(), depth)
	}
}

func (in *Inferrer) visitObject(n *Node, o *fastjson.Object, depth int) {
	fresh := n.Kind == KindUnknown
	if fresh {
		if tag, ok := in.hints.Discriminator.Peek(in.path); ok {
			n.Kind = KindDiscriminator
			n.Tag = tag
			n.Mapping = orderedmap.New[string, *Node]()
		} else if in.hints.Values.Match(in.path) {
			n.Kind = KindValues
			n.Values = &Node{}
		} else {
			n.Kind = KindStruct
			n.Properties = orderedmap.New[string, *Property]()
		}
	}

	switch n.Kind {
	case KindStruct:
		in.mergeStruct(n, o, depth, fresh, "", false)

	case KindValues:
		o.Visit(func(key []byte, v *fastjson.Value) {
			in.push(n.Values, v, depth+1, Segment{Key: string(key)})
		})

	case KindDiscriminator:
		tag := o.Get(n.Tag)
		if tag == nil || tag.Type() != fastjson.TypeString {
			n.collapse()
			return
		}
		value := string(tag.GetStringBytes())
		branch, ok := n.Mapping.Get(value)
		if !ok {
			branch = newStruct()
			n.Mapping.Set(value, branch)
		}
		in.mergeStruct(branch, o, depth, !ok, n.Tag, true)

	default:
		n.collapse()
	}
}

// mergeStruct merges an object's fields into a struct node. Fields of a
// freshly created struct start out required; fields first seen later do not.
func (in *Inferrer) mergeStruct(n *Node, o *fastjson.Object, depth int, fresh bool, skip string, skipping bool) {
	if !fresh {
		for pair := n.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if o.Get(pair.Key) == nil {
				pair.Value.Required = false
			}
		}
	}

	o.Visit(func(k []byte, v *fastjson.Value) {
		key := string(k)
		if skipping && key == skip {
			return
		}
		p, ok := n.Properties.Get(key)
		if !ok {
			p = &Property{Node: &Node{}, Required: fresh}
			n.Properties.Set(key, p)
		}
		in.push(p.Node, v, depth+1, Segment{Key: key})
	})
}

// checkDiscriminators walks a document and verifies that every object at a
// discriminator-hinted path carries its tag as a string.
func checkDiscriminators(root *fastjson.Value, hints *HintSet) error {
	type item struct {
		value *fastjson.Value
		depth int
		seg   Segment
	}

	var path Path
	stack := []item{{value: root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		path = path[:max(it.depth-1, 0)]
		if it.depth > 0 {
			path = append(path, it.seg)
		}

		switch it.value.Type() {
		case fastjson.TypeArray:
			for i, elem := range it.value.GetArray() {
				stack = append(stack, item{value: elem, depth: it.depth + 1, seg: Segment{Index: i, IsIndex: true}})
			}

		case fastjson.TypeObject:
			o := it.value.GetObject()
			if tag, ok := hints.Peek(path); ok {
				v := o.Get(tag)
				switch {
				case v == nil:
					return &DiscriminatorError{Pointer: path.String(), Tag: tag, Reason: "is missing"}
				case v.Type() != fastjson.TypeString:
					return &DiscriminatorError{Pointer: path.String(), Tag: tag, Reason: "is " + v.Type().String() + ", not a string"}
				}
			}
			o.Visit(func(key []byte, v *fastjson.Value) {
				stack = append(stack, item{value: v, depth: it.depth + 1, seg: Segment{Key: string(key)}})
			})
		}
	}
	return nil
}
