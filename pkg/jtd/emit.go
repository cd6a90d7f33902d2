package jtd

import orderedmap "github.com/wk8/go-ordered-map/v2"

// Emit converts an inferred tree into its canonical schema. Unknown nodes,
// including paths where only null was seen, become the empty form.
func Emit(root *Node) *Schema {
	type item struct {
		node *Node
		out  *Schema
	}

	out := &Schema{}
	stack := []item{{root, out}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, s := it.node, it.out

		switch n.Kind {
		case KindUnknown, KindAny:
			continue
		case KindBool:
			s.Type = TypeBoolean
		case KindString:
			s.Type = TypeString
		case KindNumber:
			s.Type = n.Number.Kind.String()
		case KindEnum:
			s.Enum = n.EnumMembers()

		case KindArray:
			s.Elements = &Schema{}
			stack = append(stack, item{n.Element, s.Elements})

		case KindValues:
			s.Values = &Schema{}
			stack = append(stack, item{n.Values, s.Values})

		case KindStruct:
			for p := n.Properties.Oldest(); p != nil; p = p.Next() {
				child := &Schema{}
				if p.Value.Required {
					if s.Properties == nil {
						s.Properties = orderedmap.New[string, *Schema]()
					}
					s.Properties.Set(p.Key, child)
				} else {
					if s.OptionalProperties == nil {
						s.OptionalProperties = orderedmap.New[string, *Schema]()
					}
					s.OptionalProperties.Set(p.Key, child)
				}
				stack = append(stack, item{p.Value.Node, child})
			}
			if s.Properties == nil && s.OptionalProperties == nil {
				s.Properties = orderedmap.New[string, *Schema]()
			}

		case KindDiscriminator:
			s.Discriminator = n.Tag
			s.Mapping = orderedmap.New[string, *Schema]()
			for b := n.Mapping.Oldest(); b != nil; b = b.Next() {
				child := &Schema{}
				s.Mapping.Set(b.Key, child)
				stack = append(stack, item{b.Value, child})
			}
		}
		s.Nullable = n.Nullable
	}
	return out
}
