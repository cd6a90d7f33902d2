package jtd

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind is the variant of an inferred node.
type Kind uint8

const (
	KindUnknown Kind = iota // nothing observed yet
	KindAny                 // irreconcilable observations; accepts anything
	KindBool
	KindString
	KindEnum
	KindNumber
	KindArray
	KindStruct
	KindValues
	KindDiscriminator
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindAny:           "any",
	KindBool:          "bool",
	KindString:        "string",
	KindEnum:          "enum",
	KindNumber:        "number",
	KindArray:         "array",
	KindStruct:        "struct",
	KindValues:        "values",
	KindDiscriminator: "discriminator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Node is the best schema known so far for one position in the data. Only the
// fields belonging to Kind are set.
type Node struct {
	Kind     Kind
	Nullable bool

	Number     *Number                                   // KindNumber
	Enum       map[string]struct{}                       // KindEnum
	Element    *Node                                     // KindArray
	Properties *orderedmap.OrderedMap[string, *Property] // KindStruct
	Values     *Node                                     // KindValues
	Tag        string                                    // KindDiscriminator
	Mapping    *orderedmap.OrderedMap[string, *Node]     // KindDiscriminator, each a KindStruct
}

// Property is a struct field. Required holds only while the field has been
// present in every object merged at this path.
type Property struct {
	Node     *Node
	Required bool
}

func newStruct() *Node {
	return &Node{Kind: KindStruct, Properties: orderedmap.New[string, *Property]()}
}

// collapse turns the node into Any, dropping everything it had committed to.
func (n *Node) collapse() {
	*n = Node{Kind: KindAny, Nullable: n.Nullable}
}

// EnumMembers returns the enum members in ascending order.
func (n *Node) EnumMembers() []string {
	members := make([]string, 0, len(n.Enum))
	for m := range n.Enum {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

// Property returns the named struct field.
func (n *Node) Property(name string) (*Property, bool) {
	if n.Properties == nil {
		return nil, false
	}
	return n.Properties.Get(name)
}

// Branch returns the discriminator branch for a tag value.
func (n *Node) Branch(tag string) (*Node, bool) {
	if n.Mapping == nil {
		return nil, false
	}
	return n.Mapping.Get(tag)
}
