package jtd

// Join folds src into dst as if every document merged into src had been
// merged into dst, and returns dst. Both trees must describe the same path
// and have been built with the same hints. src is consumed: parts of it are
// moved into dst and it must not be used afterwards.
func Join(dst, src *Node, def NumType) *Node {
	type pair struct{ dst, src *Node }

	stack := []pair{{dst, src}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		d, s := p.dst, p.src

		d.Nullable = d.Nullable || s.Nullable
		switch {
		case d.Kind == KindAny, s.Kind == KindUnknown:
			continue
		case s.Kind == KindAny:
			d.collapse()
			continue
		case d.Kind == KindUnknown:
			nullable := d.Nullable
			*d = *s
			d.Nullable = nullable
			continue
		case d.Kind != s.Kind:
			d.collapse()
			continue
		}

		switch d.Kind {
		case KindNumber:
			d.Number.join(s.Number, def)

		case KindEnum:
			for m := range s.Enum {
				d.Enum[m] = struct{}{}
			}

		case KindArray:
			stack = append(stack, pair{d.Element, s.Element})

		case KindValues:
			stack = append(stack, pair{d.Values, s.Values})

		case KindStruct:
			for pp := d.Properties.Oldest(); pp != nil; pp = pp.Next() {
				if _, ok := s.Properties.Get(pp.Key); !ok {
					pp.Value.Required = false
				}
			}
			for sp := s.Properties.Oldest(); sp != nil; sp = sp.Next() {
				dp, ok := d.Properties.Get(sp.Key)
				if !ok {
					sp.Value.Required = false
					d.Properties.Set(sp.Key, sp.Value)
					continue
				}
				dp.Required = dp.Required && sp.Value.Required
				stack = append(stack, pair{dp.Node, sp.Value.Node})
			}

		case KindDiscriminator:
			if d.Tag != s.Tag {
				d.collapse()
				continue
			}
			for sb := s.Mapping.Oldest(); sb != nil; sb = sb.Next() {
				db, ok := d.Mapping.Get(sb.Key)
				if !ok {
					d.Mapping.Set(sb.Key, sb.Value)
					continue
				}
				stack = append(stack, pair{db, sb.Value})
			}
		}
	}
	return dst
}

// Join folds other's observations into in. other must have been built with
// the same hints and is consumed.
func (in *Inferrer) Join(other *Inferrer) {
	Join(in.root, other.root, in.hints.DefaultNumType)
	in.docs += other.docs
	if in.stats != nil && other.stats != nil {
		in.stats.join(other.stats)
	}
}
