package schema

import (
	"fmt"

	"github.com/valyala/fastjson"
)

// PreviewOptions bounds the size of a document preview.
type PreviewOptions struct {
	MaxArrayItems int // Keep the first N array items (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N bytes (0 = no limit)
	MaxDepth      int // Replace values nested deeper than N (0 = unlimited)
}

// Default preview limits.
const (
	DefaultPreviewArrayItems = 3
	DefaultPreviewStringLen  = 80
	DefaultPreviewDepth      = 8
)

// DefaultPreviewOptions returns the limits used for verification failures.
func DefaultPreviewOptions() *PreviewOptions {
	return &PreviewOptions{
		MaxArrayItems: DefaultPreviewArrayItems,
		MaxStringLen:  DefaultPreviewStringLen,
		MaxDepth:      DefaultPreviewDepth,
	}
}

// Preview renders data as compact JSON with long arrays and strings trimmed.
// Object key order is kept. If opts is nil, DefaultPreviewOptions() is used.
func Preview(data []byte, opts *PreviewOptions) (string, error) {
	if opts == nil {
		opts = DefaultPreviewOptions()
	}

	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	var a fastjson.Arena
	return string(trim(&a, v, opts, 0).MarshalTo(nil)), nil
}

func trim(a *fastjson.Arena, v *fastjson.Value, opts *PreviewOptions, depth int) *fastjson.Value {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		switch v.Type() {
		case fastjson.TypeArray, fastjson.TypeObject:
			return a.NewString("[max depth]")
		}
	}

	switch v.Type() {
	case fastjson.TypeString:
		s := string(v.GetStringBytes())
		if opts.MaxStringLen > 0 && len(s) > opts.MaxStringLen {
			s = fmt.Sprintf("%s... (%d more chars)", s[:opts.MaxStringLen], len(s)-opts.MaxStringLen)
		}
		return a.NewString(s)

	case fastjson.TypeArray:
		items := v.GetArray()
		out := a.NewArray()
		n := len(items)
		if opts.MaxArrayItems > 0 && n > opts.MaxArrayItems {
			n = opts.MaxArrayItems
		}
		for i := 0; i < n; i++ {
			out.SetArrayItem(i, trim(a, items[i], opts, depth+1))
		}
		if n < len(items) {
			out.SetArrayItem(n, a.NewString(fmt.Sprintf("... (%d more items)", len(items)-n)))
		}
		return out

	case fastjson.TypeObject:
		out := a.NewObject()
		v.GetObject().Visit(func(key []byte, child *fastjson.Value) {
			out.Set(string(key), trim(a, child, opts, depth+1))
		})
		return out

	default:
		return v
	}
}
