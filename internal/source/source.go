// Package source splits raw input into the JSON documents inference consumes.
package source

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json" // concatenated or newline-delimited JSON values
	FormatYAML Format = "yaml" // one or more "---"-separated YAML documents
)

var (
	// ErrNoDocuments is returned when the input holds no documents at all.
	ErrNoDocuments = errors.New("no documents in input")
	// ErrUnknownFormat is returned for an unsupported input format name.
	ErrUnknownFormat = errors.New("unknown input format")
)

// ParseFormat maps a user-supplied name to a Format. "ndjson" and "jsonl"
// are accepted as JSON, "yml" as YAML. The empty string means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json", "ndjson", "jsonl":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Decode reads every document from r. JSON documents are returned verbatim;
// YAML documents are re-encoded as JSON with mapping order preserved.
func Decode(r io.Reader, format Format) ([][]byte, error) {
	var (
		docs [][]byte
		err  error
	)
	switch format {
	case FormatJSON, "":
		docs, err = decodeJSON(r)
	case FormatYAML:
		docs, err = decodeYAML(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs, nil
}

func decodeJSON(r io.Reader) ([][]byte, error) {
	dec := json.NewDecoder(r)
	var docs [][]byte
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("document %d: %w", len(docs), err)
		}
		docs = append(docs, []byte(raw))
	}
}

func decodeYAML(r io.Reader) ([][]byte, error) {
	dec := yaml.NewDecoder(r)
	var docs [][]byte
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("document %d: %w", len(docs), err)
		}
		var buf bytes.Buffer
		if err := writeNode(&buf, &node); err != nil {
			return nil, fmt.Errorf("document %d: %w", len(docs), err)
		}
		docs = append(docs, buf.Bytes())
	}
}

// writeNode encodes a YAML node tree as JSON.
func writeNode(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNode(buf, n.Content[0])

	case yaml.AliasNode:
		return writeNode(buf, n.Alias)

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNode(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(b)
		return nil
	}
	return fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}
