package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOutputSchema_panicsOnNilSlice(t *testing.T) {
	type BadOutput struct {
		Items []string `json:"items"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_bad_tool")
	})
}

func TestCheckOutputSchema_okWithOmitzero(t *testing.T) {
	type GoodOutput struct {
		Items []string `json:"items,omitzero"`
	}
	assert.NotPanics(t, func() {
		CheckOutputSchema[GoodOutput]("test_good_tool")
	})
}

func TestCheckOutputSchema_okWithAny(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[any]("test_any_tool")
	})
}

func TestCheckOutputSchema_panicsOnRawMessage(t *testing.T) {
	type BadOutput struct {
		Data json.RawMessage `json:"data,omitempty"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_raw_message")
	})
}

func TestCheckOutputSchema_panicsOnNestedRawMessage(t *testing.T) {
	type Inner struct {
		Schema []json.RawMessage `json:"schema,omitempty"`
	}
	type BadOutput struct {
		Nested *Inner `json:"nested,omitempty"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[BadOutput]("test_nested_raw_message")
	})
}

func TestCheckOutputSchema_builtinOutputs(t *testing.T) {
	assert.NotPanics(t, func() {
		CheckOutputSchema[InferOutput]("jtd_infer")
	})
	assert.NotPanics(t, func() {
		CheckOutputSchema[ParseHintOutput]("jtd_parse_hint")
	})
}
