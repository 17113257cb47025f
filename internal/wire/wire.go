package wire

// Package wire holds the JSON plumbing shared by the public packages. It is
// backed by goccy/go-json.

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	j "github.com/goccy/go-json"
)

// ErrTrailingData reports bytes after the first JSON value.
var ErrTrailingData = errors.New("wire: trailing data after JSON value")

// Marshal encodes v.
func Marshal(v any) ([]byte, error) { return j.Marshal(v) }

// MarshalIndent encodes v with two-space indentation.
func MarshalIndent(v any) ([]byte, error) { return j.MarshalIndent(v, "", "  ") }

// Unmarshal decodes data into v.
func Unmarshal(data []byte, v any) error { return j.Unmarshal(data, v) }

// Decode parses exactly one JSON value into a generic tree of map[string]any,
// []any and scalars. With useNumber, numbers stay as json.Number text.
func Decode(data []byte, useNumber bool) (any, error) {
	return DecodeReader(bytes.NewReader(data), useNumber)
}

// DecodeReader is Decode over an io.Reader.
func DecodeReader(r io.Reader, useNumber bool) (any, error) {
	dec := j.NewDecoder(r)
	if useNumber {
		dec.UseNumber()
	}
	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("wire: empty input: %w", err)
		}
		return nil, err
	}
	if dec.More() {
		return nil, ErrTrailingData
	}
	return v, nil
}
