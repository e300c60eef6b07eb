package domain

import (
	"bytes"
	"encoding/json"
	"io"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

// Payload is an untrusted request body. Numbers are kept as json.Number so
// their decimal text is never rounded through float64.
type Payload map[string]any

// Field is a single payload entry. Present distinguishes an omitted key from
// an explicit null (Present with a nil Value).
type Field struct {
	Value   any
	Present bool
}

func (f Field) IsNull() bool {
	return f.Present && f.Value == nil
}

func (p Payload) Field(key string) Field {
	v, ok := p[key]
	return Field{Value: v, Present: ok}
}

func (p Payload) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// DecodePayload reads a JSON object. Anything else (arrays, scalars, broken
// JSON, trailing data) is rejected as an invalid request body.
func DecodePayload(r io.Reader) (Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, financeErrors.ErrInvalidRequest
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, financeErrors.ErrInvalidRequest
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, financeErrors.ErrInvalidRequest
	}
	if dec.More() {
		return nil, financeErrors.ErrInvalidRequest
	}
	if payload == nil {
		payload = Payload{}
	}
	return payload, nil
}
