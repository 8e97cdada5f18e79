// Package operation parses the POST /bfhl payload into a tagged union with
// one variant per supported operation.
package operation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/okian/bfhl/internal/domain/numeric"
)

// Kind discriminates the operation carried by a Request.
type Kind int

// Supported operations. The zero value is never produced by Parse.
const (
	KindUnknown Kind = iota
	KindFibonacci
	KindPrime
	KindLCM
	KindHCF
	KindAI
)

// Request keys as they appear on the wire.
const (
	KeyFibonacci = "fibonacci"
	KeyPrime     = "prime"
	KeyLCM       = "lcm"
	KeyHCF       = "hcf"
	KeyAI        = "AI"
)

var kindByKey = map[string]Kind{
	KeyFibonacci: KindFibonacci,
	KeyPrime:     KindPrime,
	KeyLCM:       KindLCM,
	KeyHCF:       KindHCF,
	KeyAI:        KindAI,
}

// String returns the wire key of k, used as a metrics and log label.
func (k Kind) String() string {
	switch k {
	case KindFibonacci:
		return KeyFibonacci
	case KindPrime:
		return KeyPrime
	case KindLCM:
		return KeyLCM
	case KindHCF:
		return KeyHCF
	case KindAI:
		return KeyAI
	default:
		return "unknown"
	}
}

// Request is a validated operation. Only the field matching Kind is set:
//
//	KindFibonacci -> N
//	KindPrime     -> Candidates (numeric elements only)
//	KindLCM/HCF   -> Numbers (non-empty, finite)
//	KindAI        -> Prompt (non-empty)
type Request struct {
	Kind       Kind
	N          int
	Candidates []float64
	Numbers    []float64
	Prompt     string
}

// Parse decodes body and validates the shape of its single operation.
// An empty body counts as an object with no keys.
func Parse(body []byte) (Request, error) {
	const op = "operation.parse"

	if len(bytes.TrimSpace(body)) == 0 {
		return Request{}, fmt.Errorf("%s: %w", op, ErrOperationCount)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Request{}, Invalid(op, err)
	}
	if fields == nil {
		// literal null
		return Request{}, Invalid(op, errors.New("body is not an object"))
	}
	if len(fields) != 1 {
		return Request{}, fmt.Errorf("%s: %d keys: %w", op, len(fields), ErrOperationCount)
	}

	var key string
	for k := range fields {
		key = k
	}
	raw := fields[key]

	kind, ok := kindByKey[key]
	if !ok {
		return Request{}, Invalid(op, fmt.Errorf("unknown operation %q", key))
	}

	req := Request{Kind: kind}
	var err error
	switch kind {
	case KindFibonacci:
		req.N, err = parseCount(raw)
	case KindPrime:
		req.Candidates, err = parseCandidates(raw)
	case KindLCM, KindHCF:
		req.Numbers, err = parseNumbers(raw)
	case KindAI:
		req.Prompt, err = parsePrompt(raw)
	}
	if err != nil {
		return Request{}, Invalid(op+"."+key, err)
	}
	return req, nil
}

// parseNumber decodes a JSON number token as float64, as a browser would.
// ok is false for any other JSON type.
func parseNumber(raw json.RawMessage) (f float64, ok bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	num, isNum := v.(json.Number)
	if !isNum {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(num), 64)
	if err != nil {
		// out of float64 range: keep the infinity, which is never an integer
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func parseCount(raw json.RawMessage) (int, error) {
	f, ok := parseNumber(raw)
	if !ok {
		return 0, errors.New("fibonacci must be a number")
	}
	if !numeric.IsInteger(f) || f <= 0 {
		return 0, fmt.Errorf("fibonacci must be a positive integer, got %v", f)
	}
	if f > math.MaxInt32 {
		return 0, fmt.Errorf("fibonacci count %v is too large", f)
	}
	return int(f), nil
}

func parseCandidates(raw json.RawMessage) ([]float64, error) {
	var elems []json.RawMessage
	if err := decodeArray(raw, &elems); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(elems))
	for _, e := range elems {
		if f, ok := parseNumber(e); ok {
			out = append(out, f)
		}
	}
	return out, nil
}

func parseNumbers(raw json.RawMessage) ([]float64, error) {
	var elems []json.RawMessage
	if err := decodeArray(raw, &elems); err != nil {
		return nil, err
	}
	if len(elems) == 0 {
		return nil, numeric.ErrEmptyInput
	}
	out := make([]float64, 0, len(elems))
	for i, e := range elems {
		f, ok := parseNumber(e)
		if !ok {
			return nil, fmt.Errorf("element %d is not a number", i)
		}
		if math.IsInf(f, 0) {
			return nil, fmt.Errorf("element %d is out of range", i)
		}
		out = append(out, f)
	}
	return out, nil
}

func parsePrompt(raw json.RawMessage) (string, error) {
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil || s == nil {
		return "", errors.New("AI must be a string")
	}
	if *s == "" {
		return "", errors.New("AI prompt is empty")
	}
	return *s, nil
}

// decodeArray rejects null and every non-array value.
func decodeArray(raw json.RawMessage, dst *[]json.RawMessage) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.New("value must be an array")
	}
	if *dst == nil {
		return errors.New("value must be an array")
	}
	return nil
}
