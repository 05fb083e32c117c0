package main

import (
	"encoding/json"
	"fmt"

	"github.com/hashberg-io/dag-cbor/dagcbor"
)

// jsonToValue converts a generic JSON document into a dagcbor.Value,
// dispatching atom-by-atom on the decoded Go type.
func jsonToValue(raw []byte) (dagcbor.Value, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return dagcbor.Value{}, fmt.Errorf("parsing JSON: %w", err)
	}
	return anyToValue(doc)
}

func anyToValue(v any) (dagcbor.Value, error) {
	switch x := v.(type) {
	case nil:
		return dagcbor.Null(), nil
	case bool:
		return dagcbor.Bool(x), nil
	case string:
		return dagcbor.String(x), nil
	case float64:
		return jsonNumberToValue(x)
	case []any:
		items := make([]dagcbor.Value, len(x))
		for i, elem := range x {
			item, err := anyToValue(elem)
			if err != nil {
				return dagcbor.Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = item
		}
		return dagcbor.List(items), nil
	case map[string]any:
		entries := make([]dagcbor.MapEntry, 0, len(x))
		for k, elem := range x {
			val, err := anyToValue(elem)
			if err != nil {
				return dagcbor.Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			entries = append(entries, dagcbor.MapEntry{Key: k, Value: val})
		}
		return dagcbor.Map(entries), nil
	default:
		return dagcbor.Value{}, fmt.Errorf("unsupported JSON value of type %T", v)
	}
}

// jsonNumberToValue: JSON has no integer/float distinction, so a number
// with an integral value that int64 can hold round-trips as dagcbor's Int,
// and anything else becomes a Float.
func jsonNumberToValue(f float64) (dagcbor.Value, error) {
	if f == float64(int64(f)) {
		return dagcbor.Int(int64(f)), nil
	}
	return dagcbor.Float(f), nil
}

// valueToJSON renders a decoded Value back to a generic JSON-compatible
// structure for display. Bytes and links, which have no native JSON form,
// are rendered as tagged objects rather than silently dropped.
func valueToJSON(v dagcbor.Value) (any, error) {
	switch v.Kind() {
	case dagcbor.KindNull:
		return nil, nil
	case dagcbor.KindBool:
		b, _ := v.Bool()
		return b, nil
	case dagcbor.KindInt:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		u, _ := v.Uint64()
		return u, nil
	case dagcbor.KindFloat:
		f, _ := v.Float64()
		return f, nil
	case dagcbor.KindBytes:
		b, _ := v.BytesValue()
		return map[string]any{"$bytesHex": fmt.Sprintf("%x", b)}, nil
	case dagcbor.KindString:
		s, _ := v.StringValue()
		return s, nil
	case dagcbor.KindList:
		items, _ := v.ListValue()
		out := make([]any, len(items))
		for i, item := range items {
			rendered, err := valueToJSON(item)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	case dagcbor.KindMap:
		entries, _ := v.MapValue()
		out := make(map[string]any, len(entries))
		for _, e := range entries {
			rendered, err := valueToJSON(e.Value)
			if err != nil {
				return nil, err
			}
			out[e.Key] = rendered
		}
		return out, nil
	case dagcbor.KindLink:
		link, _ := v.LinkValue()
		return map[string]any{"$link": fmt.Sprintf("%x", link.Bytes())}, nil
	default:
		return nil, fmt.Errorf("unreachable kind %v", v.Kind())
	}
}
