package qdrant

import (
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/hupe1980/shopflow/core"
)

// Payload layout: the candidate content under "content", the metadata map as
// a nested struct under "metadata".
const (
	contentKey  = "content"
	metadataKey = "metadata"
)

func toPayload(content string, metadata map[string]any) map[string]*qdrant.Value {
	payload := map[string]*qdrant.Value{
		contentKey: toValue(content),
	}
	if len(metadata) > 0 {
		fields := make(map[string]*qdrant.Value, len(metadata))
		for k, v := range metadata {
			fields[k] = toValue(v)
		}
		payload[metadataKey] = &qdrant.Value{
			Kind: &qdrant.Value_StructValue{StructValue: &qdrant.Struct{Fields: fields}},
		}
	}
	return payload
}

func fromPayload(payload map[string]*qdrant.Value) core.Candidate {
	candidate := core.Candidate{}
	if v, ok := payload[contentKey]; ok {
		candidate.Content = v.GetStringValue()
	}
	if v, ok := payload[metadataKey]; ok {
		if s := v.GetStructValue(); s != nil {
			metadata := make(map[string]any, len(s.GetFields()))
			for k, fv := range s.GetFields() {
				metadata[k] = fromValue(fv)
			}
			candidate.Metadata = metadata
		}
	}
	return candidate
}

func toValue(v any) *qdrant.Value {
	switch val := v.(type) {
	case string:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: val}}
	case int:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(val)}}
	case int64:
		return &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: val}}
	case float64:
		return &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: val}}
	case bool:
		return &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: val}}
	default:
		return &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: fmt.Sprintf("%v", val)}}
	}
}

func fromValue(v *qdrant.Value) any {
	switch kind := v.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}
