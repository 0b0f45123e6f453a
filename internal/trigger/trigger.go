// Package trigger turns DynamoDB stream records into typed documents.
package trigger

import (
	"errors"
	"fmt"

	"github.com/SeniorEXFall2025/stem-mobile-app/internal/model"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrMissingSnapshot is returned for records that carry no new image, e.g. a
// stream configured with KEYS_ONLY.
var ErrMissingSnapshot = errors.New("record carries no document snapshot")

// IsInsert reports whether r describes a document creation.
func IsInsert(r events.DynamoDBEventRecord) bool {
	return r.EventName == string(events.DynamoDBOperationTypeInsert)
}

// DocumentID returns the string partition key of the document in r, or "".
func DocumentID(r events.DynamoDBEventRecord) string {
	if key, ok := r.Change.Keys[model.KeyAttribute]; ok && key.DataType() == events.DataTypeString {
		return key.String()
	}
	if key, ok := r.Change.NewImage[model.KeyAttribute]; ok && key.DataType() == events.DataTypeString {
		return key.String()
	}
	return ""
}

// Decode unmarshals the new image of r into out, a pointer to a model type,
// and validates the result.
func Decode(r events.DynamoDBEventRecord, out any) error {
	if len(r.Change.NewImage) == 0 {
		return ErrMissingSnapshot
	}
	item, err := Image(r.Change.NewImage)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
	}
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidDocument, err)
	}
	return model.Validate(out)
}

// Image converts a stream image into SDK attribute values.
func Image(image map[string]events.DynamoDBAttributeValue) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(image))
	for name, av := range image {
		v, err := attributeValue(av)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		item[name] = v
	}
	return item, nil
}

func attributeValue(av events.DynamoDBAttributeValue) (types.AttributeValue, error) {
	switch av.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: av.String()}, nil
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: av.Number()}, nil
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: av.Boolean()}, nil
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: av.Binary()}, nil
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: av.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: av.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: av.BinarySet()}, nil
	case events.DataTypeList:
		list := av.List()
		out := make([]types.AttributeValue, 0, len(list))
		for i, elem := range list {
			v, err := attributeValue(elem)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			out = append(out, v)
		}
		return &types.AttributeValueMemberL{Value: out}, nil
	case events.DataTypeMap:
		m, err := Image(av.Map())
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported data type %d", av.DataType())
	}
}
