package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// cursorValue is the wire form of a single key attribute. Table keys here
// are strings (userId, postId, followerId/followingId), but numeric keys
// are carried too so the codec stays generic.
type cursorValue struct {
	S *string `json:"s,omitempty"`
	N *string `json:"n,omitempty"`
}

// EncodeCursor packs a DynamoDB LastEvaluatedKey into an opaque URL-safe
// token. Returns "" for an exhausted scan.
func EncodeCursor(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	wire := make(map[string]cursorValue, len(key))
	for name, av := range key {
		switch v := av.(type) {
		case *types.AttributeValueMemberS:
			wire[name] = cursorValue{S: &v.Value}
		case *types.AttributeValueMemberN:
			wire[name] = cursorValue{N: &v.Value}
		default:
			return "", fmt.Errorf("unsupported key attribute type for %q", name)
		}
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// DecodeCursor unpacks a token produced by EncodeCursor back into an
// ExclusiveStartKey. An empty token yields a nil key (scan from the top).
func DecodeCursor(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	var wire map[string]cursorValue
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", err)
	}

	key := make(map[string]types.AttributeValue, len(wire))
	for name, v := range wire {
		switch {
		case v.S != nil:
			key[name] = &types.AttributeValueMemberS{Value: *v.S}
		case v.N != nil:
			key[name] = &types.AttributeValueMemberN{Value: *v.N}
		default:
			return nil, fmt.Errorf("cursor attribute %q carries no value", name)
		}
	}
	return key, nil
}
