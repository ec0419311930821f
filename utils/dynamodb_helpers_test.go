package utils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

func TestExtractString(t *testing.T) {
	item := map[string]types.AttributeValue{
		"displayName": &types.AttributeValueMemberS{Value: "Alice"},
		"age":         &types.AttributeValueMemberN{Value: "30"},
	}

	if got := ExtractString(item, "displayName"); got != "Alice" {
		t.Errorf("ExtractString(displayName) = %q, want Alice", got)
	}
	if got := ExtractString(item, "missing"); got != "" {
		t.Errorf("ExtractString(missing) = %q, want empty", got)
	}
	// Wrong attribute type degrades to empty rather than panicking.
	if got := ExtractString(item, "age"); got != "" {
		t.Errorf("ExtractString(age) = %q, want empty", got)
	}
}

func TestExtractFirstPhoto(t *testing.T) {
	item := map[string]types.AttributeValue{
		"photos": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberS{Value: "profile-pics/first.jpg"},
			&types.AttributeValueMemberS{Value: "profile-pics/second.jpg"},
		}},
		"empty": &types.AttributeValueMemberL{Value: nil},
	}

	if got := ExtractFirstPhoto(item, "photos"); got != "profile-pics/first.jpg" {
		t.Errorf("ExtractFirstPhoto(photos) = %q", got)
	}
	if got := ExtractFirstPhoto(item, "empty"); got != "" {
		t.Errorf("ExtractFirstPhoto(empty) = %q, want empty", got)
	}
	if got := ExtractFirstPhoto(item, "missing"); got != "" {
		t.Errorf("ExtractFirstPhoto(missing) = %q, want empty", got)
	}
}
