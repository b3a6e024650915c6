package utils

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// NameTagKey is the tag AWS consoles display as a resource's name
const NameTagKey = "Name"

// GetTagValue returns the value of a tag with the given key
func GetTagValue(tags []types.Tag, key string) string {
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key == key {
			if tag.Value != nil {
				return *tag.Value
			}
			return ""
		}
	}
	return ""
}

// GetName returns the value of the Name tag
func GetName(tags []types.Tag) string {
	return GetTagValue(tags, NameTagKey)
}

// GetTagsMap converts a slice of EC2 tags to a map
func GetTagsMap(tags []types.Tag) map[string]string {
	result := make(map[string]string, len(tags))
	for _, tag := range tags {
		if tag.Key != nil {
			result[*tag.Key] = SafeDeref(tag.Value)
		}
	}
	return result
}

// FormatTags renders EC2 tags as "key = value" pairs joined by ", ", in API order
func FormatTags(tags []types.Tag) string {
	pairs := make([]string, 0, len(tags))
	for _, tag := range tags {
		pairs = append(pairs, fmt.Sprintf("%s = %s", SafeDeref(tag.Key), SafeDeref(tag.Value)))
	}
	return strings.Join(pairs, ", ")
}

// SortedKeys returns the keys of a tag map in lexical order
func SortedKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
