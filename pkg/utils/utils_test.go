package utils

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagHelpers(t *testing.T) {
	tags := []types.Tag{
		{Key: aws.String("Name"), Value: aws.String("web-data")},
		{Key: aws.String("team"), Value: aws.String("infra")},
		{Key: aws.String("empty"), Value: nil},
	}

	assert.Equal(t, "web-data", GetName(tags))
	assert.Equal(t, "infra", GetTagValue(tags, "team"))
	assert.Equal(t, "", GetTagValue(tags, "missing"))
	assert.Equal(t, map[string]string{"Name": "web-data", "team": "infra", "empty": ""}, GetTagsMap(tags))
	assert.Equal(t, "Name = web-data, team = infra, empty = ", FormatTags(tags))
	assert.Equal(t, "", FormatTags(nil))
	assert.Equal(t, []string{"Name", "empty", "team"}, SortedKeys(GetTagsMap(tags)))
}

func TestFormatReportTime(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.FixedZone("KST", 9*3600))
	assert.Equal(t, "04-03-2024 22:08:09", FormatReportTime(ts))
}

func TestCostWindow(t *testing.T) {
	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	start, end := CostWindow(now, 14)
	assert.Equal(t, "2024-02-20", start)
	assert.Equal(t, "2024-03-05", end)
}

func TestGetDefaultRegion(t *testing.T) {
	t.Run("prefers AWS_REGION", func(t *testing.T) {
		t.Setenv("AWS_REGION", "eu-west-1")
		t.Setenv("AWS_DEFAULT_REGION", "ap-northeast-2")
		assert.Equal(t, "eu-west-1", GetDefaultRegion())
	})

	t.Run("falls back to us-east-1", func(t *testing.T) {
		t.Setenv("AWS_REGION", "")
		t.Setenv("AWS_DEFAULT_REGION", "")
		assert.Equal(t, "us-east-1", GetDefaultRegion())
	})
}

func TestRegionNames(t *testing.T) {
	assert.True(t, IsValidRegion("ap-northeast-2"))
	assert.False(t, IsValidRegion("mars-north-1"))
	assert.Equal(t, "Asia Pacific (Seoul)", GetRegionDescriptiveName("ap-northeast-2"))
	assert.Equal(t, "US East (N. Virginia)", GetRegionDescriptiveName("mars-north-1"))
}

func TestLastSegment(t *testing.T) {
	assert.Equal(t, "my-access-logs", LastSegment("arn:aws:logs:us-east-1:123456789012:log-group:my-access-logs", ':'))
	assert.Equal(t, "plain", LastSegment("plain", ':'))
	assert.Equal(t, "", LastSegment("", ':'))
}

func TestParseJSON(t *testing.T) {
	parsed, err := ParseJSON(`{"a": {"b": 1}}`)
	require.NoError(t, err)

	first, err := GetFirstMapValue(parsed)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"b": float64(1)}, first)

	_, err = ParseJSON("{")
	require.Error(t, err)

	_, err = GetFirstMapValue(map[string]interface{}{})
	require.Error(t, err)
}
