package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/younsl/awsaudit/internal/models"
)

func TestIsUnreferenced(t *testing.T) {
	tests := []struct {
		name string
		rec  models.SnapshotRecord
		want bool
	}{
		{"all referenced", models.SnapshotRecord{VolumeExists: true, AmiExists: true, InstanceExists: true}, false},
		{"no AMI", models.SnapshotRecord{VolumeExists: true, InstanceExists: true}, true},
		{"no volume", models.SnapshotRecord{AmiExists: true, InstanceExists: true}, true},
		{"no instance", models.SnapshotRecord{VolumeExists: true, AmiExists: true}, true},
		{"nothing", models.SnapshotRecord{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnreferenced(tt.rec))
		})
	}
}

func TestIsOrphaned(t *testing.T) {
	tests := []struct {
		name string
		rec  models.SnapshotRecord
		want bool
	}{
		{"nothing references it", models.SnapshotRecord{VolumeLookup: models.LookupNotFound, InstanceLookup: models.LookupNotFound}, true},
		{"AMI still uses it", models.SnapshotRecord{AmiExists: true, VolumeLookup: models.LookupNotFound, InstanceLookup: models.LookupNotFound}, false},
		{"volume still exists", models.SnapshotRecord{VolumeExists: true, InstanceLookup: models.LookupNotFound}, false},
		{"volume lookup failed", models.SnapshotRecord{VolumeLookup: models.LookupFailed, InstanceLookup: models.LookupFailed}, false},
		{"instance lookup failed", models.SnapshotRecord{VolumeLookup: models.LookupFound, InstanceLookup: models.LookupFailed}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOrphaned(tt.rec))
		})
	}
}

func TestTopCostShare(t *testing.T) {
	costs := map[string]float64{
		"Amazon EC2":        50,
		"Amazon RDS":        30,
		"AWS Lambda":        15,
		"Amazon CloudWatch": 5,
	}

	t.Run("keeps the item that crosses the threshold", func(t *testing.T) {
		share := TopCostShare(costs, 80)
		assert.Equal(t, 100.0, share.Total)
		assert.Equal(t, []models.ResourceCost{
			{Name: "Amazon EC2", Cost: 50},
			{Name: "Amazon RDS", Cost: 30},
			{Name: "AWS Lambda", Cost: 15},
		}, share.Items)
	})

	t.Run("first item alone", func(t *testing.T) {
		share := TopCostShare(costs, 40)
		assert.Equal(t, []models.ResourceCost{{Name: "Amazon EC2", Cost: 50}}, share.Items)
	})

	t.Run("all items at 100 percent", func(t *testing.T) {
		assert.Len(t, TopCostShare(costs, 100).Items, 4)
	})

	t.Run("ties ordered by name", func(t *testing.T) {
		share := TopCostShare(map[string]float64{"b": 1, "a": 1}, 100)
		assert.Equal(t, "a", share.Items[0].Name)
	})

	t.Run("empty", func(t *testing.T) {
		share := TopCostShare(nil, 80)
		assert.Empty(t, share.Items)
		assert.Zero(t, share.Total)
	})
}

func TestWalkCostShare(t *testing.T) {
	share := RankCosts(map[string]float64{"gone": 90, "clicks": 5, "views": 5})
	assert.Equal(t, 100.0, share.Total)
	assert.Equal(t, "gone", share.Items[0].Name)

	t.Run("rejected items do not count", func(t *testing.T) {
		var kept []string
		WalkCostShare(share, 80, func(item models.ResourceCost) bool {
			if item.Name == "gone" {
				return false
			}
			kept = append(kept, item.Name)
			return true
		})
		assert.Equal(t, []string{"clicks", "views"}, kept)
	})

	t.Run("stops after crossing the threshold", func(t *testing.T) {
		var visited []string
		WalkCostShare(share, 50, func(item models.ResourceCost) bool {
			visited = append(visited, item.Name)
			return true
		})
		assert.Equal(t, []string{"gone"}, visited)
	})
}

func TestTagCosts(t *testing.T) {
	groups := map[string]float64{
		"Name$orders":   1.5,
		"Name$payments": 2,
		"Name$":         9,
	}

	assert.Equal(t, map[string]float64{"orders": 1.5, "payments": 2}, TagCosts(groups, "Name"))
}

func TestFindUntagged(t *testing.T) {
	resources := []models.TaggedResource{
		{Type: "Lambda Function", Name: "complete", Tags: map[string]string{"team": "core", "env": "prod"}},
		{Type: "Lambda Function", Name: "short", Tags: map[string]string{"team": "ab", "env": "prod"}},
		{Type: "S3 Bucket", Name: "bare", Tags: map[string]string{}},
	}

	untagged := FindUntagged(resources, []string{"team", "env"})

	assert.Equal(t, []models.UntaggedResource{
		{Type: "Lambda Function", Name: "short", Present: []bool{false, true}},
		{Type: "S3 Bucket", Name: "bare", Present: []bool{false, false}},
	}, untagged)
	assert.Empty(t, FindUntagged(resources, nil))
}

func TestTopLogGroups(t *testing.T) {
	usage := map[string]float64{"/a": 1, "/b": 3, "/c": 2}

	assert.Equal(t, []models.LogGroupUsage{{Name: "/b", IncomingGB: 3}, {Name: "/c", IncomingGB: 2}}, TopLogGroups(usage, 2))
	assert.Len(t, TopLogGroups(usage, 10), 3)
	assert.Empty(t, TopLogGroups(nil, 10))
}

func TestTopStages(t *testing.T) {
	stages := []models.APIGatewayStageUsage{
		{APIName: "orders", Stage: "prod", ExecutionLogGroup: "exec/orders/prod", AccessLogGroup: "orders-access"},
		{APIName: "orders", Stage: "dev", ExecutionLogGroup: "exec/orders/dev"},
		{APIName: "users", Stage: "prod", ExecutionLogGroup: "exec/users/prod"},
	}
	usage := map[string]float64{
		"exec/orders/prod": 1,
		"orders-access":    2,
		"exec/users/prod":  4,
	}

	top := TopStages(stages, usage, 10)
	assert.Equal(t, []models.APIGatewayStageUsage{
		{APIName: "users", Stage: "prod", ExecutionLogGroup: "exec/users/prod", ExecutionGB: 4},
		{APIName: "orders", Stage: "prod", ExecutionLogGroup: "exec/orders/prod", ExecutionGB: 1, AccessLogGroup: "orders-access", AccessGB: 2},
	}, top)

	assert.Len(t, TopStages(stages, usage, 1), 1)
	assert.Empty(t, TopStages(stages, nil, 10))
}
