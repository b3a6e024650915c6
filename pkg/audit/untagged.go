package audit

import "github.com/younsl/awsaudit/internal/models"

// minTagValueLength is the shortest tag value that counts as set
const minTagValueLength = 3

// FindUntagged returns the resources missing at least one required tag, in
// input order. A tag whose value is shorter than three characters counts as
// missing.
func FindUntagged(resources []models.TaggedResource, required []string) []models.UntaggedResource {
	var untagged []models.UntaggedResource
	for _, resource := range resources {
		present := make([]bool, len(required))
		complete := true
		for i, key := range required {
			present[i] = len(resource.Tags[key]) >= minTagValueLength
			complete = complete && present[i]
		}
		if complete {
			continue
		}
		untagged = append(untagged, models.UntaggedResource{
			Type:    resource.Type,
			Name:    resource.Name,
			Present: present,
		})
	}
	return untagged
}
