package formatter

import "github.com/younsl/awsaudit/internal/models"

// WriteUntaggedResources adds the "Untagged Resources" sheet with one column
// per required tag
func (w *Workbook) WriteUntaggedResources(resources []models.UntaggedResource, tags []string) (int, error) {
	headings := append([]string{"Resource", "Name"}, tags...)
	widths := []float64{25, 60}
	for range tags {
		widths = append(widths, 14)
	}

	s, err := w.newSheet("Untagged Resources", widths, headings...)
	if err != nil {
		return 0, err
	}

	for _, resource := range resources {
		values := []any{resource.Type, resource.Name}
		for _, present := range resource.Present {
			values = append(values, s.flag(present, "AVAILABLE", "UNAVAILABLE"))
		}
		if err := s.add(values...); err != nil {
			return 0, err
		}
	}
	return s.done(), nil
}
