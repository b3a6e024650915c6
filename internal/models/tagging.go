package models

// TaggedResource is a resource with the tags it currently carries
type TaggedResource struct {
	Type string
	Name string
	Tags map[string]string
}

// UntaggedResource is a resource missing at least one required tag.
// Present is parallel to the list of required tag keys.
type UntaggedResource struct {
	Type    string
	Name    string
	Present []bool
}

// TagRequest is one row of a bulk tagging file after ARN resolution
type TagRequest struct {
	ResourceType string
	Name         string
	ARN          string
	Tags         map[string]string
}
