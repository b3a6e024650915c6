package snapshot

// AmiRef identifies an image that references a snapshot
type AmiRef struct {
	ID   string
	Name string
}

// AmiIndex maps a snapshot id to every image that references it, in image
// enumeration order
type AmiIndex map[string][]AmiRef

// BuildAmiIndex inverts the block device mappings of images into an AmiIndex.
// A snapshot referenced by N images gets N entries; mappings without a
// snapshot id contribute nothing.
func BuildAmiIndex(images []Image) AmiIndex {
	index := make(AmiIndex)
	for _, image := range images {
		name := image.Name
		if name == "" {
			name = NoNameSet
		}
		for _, mapping := range image.BlockDeviceMappings {
			if mapping.SnapshotID == "" {
				continue
			}
			index[mapping.SnapshotID] = append(index[mapping.SnapshotID], AmiRef{ID: image.ID, Name: name})
		}
	}
	return index
}

// Lookup returns the images referencing snapshotID
func (idx AmiIndex) Lookup(snapshotID string) ([]AmiRef, bool) {
	refs, ok := idx[snapshotID]
	return refs, ok
}
