package models

// EIPInfo represents an Elastic IP that is either unassociated or bound to an
// instance that is not running
type EIPInfo struct {
	AllocationID  string
	PublicIP      string
	InstanceID    string
	InstanceName  string
	InstanceState string
	Region        string
}

// Assigned reports whether the address is associated with an instance
func (e EIPInfo) Assigned() bool {
	return e.InstanceID != ""
}
