package models

// TreeNode is the lightweight tree projection returned whole by one backend
// call per resource. It is traversal input only and is never written back.
type TreeNode struct {
	RecordURI     string     `json:"record_uri"`
	Title         string     `json:"title,omitempty"`
	HasChildren   bool       `json:"has_children"`
	InstanceTypes []string   `json:"instance_types,omitempty"`
	Children      []TreeNode `json:"children,omitempty"`
}

// HasInstanceType reports whether the node carries an instance of the given
// type in its projection summary.
func (n TreeNode) HasInstanceType(instanceType string) bool {
	for _, t := range n.InstanceTypes {
		if t == instanceType {
			return true
		}
	}
	return false
}
