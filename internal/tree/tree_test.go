package tree

import (
	"reflect"
	"testing"

	"github.com/starford/fonds/internal/models"
)

func sampleTree() []models.TreeNode {
	return []models.TreeNode{
		{
			RecordURI:   "/ao/1",
			HasChildren: true,
			Children: []models.TreeNode{
				{RecordURI: "/ao/2", InstanceTypes: []string{"digital_object"}},
				{
					RecordURI:     "/ao/3",
					InstanceTypes: []string{"mixed_materials", "top_container"},
					HasChildren:   true,
					Children: []models.TreeNode{
						{RecordURI: "/ao/4"},
					},
				},
			},
		},
		{RecordURI: "/ao/5", InstanceTypes: []string{"digital_object"}},
	}
}

func TestFindNodesWithInstances_NoFilter(t *testing.T) {
	got := FindNodesWithInstances(sampleTree(), "")
	want := []string{"/ao/2", "/ao/3", "/ao/5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFindNodesWithInstances_Filter(t *testing.T) {
	got := FindNodesWithInstances(sampleTree(), "top_container")
	want := []string{"/ao/3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFindNodesWithInstances_LeafThroughBareParent(t *testing.T) {
	children := []models.TreeNode{
		{
			RecordURI:   "/ao/parent",
			HasChildren: true,
			Children: []models.TreeNode{
				{RecordURI: "/ao/leaf", InstanceTypes: []string{"digital_object"}},
			},
		},
	}
	got := FindNodesWithInstances(children, "")
	if !reflect.DeepEqual(got, []string{"/ao/leaf"}) {
		t.Errorf("got %v, want the leaf only", got)
	}
	if filtered := FindNodesWithInstances(children, "top_container"); len(filtered) != 0 {
		t.Errorf("filtered got %v, want empty", filtered)
	}
}

func TestFlattenURIs_PreOrder(t *testing.T) {
	got := FlattenURIs(sampleTree())
	want := []string{"/ao/1", "/ao/2", "/ao/3", "/ao/4", "/ao/5"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFlattenCoversInstanceNodes(t *testing.T) {
	all := FlattenURIs(sampleTree())
	withInstances := FindNodesWithInstances(sampleTree(), "")
	if len(withInstances) > len(all) {
		t.Fatalf("instance nodes (%d) exceed all nodes (%d)", len(withInstances), len(all))
	}
	set := make(map[string]bool, len(all))
	for _, uri := range all {
		set[uri] = true
	}
	for _, uri := range withInstances {
		if !set[uri] {
			t.Errorf("instance node %s missing from flattened set", uri)
		}
	}
}

func TestAccumulatorsAreFresh(t *testing.T) {
	first := FlattenURIs(sampleTree())
	second := FlattenURIs(sampleTree())
	if len(first) != len(second) {
		t.Errorf("repeated calls differ: %d vs %d", len(first), len(second))
	}
	deep := deepChain(20000)
	if got := FlattenURIs(deep); len(got) != 20000 {
		t.Errorf("deep chain length = %d, want 20000", len(got))
	}
}

// deepChain builds a single-path tree of the given depth.
func deepChain(depth int) []models.TreeNode {
	node := models.TreeNode{RecordURI: "/ao/leaf"}
	for i := depth - 1; i > 0; i-- {
		node = models.TreeNode{RecordURI: "/ao/n", HasChildren: true, Children: []models.TreeNode{node}}
	}
	return []models.TreeNode{node}
}
