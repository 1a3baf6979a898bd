// model/neo4j/nodes.go
package permy_neo4j

// Node Labels
const (
	// LabelUser represents a subject in the graph
	LabelUser = "User"

	// LabelPermy represents a permission record that can be assigned to users
	LabelPermy = "Permy"
)
