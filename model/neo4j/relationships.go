// model/neo4j/relationships.go
package permy_neo4j

// Relationship Types
const (
	// RelHasPermy links a user to the permission records granted to them
	RelHasPermy = "HAS_PERMY"
)
