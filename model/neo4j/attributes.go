// model/neo4j/attributes.go
package permy_neo4j

// Attribute Keys
const (
	AttrID          = "id"
	AttrName        = "name"
	AttrEmail       = "email"
	AttrType        = "type"
	AttrDescription = "desc"
)
