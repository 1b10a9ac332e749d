package entity

// Reference declares a row field holding the id of a row in another table.
type Reference struct {
	// Table is the referenced table.
	Table string
	// Field is the referencing field of this entity's rows.
	Field string
}

// ChildRelationship declares rows of another table nested under this entity.
type ChildRelationship struct {
	// Tables are the candidate child tables; the first existing one wins.
	Tables []string
	// ListField is the name under which grouped children are attached.
	ListField string
	// JoinField is the child field pointing back at the parent id.
	JoinField string
}

// Descriptor is the static configuration of one entity strategy.
type Descriptor struct {
	// Name is the registry key, e.g. "Campaigns".
	Name string
	// Label is the human readable name used in job logs.
	Label string
	// Tables are the candidate tables; the first existing one wins.
	Tables []string
	// Keys are the dedup key fields of the table.
	Keys []string
	// IDField is the row field holding the entity id.
	IDField string
	// RemoteType is the remote collection, e.g. "Placements".
	RemoteType string
	// ListField is the remote list payload field, e.g. "placements".
	ListField string
	// References are resolved through the identifier store on push.
	References []Reference
	// Children are attached to rows on push.
	Children []ChildRelationship
	// Columns is the default header used when the table is created.
	Columns []string
}
