// Package harness provides a conformance testing framework for the
// Frontbase dialect.
//
// A scenario is a YAML file holding CUE model source, a flow of queries and
// assertions. Run compiles the models, creates their tables in a fresh
// in-memory SQLite database and executes every flow step through
// dialect.Database.QueryExecute. Each statement that reaches the connection
// is serialized and recorded on the result trace, so a golden file pins the
// exact SQL and binds the dialect produces.
//
// SQLite does not accept Frontbase TOP paging, so select steps have no
// limit.
//
// Example scenario:
//
//	name: crud
//	description: insert then update a user
//	models: |
//	  model: User: {
//	    entity: "users"
//	    fields: {
//	      id:   int
//	      name: string @fb(size=64)
//	    }
//	  }
//	flow:
//	  - op: insert
//	    table: users
//	    values: {id: 1, name: ada}
//	  - op: update
//	    table: users
//	    values: {name: grace}
//	    where: {id: 1}
//	assertions:
//	  - type: final_state
//	    table: users
//	    where: {id: 1}
//	    expect: {name: grace}
package harness
