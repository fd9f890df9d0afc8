// Package schema validates questionnaire documents against their JSON Schema
// and carries the typed validation errors shared by every loading stage.
//
// The schema checks shape only: required sections, field types, score and
// percentage ranges. Referential rules (dangling next questions, unknown pillars,
// cycles) are enforced later on the decoded questionnaire.
//
// Basic usage:
//
//	var doc any
//	_ = json.Unmarshal(data, &doc)
//
//	if err := schema.ValidateDocument(doc); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
package schema
