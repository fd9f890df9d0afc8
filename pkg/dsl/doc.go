/*
Package dsl provides a Go DSL for programmatically constructing maturity questionnaires.

It allows developers to define pillars, branching questions and recommendation tables
using a type-safe, fluent builder instead of an external YAML or JSON document.
This is particularly useful for unit testing and generated assessments.

Example usage:

	b := dsl.New().Entry("q1")

	b.Pillar("GOV", "Governance").Icon("🏛️").Weight(1.5)

	b.Question("q1", "GOV").
		Text("Is there a written AI policy?").
		Option("yes", "Yes", 4, dsl.Next("q2")).
		Option("no", "No", 0, dsl.Tags("GOV_no_policy"))

	b.Question("q2", "GOV").
		Text("Is it reviewed yearly?").
		Option("yes", "Yes", 4).
		Option("no", "No", 1)

	b.RecommendTag("GOV_no_policy", "Write an AI usage policy.")

	// The resulting loader can be passed to maturity.New(...)
	loader, err := b.Build()
*/
package dsl
