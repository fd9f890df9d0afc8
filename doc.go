/*
Package maturity runs branching self-assessment questionnaires and scores them.

A questionnaire groups questions into weighted pillars. Every option carries a
score from 0 to 4, optional tags, and optionally the next question to show, so
the path through the questionnaire depends on the answers. When the respondent
finishes, the engine computes a percentage and a maturity band per pillar, a
weighted global score, a reliability verdict, and a prioritized list of
recommendations.

# Concept

The engine is stateless: every navigation call takes a *domain.State and
returns a new one, leaving the input untouched. Hosts own persistence, which
lets the same engine back a terminal runner, an HTTP API and an MCP server.

# Usage

	eng, err := maturity.New("./questionnaire.yaml")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, _ := eng.Start(ctx, "")
	state, _ = eng.RecordAnswer(ctx, state, state.CurrentQuestionID, "yes")
	state, _ = eng.Advance(ctx, state)

	results, _ := eng.Results(ctx, state)
	fmt.Println(results.OverallPercentage, results.GlobalLevel.Label)

Questionnaires can be authored as one JSON, YAML or TOML document, as a
directory of Markdown files (one per question plus a manifest), or in code
with the dsl package.
*/
package maturity
