/*
Package scoring computes assessment results from a questionnaire and an answer set.

Scoring is pure: Compute never mutates its inputs and never caches, so results are
rebuilt from scratch on every call.

	results := scoring.Compute(questionnaire, state.OrderedAnswers())

Per pillar, the percentage is the rounded ratio of the summed option scores to the
maximum reachable for the answered questions (four points each). The global
percentage weights each pillar's score and maximum by the pillar weight.
Recommendations are drawn from the pillar/level table and from option tags,
deduplicated by text, ordered by priority and capped.
*/
package scoring
