/*
Package domain contains the core domain models of the maturity assessment engine.

It defines the questionnaire graph (pillars, questions, options), the per-session
traversal State and the Results produced by scoring. This package is kept pure and
free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Questionnaire: the loaded, validated configuration document.
  - Question / Option: a node of the question graph and its weighted, branching answers.
  - State: the runtime snapshot of a session (current question, history, answers).
  - Results: per-pillar and global scores, reliability and ranked recommendations.
  - View: a structural representation of what the host should render.
*/
package domain
