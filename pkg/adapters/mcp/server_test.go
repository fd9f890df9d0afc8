package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/maturity"
	"github.com/aretw0/maturity/pkg/adapters/memory"
	"github.com/aretw0/maturity/pkg/domain"
	"github.com/aretw0/maturity/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type toolResult struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StructuredContent json.RawMessage `json:"structuredContent"`
	IsError           bool            `json:"isError"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func newServer(t *testing.T) *Server {
	t.Helper()
	b := dsl.New().Title("Readiness")
	b.Pillar("GOV", "Governance")
	b.Question("q1", "GOV").
		Text("Is there an AI policy?").
		Option("agree", "Yes", 4, dsl.Next("q2")).
		Option("disagree", "No", 0, dsl.Tags("GOV_no_policy"))
	b.Question("q2", "GOV").
		Text("Is it reviewed yearly?").
		Option("agree", "Yes", 4)
	b.RecommendTag("GOV_no_policy", "Write a policy.")

	loader, err := b.Build()
	require.NoError(t, err)
	engine, err := maturity.New("", maturity.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(engine, memory.NewStore())
}

var rpcID int

func call(t *testing.T, s *Server, method string, params any) json.RawMessage {
	t.Helper()
	rpcID++
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      rpcID,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	msg := s.MCPServer().HandleMessage(context.Background(), raw)
	out, err := json.Marshal(msg)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Nil(t, resp.Error, string(out))
	return resp.Result
}

func callTool(t *testing.T, s *Server, name string, args map[string]any) toolResult {
	t.Helper()
	var res toolResult
	require.NoError(t, json.Unmarshal(call(t, s, "tools/call", map[string]any{"name": name, "arguments": args}), &res))
	return res
}

func sessionOf(t *testing.T, res toolResult) SessionResponse {
	t.Helper()
	require.False(t, res.IsError, fmt.Sprint(res.Content))
	var out SessionResponse
	require.NoError(t, json.Unmarshal(res.StructuredContent, &out))
	return out
}

func TestServer_Walkthrough(t *testing.T) {
	s := newServer(t)

	// 1. Start
	started := sessionOf(t, callTool(t, s, "start_session", map[string]any{"session_id": "s1"}))
	assert.Equal(t, domain.QuestionID("q1"), started.View.QuestionID)
	assert.Len(t, started.View.Options, 2)

	// 2. Answer then advance to a terminal option
	answered := sessionOf(t, callTool(t, s, "answer_question", map[string]any{
		"session_id": "s1", "question_id": "q1", "option_id": "disagree",
	}))
	assert.True(t, answered.View.CanFinish)

	done := sessionOf(t, callTool(t, s, "advance", map[string]any{"session_id": "s1"}))
	assert.True(t, done.State.IsCompleted())

	// 3. Results
	res := callTool(t, s, "get_results", map[string]any{"session_id": "s1"})
	require.False(t, res.IsError)
	var results domain.Results
	require.NoError(t, json.Unmarshal(res.StructuredContent, &results))
	require.Len(t, results.Recommendations, 1)
	assert.Equal(t, "Write a policy.", results.Recommendations[0].Text)

	text := callTool(t, s, "get_results", map[string]any{"session_id": "s1", "format": "markdown"})
	require.NotEmpty(t, text.Content)
	assert.Contains(t, text.Content[0].Text, "# Readiness")
}

func TestServer_BackAndRestart(t *testing.T) {
	s := newServer(t)
	sessionOf(t, callTool(t, s, "start_session", map[string]any{"session_id": "s1"}))

	back := sessionOf(t, callTool(t, s, "go_back", map[string]any{"session_id": "s1"}))
	assert.True(t, back.AtStart)

	sessionOf(t, callTool(t, s, "answer_question", map[string]any{"session_id": "s1", "question_id": "q1", "option_id": "agree"}))
	moved := sessionOf(t, callTool(t, s, "advance", map[string]any{"session_id": "s1"}))
	assert.Equal(t, domain.QuestionID("q2"), moved.State.CurrentQuestionID)

	restarted := sessionOf(t, callTool(t, s, "restart_session", map[string]any{"session_id": "s1"}))
	assert.Equal(t, domain.QuestionID("q1"), restarted.State.CurrentQuestionID)
	assert.Empty(t, restarted.State.Answers)

	viewed := sessionOf(t, callTool(t, s, "view_session", map[string]any{"session_id": "s1"}))
	assert.Equal(t, "Is there an AI policy?", viewed.View.Text)
}

func TestServer_ToolErrors(t *testing.T) {
	s := newServer(t)
	sessionOf(t, callTool(t, s, "start_session", map[string]any{"session_id": "s1"}))

	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"unknown session", "view_session", map[string]any{"session_id": "ghost"}},
		{"duplicate session", "start_session", map[string]any{"session_id": "s1"}},
		{"unknown option", "answer_question", map[string]any{"session_id": "s1", "question_id": "q1", "option_id": "maybe"}},
		{"advance unanswered", "advance", map[string]any{"session_id": "s1"}},
		{"bad format", "get_results", map[string]any{"session_id": "s1", "format": "pdf"}},
		{"missing session id", "get_results", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, s, tt.tool, tt.args)
			assert.True(t, res.IsError)
		})
	}
}

func TestServer_Resources(t *testing.T) {
	s := newServer(t)

	var read struct {
		Contents []struct {
			URI      string `json:"uri"`
			MIMEType string `json:"mimeType"`
			Text     string `json:"text"`
		} `json:"contents"`
	}

	require.NoError(t, json.Unmarshal(call(t, s, "resources/read", map[string]any{"uri": questionnaireURI}), &read))
	require.Len(t, read.Contents, 1)
	assert.Equal(t, "application/json", read.Contents[0].MIMEType)
	assert.Contains(t, read.Contents[0].Text, `"q1"`)

	require.NoError(t, json.Unmarshal(call(t, s, "resources/read", map[string]any{"uri": graphURI}), &read))
	require.Len(t, read.Contents, 1)
	assert.Contains(t, read.Contents[0].Text, "graph TD")
}

func TestServer_ListsTools(t *testing.T) {
	s := newServer(t)

	var list struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(call(t, s, "tools/list", map[string]any{}), &list))

	var names []string
	for _, tool := range list.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"start_session", "answer_question", "advance", "go_back",
		"restart_session", "view_session", "get_results", "get_questionnaire",
	}, names)
}
