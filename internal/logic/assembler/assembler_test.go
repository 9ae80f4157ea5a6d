package assembler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mindmate-ai/mindmate/internal/logic/knowledge"
	"github.com/mindmate-ai/mindmate/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func turn(role schema.RoleType, msg string) *schema.Turn {
	return &schema.Turn{Role: role, Message: msg}
}

func snippet(source, content string) *knowledge.Snippet {
	return &knowledge.Snippet{
		Document: &schema.Document{
			Content:  content,
			MetaData: map[string]interface{}{schema.MetaSource: source},
		},
	}
}

func TestBuildFullPrompt(t *testing.T) {
	a := New(10, 6000)

	history := []*schema.Turn{
		turn(schema.User, "I've been feeling anxious"),
		turn(schema.Assistant, "That sounds difficult. What's been on your mind?"),
	}
	snippets := []*knowledge.Snippet{
		snippet("APA", "Deep breathing helps manage anxiety."),
	}

	prompt := a.Build(history, snippets, "How do I calm down at night?")

	assert.Contains(t, prompt, "Recent conversation context:")
	assert.Contains(t, prompt, "USER: I've been feeling anxious")
	assert.Contains(t, prompt, "ASSISTANT: That sounds difficult. What's been on your mind?")
	assert.Contains(t, prompt, "[APA] Deep breathing helps manage anxiety.")
	assert.Contains(t, prompt, "Current query: How do I calm down at night?")

	// 各区块顺序：历史、知识、当前查询
	histIdx := strings.Index(prompt, "Recent conversation context:")
	kbIdx := strings.Index(prompt, "[APA]")
	queryIdx := strings.Index(prompt, "Current query:")
	assert.Less(t, histIdx, kbIdx)
	assert.Less(t, kbIdx, queryIdx)
}

func TestBuildOmitsEmptySections(t *testing.T) {
	a := New(10, 6000)

	t.Run("无历史无知识", func(t *testing.T) {
		prompt := a.Build(nil, nil, "hello")
		assert.Equal(t, "Current query: hello", prompt)
	})

	t.Run("仅知识", func(t *testing.T) {
		prompt := a.Build(nil, []*knowledge.Snippet{snippet("NIMH", "info")}, "hello")
		assert.NotContains(t, prompt, "Recent conversation context:")
		assert.Contains(t, prompt, "[NIMH] info")
	})
}

func TestBuildLimitsHistoryTurns(t *testing.T) {
	a := New(4, 6000)

	var history []*schema.Turn
	for i := 0; i < 10; i++ {
		history = append(history, turn(schema.User, fmt.Sprintf("message %d", i)))
	}

	prompt := a.Build(history, nil, "query")
	assert.NotContains(t, prompt, "message 5")
	assert.Contains(t, prompt, "message 6")
	assert.Contains(t, prompt, "message 9")
}

func TestBuildSkipsSystemTurns(t *testing.T) {
	a := New(10, 6000)
	history := []*schema.Turn{
		turn(schema.System, "internal instruction"),
		turn(schema.User, "hi"),
	}
	prompt := a.Build(history, nil, "query")
	assert.NotContains(t, prompt, "internal instruction")
	assert.Contains(t, prompt, "USER: hi")
}

func TestBuildCharBudget(t *testing.T) {
	a := New(10, 400)

	long := strings.Repeat("x", 150)
	history := []*schema.Turn{
		turn(schema.User, "oldest "+long),
		turn(schema.Assistant, "middle "+long),
		turn(schema.User, "newest turn"),
	}
	snippets := []*knowledge.Snippet{
		snippet("APA", "top snippet about anxiety"),
		snippet("NIMH", "second snippet "+long),
	}

	prompt := a.Build(history, snippets, "my question")

	assert.LessOrEqual(t, len(prompt), 400)
	// 当前查询和相关度最高的知识永不丢弃
	assert.Contains(t, prompt, "Current query: my question")
	assert.Contains(t, prompt, "[APA] top snippet about anxiety")
	// 最旧的历史最先被丢弃
	assert.NotContains(t, prompt, "oldest")
}

func TestBuildNeverDropsQueryOrTopSnippet(t *testing.T) {
	// 预算小到连查询都放不下时，仍然保留查询和最高相关知识
	a := New(10, 10)
	snippets := []*knowledge.Snippet{snippet("APA", "essential guidance")}

	prompt := a.Build(nil, snippets, "help")
	require.Contains(t, prompt, "Current query: help")
	assert.Contains(t, prompt, "[APA] essential guidance")
}
