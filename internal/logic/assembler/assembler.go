package assembler

import (
	"fmt"
	"strings"

	"github.com/mindmate-ai/mindmate/internal/logic/knowledge"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

const (
	historyHeader   = "Recent conversation context:"
	knowledgeHeader = "Relevant information that may help:"
	queryPrefix     = "Current query: "
)

// Assembler 将历史会话、检索到的知识和当前查询拼装成补全prompt。
// 超出字符预算时优先丢弃最旧的历史轮次，其次丢弃低相关度知识；
// 当前查询和相关度最高的知识片段永不丢弃。
type Assembler struct {
	maxHistoryTurns int
	maxChars        int
}

func New(maxHistoryTurns, maxChars int) *Assembler {
	if maxHistoryTurns <= 0 {
		maxHistoryTurns = 10
	}
	if maxChars <= 0 {
		maxChars = 6000
	}
	return &Assembler{
		maxHistoryTurns: maxHistoryTurns,
		maxChars:        maxChars,
	}
}

// Build 拼装prompt。history按时间升序，snippets按相关度降序。
func (a *Assembler) Build(history []*schema.Turn, snippets []*knowledge.Snippet, query string) string {
	historyLines := a.renderHistory(history)
	knowledgeLines := renderKnowledge(snippets)
	queryLine := queryPrefix + query

	prompt := assemble(historyLines, knowledgeLines, queryLine)
	if len(prompt) <= a.maxChars {
		return prompt
	}

	// 先丢最旧的历史
	for len(historyLines) > 0 && len(prompt) > a.maxChars {
		historyLines = historyLines[1:]
		prompt = assemble(historyLines, knowledgeLines, queryLine)
	}

	// 再从低相关度开始丢知识，保留相关度最高的一条
	for len(knowledgeLines) > 1 && len(prompt) > a.maxChars {
		knowledgeLines = knowledgeLines[:len(knowledgeLines)-1]
		prompt = assemble(historyLines, knowledgeLines, queryLine)
	}

	return prompt
}

// renderHistory 渲染最近的历史轮次，只保留user/assistant消息
func (a *Assembler) renderHistory(history []*schema.Turn) []string {
	var turns []*schema.Turn
	for _, turn := range history {
		if turn.Role == schema.User || turn.Role == schema.Assistant {
			turns = append(turns, turn)
		}
	}
	if len(turns) > a.maxHistoryTurns {
		turns = turns[len(turns)-a.maxHistoryTurns:]
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(string(turn.Role)), turn.Message))
	}
	return lines
}

// renderKnowledge 渲染知识片段为 [来源] 正文 形式，按相关度降序
func renderKnowledge(snippets []*knowledge.Snippet) []string {
	lines := make([]string, 0, len(snippets))
	for _, snippet := range snippets {
		source := snippet.Source()
		if source == "" {
			source = "knowledge base"
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", source, snippet.Content))
	}
	return lines
}

func assemble(historyLines, knowledgeLines []string, queryLine string) string {
	var sections []string
	if len(historyLines) > 0 {
		sections = append(sections, historyHeader+"\n"+strings.Join(historyLines, "\n"))
	}
	if len(knowledgeLines) > 0 {
		sections = append(sections, knowledgeHeader+"\n"+strings.Join(knowledgeLines, "\n"))
	}
	sections = append(sections, queryLine)
	return strings.Join(sections, "\n\n")
}
