package classifier

import (
	"strings"
	"unicode"
)

// Result 领域分类结果
type Result struct {
	// IsMentalHealth 消息是否属于心理健康支持领域
	IsMentalHealth bool
	// IsCrisis 是否命中危机信号（自伤、自杀意念等）
	IsCrisis bool
	// Confidence 基于命中词数量的粗略置信度，范围 [0,1]
	Confidence float64
	// MatchedTerms 命中的领域词，按出现顺序去重
	MatchedTerms []string
}

// Classifier 领域分类器接口
type Classifier interface {
	Classify(message string) *Result
}

// KeywordClassifier 基于关键词匹配的分类器。
// 单词按词边界匹配，短语按子串匹配，统一小写后比较。
type KeywordClassifier struct {
	words   map[string]struct{}
	phrases []string

	crisisWords   map[string]struct{}
	crisisPhrases []string
}

// 领域词表。覆盖情绪、症状、障碍和求助场景的常见表述。
var domainTerms = []string{
	"anxiety", "anxious", "panic", "worry", "worried", "nervous",
	"depression", "depressed", "sad", "sadness", "hopeless", "hopelessness",
	"stress", "stressed", "overwhelmed", "burnout", "burned out",
	"lonely", "loneliness", "isolated", "grief", "grieving", "loss",
	"insomnia", "sleep", "sleepless", "nightmare", "nightmares",
	"therapy", "therapist", "counseling", "counselor", "psychiatrist",
	"medication", "antidepressant", "mental health", "mental illness",
	"ptsd", "trauma", "traumatic", "ocd", "adhd", "bipolar",
	"self-esteem", "self esteem", "worthless", "guilt", "ashamed", "shame",
	"mood", "emotions", "emotional", "crying", "cry",
	"can't cope", "cant cope", "breaking down", "falling apart",
	"panic attack", "anxiety attack", "intrusive thoughts",
}

// 危机词表。命中任何一项即视为危机，同时必然属于领域内。
var crisisTerms = []string{
	"suicide", "suicidal", "kill myself", "end my life", "ending my life",
	"self-harm", "self harm", "hurt myself", "hurting myself",
	"want to die", "wish i was dead", "wish i were dead",
	"no reason to live", "better off dead", "end it all",
	"cutting myself", "overdose",
}

// NewKeywordClassifier 创建关键词分类器，使用内置词表
func NewKeywordClassifier() *KeywordClassifier {
	c := &KeywordClassifier{
		words:       make(map[string]struct{}),
		crisisWords: make(map[string]struct{}),
	}
	for _, term := range domainTerms {
		if strings.ContainsAny(term, " -'") {
			c.phrases = append(c.phrases, term)
		} else {
			c.words[term] = struct{}{}
		}
	}
	for _, term := range crisisTerms {
		if strings.ContainsAny(term, " -'") {
			c.crisisPhrases = append(c.crisisPhrases, term)
		} else {
			c.crisisWords[term] = struct{}{}
		}
	}
	return c
}

// Classify 对消息做领域和危机判定
func (c *KeywordClassifier) Classify(message string) *Result {
	lowered := strings.ToLower(message)
	tokens := tokenize(lowered)

	seen := make(map[string]struct{})
	var matched []string
	addMatch := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		matched = append(matched, term)
	}

	crisis := false
	for _, tok := range tokens {
		if _, ok := c.crisisWords[tok]; ok {
			crisis = true
			addMatch(tok)
		}
		if _, ok := c.words[tok]; ok {
			addMatch(tok)
		}
	}
	for _, phrase := range c.crisisPhrases {
		if strings.Contains(lowered, phrase) {
			crisis = true
			addMatch(phrase)
		}
	}
	for _, phrase := range c.phrases {
		if strings.Contains(lowered, phrase) {
			addMatch(phrase)
		}
	}

	confidence := float64(len(matched)) / 3.0
	if confidence > 1.0 {
		confidence = 1.0
	}

	return &Result{
		IsMentalHealth: crisis || len(matched) > 0,
		IsCrisis:       crisis,
		Confidence:     confidence,
		MatchedTerms:   matched,
	}
}

// tokenize 按非字母数字字符切词，保留词内的连字符和撇号
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return r != '-' && r != '\''
	})
}
