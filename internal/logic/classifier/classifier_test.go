package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDomainKeywords(t *testing.T) {
	c := NewKeywordClassifier()

	t.Run("命中领域词", func(t *testing.T) {
		res := c.Classify("I've been feeling really anxious about work lately")
		assert.True(t, res.IsMentalHealth)
		assert.False(t, res.IsCrisis)
		assert.Contains(t, res.MatchedTerms, "anxious")
	})

	t.Run("大小写不敏感", func(t *testing.T) {
		res := c.Classify("My DEPRESSION is getting worse")
		assert.True(t, res.IsMentalHealth)
		assert.Contains(t, res.MatchedTerms, "depression")
	})

	t.Run("短语匹配", func(t *testing.T) {
		res := c.Classify("I had a panic attack this morning")
		assert.True(t, res.IsMentalHealth)
		assert.Contains(t, res.MatchedTerms, "panic attack")
	})

	t.Run("领域外消息", func(t *testing.T) {
		res := c.Classify("What's the weather like in Tokyo?")
		assert.False(t, res.IsMentalHealth)
		assert.False(t, res.IsCrisis)
		assert.Empty(t, res.MatchedTerms)
	})

	t.Run("词边界不误报", func(t *testing.T) {
		// "sadness" 是领域词，但 "sad" 不应从 "salad" 中命中
		res := c.Classify("I made a salad for lunch")
		assert.False(t, res.IsMentalHealth)
	})
}

func TestClassifyCrisis(t *testing.T) {
	c := NewKeywordClassifier()

	t.Run("危机短语", func(t *testing.T) {
		res := c.Classify("sometimes I think about ending my life")
		assert.True(t, res.IsCrisis)
		assert.True(t, res.IsMentalHealth)
	})

	t.Run("危机单词", func(t *testing.T) {
		res := c.Classify("I have been having suicidal thoughts")
		assert.True(t, res.IsCrisis)
	})

	t.Run("非危机的领域消息", func(t *testing.T) {
		res := c.Classify("I feel stressed and overwhelmed")
		assert.True(t, res.IsMentalHealth)
		assert.False(t, res.IsCrisis)
	})
}

func TestClassifyConfidence(t *testing.T) {
	c := NewKeywordClassifier()

	low := c.Classify("I feel sad")
	high := c.Classify("I feel sad, anxious, stressed and lonely all the time")
	assert.Greater(t, high.Confidence, low.Confidence)
	assert.LessOrEqual(t, high.Confidence, 1.0)

	none := c.Classify("hello there")
	assert.Equal(t, 0.0, none.Confidence)
}

func TestMatchedTermsDeduplicated(t *testing.T) {
	c := NewKeywordClassifier()
	res := c.Classify("anxious anxious anxious")
	assert.Equal(t, []string{"anxious"}, res.MatchedTerms)
}
