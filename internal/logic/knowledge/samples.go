package knowledge

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

// sampleDocuments 内置的基础知识，首次启动时注入，保证空库也能给出有依据的回答
var sampleDocuments = []*schema.Document{
	{
		Content: "Anxiety is a normal reaction to stress, but persistent and excessive worry " +
			"that interferes with daily activities may indicate an anxiety disorder. " +
			"Evidence-based coping strategies include deep breathing exercises, progressive " +
			"muscle relaxation, limiting caffeine, and regular physical activity. Grounding " +
			"techniques such as the 5-4-3-2-1 method can help during acute episodes of anxiety.",
		MetaData: map[string]interface{}{
			schema.MetaSource:  "APA",
			schema.MetaDocType: "coping_strategy",
		},
	},
	{
		Content: "Depression is more than feeling sad. Common signs include persistent low mood, " +
			"loss of interest in activities once enjoyed, changes in appetite or sleep, fatigue, " +
			"and difficulty concentrating. Depression is treatable: psychotherapy such as " +
			"cognitive behavioral therapy, medication, or a combination of both help most people " +
			"who seek treatment.",
		MetaData: map[string]interface{}{
			schema.MetaSource:  "NIMH",
			schema.MetaDocType: "education",
		},
	},
	{
		Content: "If you or someone you know is struggling or in crisis, help is available. " +
			"Call or text 988, the Suicide & Crisis Lifeline, to connect with a trained crisis " +
			"counselor, free and confidential, 24 hours a day, 7 days a week. In a life-threatening " +
			"emergency, call 911 or go to the nearest emergency room.",
		MetaData: map[string]interface{}{
			schema.MetaSource:  "988 Lifeline",
			schema.MetaDocType: "crisis_resource",
		},
	},
	{
		Content: "Good sleep hygiene supports mental health. Keep a consistent sleep schedule, " +
			"avoid screens for an hour before bed, keep the bedroom cool and dark, and avoid " +
			"caffeine and alcohol in the evening. Chronic insomnia is linked to anxiety and " +
			"depression and is worth discussing with a healthcare provider.",
		MetaData: map[string]interface{}{
			schema.MetaSource:  "CDC",
			schema.MetaDocType: "coping_strategy",
		},
	},
	{
		Content: "Mindfulness meditation involves paying attention to the present moment without " +
			"judgment. Regular practice has been shown to reduce symptoms of stress, anxiety, and " +
			"depression. Beginners can start with short guided sessions of five to ten minutes, " +
			"focusing on the breath and gently returning attention when the mind wanders.",
		MetaData: map[string]interface{}{
			schema.MetaSource:  "Mayo Clinic",
			schema.MetaDocType: "coping_strategy",
		},
	},
	{
		Content: "Burnout is a state of emotional, physical, and mental exhaustion caused by " +
			"prolonged stress, often work-related. Warning signs include cynicism, detachment, " +
			"reduced performance, and feeling drained. Recovery strategies include setting " +
			"boundaries, taking regular breaks, seeking social support, and re-evaluating " +
			"workload and priorities.",
		MetaData: map[string]interface{}{
			schema.MetaSource:  "WHO",
			schema.MetaDocType: "education",
		},
	},
}

// BootstrapSamples 在集合为空时注入内置示例知识，重复调用不会重复注入
func (s *Store) BootstrapSamples(ctx context.Context) error {
	count, err := s.vs.Count(ctx, s.collection)
	if err != nil {
		return err
	}
	if count > 0 {
		g.Log().Debugf(ctx, "Knowledge collection %s already has %d chunks, skipping bootstrap", s.collection, count)
		return nil
	}

	added, err := s.Ingest(ctx, sampleDocuments)
	if err != nil {
		return err
	}
	g.Log().Infof(ctx, "Bootstrapped knowledge base with %d sample documents", added)
	return nil
}
