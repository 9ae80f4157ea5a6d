package mindmate

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	v1 "github.com/mindmate-ai/mindmate/api/mindmate/v1"
	"github.com/mindmate-ai/mindmate/internal/service"
	"github.com/mindmate-ai/mindmate/pkg/schema"
)

func (c *ControllerV1) KnowledgeAdd(ctx context.Context, req *v1.KnowledgeAddReq) (res *v1.KnowledgeAddRes, err error) {
	g.Log().Infof(ctx, "Knowledge add request received - %d documents", len(req.Documents))

	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	docs := make([]*schema.Document, 0, len(req.Documents))
	for _, d := range req.Documents {
		meta := map[string]interface{}{}
		if d.Source != "" {
			meta[schema.MetaSource] = d.Source
		}
		if d.DocType != "" {
			meta[schema.MetaDocType] = d.DocType
		}
		docs = append(docs, &schema.Document{
			Content:  d.Text,
			MetaData: meta,
		})
	}

	added, err := engine.IngestKnowledge(ctx, docs)
	if err != nil {
		return nil, err
	}
	return &v1.KnowledgeAddRes{Added: added}, nil
}

func (c *ControllerV1) Stats(ctx context.Context, req *v1.StatsReq) (res *v1.StatsRes, err error) {
	engine, err := service.GetEngine()
	if err != nil {
		return nil, err
	}

	stats, err := engine.GetStats(ctx)
	if err != nil {
		return nil, err
	}

	return &v1.StatsRes{
		ActiveSessions: stats.ActiveSessions,
		TotalMessages:  stats.TotalMessages,
		DocumentCount:  stats.DocumentCount,
		VectorStore:    stats.VectorStore,
		Model:          stats.Model,
	}, nil
}
