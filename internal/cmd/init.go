package cmd

import (
	"context"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/mindmate-ai/mindmate/core/config"
	"github.com/mindmate-ai/mindmate/core/file_store"
	"github.com/mindmate-ai/mindmate/internal/service"
)

// initComponents initializes all components of the application
func initComponents(ctx context.Context) {
	// Validate configuration before initializing components
	g.Log().Info(ctx, "Validating application configuration...")
	if err := config.ValidateConfiguration(ctx); err != nil {
		g.Log().Fatalf(ctx, "Configuration validation failed:\n%v", err)
	}

	// Initialize export storage system
	if err := file_store.InitStorage(ctx); err != nil {
		g.Log().Fatalf(ctx, "Export storage initialization failed: %v", err)
	}

	// Initialize the conversation engine (vector store, embedder, knowledge base, sessions)
	if err := service.InitEngine(ctx); err != nil {
		g.Log().Fatalf(ctx, "Engine initialization failed: %v", err)
	}

	g.Log().Info(ctx, "✓ All components initialized successfully")
}
