// Package main is the entry point of the text-intelligence gateway.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"text-intel-go/internal/config"
	"text-intel-go/internal/handler"
	"text-intel-go/internal/pipeline"
	"text-intel-go/internal/service"
	"text-intel-go/pkg/embedding"
	"text-intel-go/pkg/extract"
	"text-intel-go/pkg/llm"
	"text-intel-go/pkg/log"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// 1. configuration
	config.Init(*configPath)
	cfg := config.Conf

	// 2. logging
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("logger initialised")

	// 3. model providers and embeddings
	dispatcher := llm.NewDispatcher(cfg.LLM)
	embeddingClient, err := embedding.NewClient(cfg.Embedding)
	if err != nil {
		log.Fatalf("embedding client init failed: %v", err)
	}
	log.Infof("embedding model: %s, models: %v", embeddingClient.ModelName(), dispatcher.Models())

	// 4. retrieval pipeline
	chunker, err := pipeline.NewChunker(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap, cfg.RAG.Separator)
	if err != nil {
		log.Fatalf("chunker init failed: %v", err)
	}
	processor := pipeline.NewProcessor(
		extract.NewExtractor(cfg.Upload.MaxFileSize()),
		chunker,
		pipeline.NewIndexer(embeddingClient, cfg.Embedding.Concurrency),
	)

	// 5. services
	summaryService := service.NewSummaryService(processor, dispatcher, cfg.RAG)
	answerService := service.NewAnswerService(processor, dispatcher, cfg.RAG.QATopK)

	// 6. routes
	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(handler.Handlers{
		Summary: handler.NewSummaryHandler(summaryService),
		Text: handler.NewTextHandler(
			service.NewSentimentService(dispatcher),
			service.NewEntityService(dispatcher),
			service.NewCodeService(dispatcher),
			answerService,
		),
		Document: handler.NewDocumentHandler(answerService),
		Meta:     handler.NewMetaHandler(dispatcher),
		Limits: handler.BodyLimits{
			JSON:   cfg.Server.MaxJSONBody(),
			Upload: cfg.Upload.MaxFileSize(),
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP listen failed: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, closing server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("HTTP server shutdown failed: %v", err)
	}
	log.Info("server stopped")
}
