// Command shopflow runs the conversational shopping assistant: an HTTP server
// over the workflow engine, plus an ingestion command populating the vector
// store.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/shopflow"
	"github.com/hupe1980/shopflow/config"
	"github.com/hupe1980/shopflow/embedding"
	"github.com/hupe1980/shopflow/ingest"
	"github.com/hupe1980/shopflow/logging"
	"github.com/hupe1980/shopflow/model"
	anthropicmodel "github.com/hupe1980/shopflow/model/anthropic"
	openaimodel "github.com/hupe1980/shopflow/model/openai"
	qdrantstore "github.com/hupe1980/shopflow/retrieval/qdrant"
	"github.com/hupe1980/shopflow/server"
	"github.com/hupe1980/shopflow/step"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "shopflow",
		Short:        "Conversational shopping assistant",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file")

	cmd.AddCommand(newServeCmd(&configPath))
	cmd.AddCommand(newIngestCmd(&configPath))
	return cmd
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			chatModel, err := newChatModel(cfg)
			if err != nil {
				return err
			}
			embedder := embedding.NewOpenAIEmbedder()

			flow, err := shopflow.New(
				model.NewClassifier(chatModel),
				qdrantstore.NewRetriever(store, embedder, cfg.Collections.Products),
				qdrantstore.NewRetriever(store, embedder, cfg.Collections.FAQ),
				model.NewJudge(chatModel),
				model.NewGenerator(chatModel),
				func(o *shopflow.Options) {
					o.Logger = logger
					o.MaxConcurrentTurns = cfg.Workflow.MaxConcurrentTurns
					o.Workflow = []func(*step.WorkflowOptions){
						func(w *step.WorkflowOptions) { w.MaxAttempts = cfg.Workflow.MaxAttempts },
					}
				},
			)
			if err != nil {
				return err
			}

			srv := server.New(flow, func(o *server.Options) {
				o.Logger = logger
			})

			logger.Info("server listening", "addr", cfg.Server.Addr)
			return srv.Run(ctx, cfg.Server.Addr)
		},
	}
}

func newIngestCmd(configPath *string) *cobra.Command {
	var productsPath, faqsPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load product and FAQ records into the vector store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if productsPath == "" && faqsPath == "" {
				return fmt.Errorf("nothing to ingest: pass --products and/or --faqs")
			}

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := newStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			ingestor := ingest.NewIngestor(store, embedding.NewOpenAIEmbedder(), func(o *ingest.IngestorOptions) {
				o.Logger = logger
			})

			if productsPath != "" {
				if err := ingestFile(ctx, ingestor, productsPath, cfg.Collections.Products, ingest.LoadProducts); err != nil {
					return err
				}
			}
			if faqsPath != "" {
				if err := ingestFile(ctx, ingestor, faqsPath, cfg.Collections.FAQ, ingest.LoadFAQs); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&productsPath, "products", "", "JSON file with product records")
	cmd.Flags().StringVar(&faqsPath, "faqs", "", "JSON file with FAQ records")
	return cmd
}

func ingestFile(
	ctx context.Context,
	ingestor *ingest.Ingestor,
	path, collection string,
	load func(r io.Reader) ([]qdrantstore.Document, error),
) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := load(f)
	if err != nil {
		return err
	}
	return ingestor.Ingest(ctx, collection, docs)
}

func newLogger(cfg *config.Config) *logging.ShopflowLogger {
	level := logging.LogLevelInfo
	switch cfg.Logging.Level {
	case "debug":
		level = logging.LogLevelDebug
	case "warn":
		level = logging.LogLevelWarn
	case "error":
		level = logging.LogLevelError
	}
	return logging.NewSlogLogger(level, cfg.Logging.Format, false)
}

func newStore(ctx context.Context, cfg *config.Config) (*qdrantstore.Store, error) {
	return qdrantstore.NewStore(ctx, qdrantstore.Config{
		Host:       cfg.Qdrant.Host,
		Port:       cfg.Qdrant.Port,
		UseTLS:     cfg.Qdrant.UseTLS,
		APIKey:     cfg.Qdrant.APIKey,
		VectorSize: cfg.Qdrant.VectorSize,
	})
}

func newChatModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Model.Provider {
	case "openai":
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.Model.Name != "" {
				o.Model = openai.ChatModel(cfg.Model.Name)
			}
			o.Temperature = cfg.Model.Temperature
		}), nil
	case "anthropic":
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.Model.Name != "" {
				o.Model = anthropic.Model(cfg.Model.Name)
			}
			o.Temperature = cfg.Model.Temperature
		}), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Model.Provider)
	}
}
