package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fadilmartias/candidate-screener/internal/config"
	"github.com/fadilmartias/candidate-screener/internal/domain/fiber/handler"
	"github.com/fadilmartias/candidate-screener/internal/domain/fiber/server"
	"github.com/fadilmartias/candidate-screener/internal/repository"
	"github.com/fadilmartias/candidate-screener/internal/service"
	"github.com/fadilmartias/candidate-screener/internal/usecase"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&servePort, "port", "", "Address to listen on (overrides APP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	appConfig := config.LoadAppConfig()
	dbConfig := config.LoadDBConfig()
	llmConfig := config.LoadLLMConfig()

	port := appConfig.Port
	if servePort != "" {
		port = servePort
	}

	store, err := NewKVStore(dbConfig, appConfig)
	if err != nil {
		return err
	}
	candidateRepo := repository.NewCandidateRepository(store)

	scorer := service.NewScoringService(llmConfig, service.NewTextGenerator(llmConfig))
	if llmConfig.APIKey == "" {
		log.Printf("Warning: no API key for provider %s, questionnaire scoring will fail", llmConfig.Provider)
	}

	app := server.NewApp(appConfig,
		handler.NewCandidateHandler(usecase.NewCandidateUsecase(candidateRepo)),
		handler.NewQuestionnaireHandler(usecase.NewQuestionnaireUsecase(candidateRepo, scorer)),
		handler.NewSystemHandler(usecase.NewDiagnosticsUsecase(scorer)),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server running on %s (storage=%s, evaluator=%s/%s)", port, dbConfig.Driver, llmConfig.Provider, llmConfig.Model)
		return app.Listen(port)
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	// Monitor goroutine count
	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				log.Printf("Active goroutines: %d", runtime.NumGoroutine())
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Println("Server closed")
	return nil
}
