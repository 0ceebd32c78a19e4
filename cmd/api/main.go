package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rgoyals/bahikhata/internal/auth"
	"github.com/rgoyals/bahikhata/internal/config"
	"github.com/rgoyals/bahikhata/internal/database"
	"github.com/rgoyals/bahikhata/internal/delivery"
	"github.com/rgoyals/bahikhata/internal/expense"
	expenseStore "github.com/rgoyals/bahikhata/internal/expense/store"
	"github.com/rgoyals/bahikhata/internal/extract"
	bahiHttp "github.com/rgoyals/bahikhata/internal/http"
	expenseHandler "github.com/rgoyals/bahikhata/internal/http/expense"
	healthHandler "github.com/rgoyals/bahikhata/internal/http/health"
	invoiceHandler "github.com/rgoyals/bahikhata/internal/http/invoice"
	reportHandler "github.com/rgoyals/bahikhata/internal/http/report"
	userHandler "github.com/rgoyals/bahikhata/internal/http/user"
	webhookHandler "github.com/rgoyals/bahikhata/internal/http/webhook"
	"github.com/rgoyals/bahikhata/internal/intent"
	"github.com/rgoyals/bahikhata/internal/invoice"
	invoiceStore "github.com/rgoyals/bahikhata/internal/invoice/store"
	"github.com/rgoyals/bahikhata/internal/orchestrator"
	"github.com/rgoyals/bahikhata/internal/rag"
	"github.com/rgoyals/bahikhata/internal/report"
	"github.com/rgoyals/bahikhata/internal/upstream"
	"github.com/rgoyals/bahikhata/internal/user"
	userStore "github.com/rgoyals/bahikhata/internal/user/store"
)

// transcriptText adapts the ASR client to the text-only slice the
// orchestrator consumes.
type transcriptText struct {
	client *upstream.ASRClient
}

func (t transcriptText) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	transcript, err := t.client.Transcribe(ctx, audio, filename)
	if err != nil {
		return "", err
	}

	return transcript.Text, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.Migrate(migrateCtx, db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	var (
		asrClient      = upstream.NewASRClient(cfg.Upstream.ASRURL, cfg.Upstream.Timeout)
		ocrClient      = upstream.NewOCRClient(cfg.Upstream.OCRURL, cfg.Upstream.Timeout)
		generateClient = upstream.NewGenerateClient(cfg.Upstream.GenerateURL, cfg.Upstream.Timeout)
		retrieveClient = upstream.NewRetrieveClient(cfg.Upstream.RetrieveURL, cfg.Upstream.Timeout)
	)

	intentRules := intent.DefaultRules()

	if cfg.Intent.RulesFile != "" {
		intentRules, err = intent.LoadRules(cfg.Intent.RulesFile)
		if err != nil {
			slog.Error("failed to load intent rules", "error", err)
			os.Exit(1)
		}
	}

	categoryRules := report.DefaultCategoryRules()

	if cfg.Report.RulesFile != "" {
		categoryRules, err = report.LoadCategoryRules(cfg.Report.RulesFile)
		if err != nil {
			slog.Error("failed to load report category rules", "error", err)
			os.Exit(1)
		}
	}

	var channel delivery.Sender
	if cfg.WhatsApp.Token != "" && cfg.WhatsApp.PhoneNumberID != "" {
		channel = delivery.NewWhatsAppClient(cfg.WhatsApp.Token, cfg.WhatsApp.PhoneNumberID)
	}

	sender := delivery.NewFallbackSender(channel, delivery.NewStub(slog.Default()))

	var (
		userService    = user.NewService(userStore.New(db))
		authService    = auth.NewService(cfg.Auth.Secret, cfg.Auth.TokenExpiry, userService)
		expenseService = expense.NewService(expenseStore.New(db))
		invoiceService = invoice.NewService(invoiceStore.New(db))
		reportService  = report.NewService(expenseService, categoryRules)
		classifier     = intent.NewClassifier(intentRules, intent.Mode(cfg.Intent.Mode), generateClient)
		extractEngine  = extract.NewEngine(generateClient)
		augmenter      = rag.NewAugmenter(retrieveClient)
	)

	orchestratorService := orchestrator.NewService(orchestrator.Params{
		Transcriber: transcriptText{client: asrClient},
		Recognizer:  ocrClient,
		Classifier:  classifier,
		Extractor:   extractEngine,
		Generator:   generateClient,
		Augmenter:   augmenter,
		Expenses:    expenseService,
		Invoices:    invoiceService,
		Sender:      sender,
	})

	var (
		webhookH = webhookHandler.NewHandler(orchestratorService)
		expenseH = expenseHandler.NewHandler(expenseService)
		invoiceH = invoiceHandler.NewHandler(invoiceService)
		reportH  = reportHandler.NewHandler(reportService)
		userH    = userHandler.NewHandler(userService, authService)
		healthH  = healthHandler.NewHandler(db, map[string]healthHandler.Pinger{
			upstream.CollaboratorASR:      asrClient,
			upstream.CollaboratorOCR:      ocrClient,
			upstream.CollaboratorGenerate: generateClient,
			upstream.CollaboratorRetrieve: retrieveClient,
		})
	)

	router := bahiHttp.New(authService, webhookH, expenseH, invoiceH, reportH, userH, healthH)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	if err := server.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
