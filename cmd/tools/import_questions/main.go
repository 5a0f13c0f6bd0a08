package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/cultureg-bot-go/internal/domain"
	"github.com/kapu/cultureg-bot-go/internal/quiz"
	"github.com/kapu/cultureg-bot-go/internal/service/database"
	"github.com/kapu/cultureg-bot-go/internal/service/question"
)

const (
	userAgent      = "Mozilla/5.0 (compatible; CultureGBot/1.0)"
	requestTimeout = 15 * time.Second
)

// CLI flags
var (
	source   = flag.String("source", "", "HTML file path or http(s) URL holding a question table")
	selector = flag.String("selector", "table", "CSS selector of the question tables")
	builtin  = flag.Bool("builtin", false, "Import the built-in questions")
	dryRun   = flag.Bool("dry-run", false, "Parse and validate without writing to the database")
	dbHost   = flag.String("db-host", "localhost", "PostgreSQL host")
	dbPort   = flag.Int("db-port", 5432, "PostgreSQL port")
	dbUser   = flag.String("db-user", "cultureg", "PostgreSQL user")
	dbPass   = flag.String("db-pass", "", "PostgreSQL password")
	dbName   = flag.String("db-name", "cultureg", "PostgreSQL database")
)

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *source == "" && !*builtin {
		fmt.Fprintln(os.Stderr, "either -source or -builtin is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	questions := make([]domain.Question, 0)
	if *builtin {
		questions = append(questions, domain.DefaultQuestions()...)
	}
	if *source != "" {
		parsed, err := loadSource(ctx, *source, *selector)
		if err != nil {
			logger.Fatal("failed to read questions", zap.String("source", *source), zap.Error(err))
		}
		logger.Info("Questions parsed", zap.String("source", *source), zap.Int("count", len(parsed)))
		questions = append(questions, parsed...)
	}

	// same rules as the bot applies at startup
	bank, err := quiz.NewBank(questions)
	if err != nil {
		logger.Fatal("invalid questions", zap.Error(err))
	}

	if *dryRun {
		for i, q := range bank.Questions() {
			logger.Info("Question",
				zap.Int("index", i+1),
				zap.String("prompt", q.Prompt),
				zap.String("answer", q.Answer),
				zap.String("normalized", quiz.Normalize(q.Answer)),
			)
		}
		logger.Info("Dry run, nothing written", zap.Int("count", bank.Len()))
		return
	}

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     *dbHost,
		Port:     *dbPort,
		User:     *dbUser,
		Password: *dbPass,
		Database: *dbName,
	}, logger)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer postgresSvc.Close()

	repo := question.NewRepository(postgresSvc.GetDB(), logger)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to prepare schema", zap.Error(err))
	}

	count, err := repo.Upsert(ctx, bank.Questions())
	if err != nil {
		logger.Fatal("failed to import questions", zap.Error(err))
	}

	logger.Info("Import completed", zap.Int("count", count), zap.String("database", *dbName))
}

func loadSource(ctx context.Context, src, sel string) ([]domain.Question, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		body, err := fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return question.ParseHTMLTable(body, sel)
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return question.ParseHTMLTable(f, sel)
}

func fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	client := &http.Client{Timeout: requestTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
