package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/repscan"
	"github.com/fwojciec/repscan/ahocorasick"
	"github.com/fwojciec/repscan/fs"
	"github.com/fwojciec/repscan/gemini"
	"github.com/fwojciec/repscan/openai"
	"github.com/fwojciec/repscan/pipeline"
	rsslog "github.com/fwojciec/repscan/slog"
	"github.com/fwojciec/repscan/sqlite"
	"github.com/fwojciec/repscan/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := LoadEnv(".env.local", ".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// LoadEnv loads environment files in order. Missing files are skipped and
// variables already set are never overridden.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Main represents the program.
type Main struct {
	// SQLite database used by the history service.
	DB *sqlite.DB

	// Services for end-to-end testing. When set, Run uses them instead of
	// building real ones.
	Extractor repscan.Extractor
	Analyzer  repscan.Analyzer
	History   repscan.AnalysisService
	Bot       BotRunner

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for _, c := range m.closers {
		errs = append(errs, c.Close())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
		m.DB = nil
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("repscan"),
		kong.Description("Extract web pages and classify their reputational impact"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'repscan --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = NewLogger(stderr, cli.LogLevel, cli.LogFormat, cli.Verbose)
	defer m.Close()

	if cmd == "analyze" || cmd == "bot" || cmd == "history" {
		if err := m.wireHistory(cli, deps, cmd == "history"); err != nil {
			return err
		}
	}

	if cmd == "analyze" || cmd == "bot" || cmd == "extract" {
		if err := m.wireExtractor(cli, deps); err != nil {
			return err
		}
	}

	if cmd == "analyze" || cmd == "bot" {
		if err := m.wireAnalyzer(ctx, cli, deps, stderr); err != nil {
			return err
		}
	}

	if cmd == "bot" {
		if err := m.wireBot(cli, deps, stderr); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// NewLogger builds the process logger. Verbose lowers the level to info when
// it is set higher.
func NewLogger(w io.Writer, level, format string, verbose bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	if verbose && lvl > slog.LevelInfo {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// wireHistory opens the history database. Only the history command
// requires it; the others run without a history when it cannot be opened.
func (m *Main) wireHistory(cli *CLI, deps *Dependencies, required bool) error {
	if m.History != nil {
		deps.History = m.History
		return nil
	}

	path := cli.DB
	if path == "" {
		path = defaultDBPath()
	}
	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		if required {
			fmt.Fprintf(deps.Stderr, "Hint: Set REPSCAN_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", path, err)
		}
		deps.Logger.Warn("history disabled", "db", path, "err", err)
		return nil
	}
	m.DB = db
	deps.History = sqlite.NewAnalysisService(db)
	return nil
}

func (m *Main) wireExtractor(cli *CLI, deps *Dependencies) error {
	if m.Extractor != nil {
		deps.Extractor = m.Extractor
		return nil
	}

	specs, err := ParseStrategies(cli.Strategies, cli.ScrapingBeeKey != "", cli.Browser)
	if err != nil {
		return err
	}
	strategies, closers, err := BuildStrategies(specs, StrategyConfig{
		ScrapingBeeKey:     cli.ScrapingBeeKey,
		ScrapingBeeCountry: cli.ScrapingBeeCountry,
		BrowserBin:         cli.BrowserBin,
		MinLength:          cli.MinLength,
	})
	if err != nil {
		return err
	}
	m.closers = append(m.closers, closers...)

	if cli.Verbose {
		for i := range strategies {
			strategies[i].Fetcher = rsslog.NewLoggingFetcher(strategies[i].Fetcher, deps.Logger)
		}
	}

	deps.Extractor = &pipeline.Orchestrator{
		Strategies: strategies,
		Logger:     deps.Logger,
		MinLength:  cli.MinLength,
	}
	return nil
}

func (m *Main) wireAnalyzer(ctx context.Context, cli *CLI, deps *Dependencies, stderr io.Writer) error {
	if m.Analyzer != nil {
		deps.Analyzer = m.Analyzer
		return nil
	}

	policy, err := LoadPolicy(cli.Policy)
	if err != nil {
		return err
	}

	classifier, err := newClassifier(ctx, cli, policy, stderr)
	if err != nil {
		return err
	}

	deps.Analyzer = &pipeline.Analyzer{
		Extractor:  deps.Extractor,
		Classifier: rsslog.NewLoggingClassifier(classifier, deps.Logger),
		Triggers:   ahocorasick.NewMatcher(policy.Triggers),
		Sink:       rsslog.NewLoggingSink(fs.NewSink(cli.ResultsDir), deps.Logger),
		History:    deps.History,
		Logger:     deps.Logger,
	}
	return nil
}

func newClassifier(ctx context.Context, cli *CLI, policy *repscan.Policy, stderr io.Writer) (repscan.Classifier, error) {
	switch cli.LLM {
	case "gemini":
		if cli.GeminiKey == "" {
			fmt.Fprintln(stderr, "Hint: Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewClassifier(client.Models, policy,
			gemini.WithModel(cli.GeminiModel),
			gemini.WithMaxInputChars(cli.MaxInput),
		), nil
	default:
		if cli.OpenAIKey == "" {
			fmt.Fprintln(stderr, "Hint: Set OPENAI_API_KEY or use --llm=gemini")
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return openai.NewClassifier(openai.NewClient(cli.OpenAIKey, cli.OpenAIBaseURL), policy,
			openai.WithModel(cli.OpenAIModel),
			openai.WithMaxInputChars(cli.MaxInput),
		), nil
	}
}

func (m *Main) wireBot(cli *CLI, deps *Dependencies, stderr io.Writer) error {
	if m.Bot != nil {
		deps.Bot = m.Bot
		return nil
	}

	if cli.Bot.Token == "" {
		fmt.Fprintln(stderr, "Hint: Create a bot with @BotFather and set TELEGRAM_BOT_TOKEN")
		return fmt.Errorf("TELEGRAM_BOT_TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(cli.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	handler := &telegram.Handler{
		Analyzer: deps.Analyzer,
		Timeout:  cli.Bot.Timeout,
		Logger:   deps.Logger,
	}
	deps.Bot = telegram.NewBot(api, handler,
		telegram.WithConcurrency(cli.Bot.Concurrency),
		telegram.WithLimiter(telegram.NewChatLimiter(cli.Bot.ChatRPS, cli.Bot.ChatBurst)),
		telegram.WithLogger(deps.Logger),
	)
	deps.Logger.Info("telegram connected", "bot", api.Self.UserName)
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "repscan.db"
	}
	dir := filepath.Join(home, ".repscan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history.db")
}
