package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/repscan"
)

// BotRunner runs the chat front end until ctx is canceled.
type BotRunner interface {
	Run(ctx context.Context) error
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor repscan.Extractor
	Analyzer  repscan.Analyzer
	History   repscan.AnalysisService
	Bot       BotRunner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Strategies string `env:"REPSCAN_STRATEGIES" help:"Comma-separated fetcher:selector pairs tried in order (default: http:goquery,http:readability, then scrapingbee and rod when enabled)"`
	Browser    bool   `env:"REPSCAN_BROWSER" help:"Enable the headless browser strategy in the default order"`
	BrowserBin string `env:"REPSCAN_BROWSER_BIN" help:"Path to a Chrome or Chromium binary"`
	MinLength  int    `env:"REPSCAN_MIN_LENGTH" default:"100" help:"Minimum characters a strategy must extract"`

	ScrapingBeeKey     string `name:"scrapingbee-key" env:"SCRAPINGBEE_API_KEY" help:"ScrapingBee API key; enables the scrapingbee strategy"`
	ScrapingBeeCountry string `name:"scrapingbee-country" env:"SCRAPINGBEE_COUNTRY" default:"br" help:"ScrapingBee proxy country code"`

	LLM           string `name:"llm" env:"REPSCAN_LLM" enum:"openai,gemini" default:"openai" help:"Classifier backend (openai, gemini)"`
	OpenAIKey     string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIModel   string `name:"openai-model" env:"OPENAI_MODEL" help:"OpenAI chat model"`
	OpenAIBaseURL string `name:"openai-base-url" env:"OPENAI_BASE_URL" help:"OpenAI-compatible API base URL"`
	GeminiKey     string `name:"gemini-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	GeminiModel   string `name:"gemini-model" env:"GEMINI_MODEL" help:"Gemini model"`
	MaxInput      int    `env:"REPSCAN_MAX_INPUT" default:"12000" help:"Maximum characters of extracted text sent to the model"`
	Policy        string `env:"REPSCAN_POLICY" type:"path" help:"Classification policy YAML file"`

	ResultsDir string `env:"REPSCAN_RESULTS_DIR" default:"results" type:"path" help:"Directory for result files"`
	DB         string `name:"db" env:"REPSCAN_DB" help:"Analysis history database path (default: ~/.repscan/history.db)"`
	Verbose    bool   `short:"v" help:"Log every fetch, classification and write"`
	LogLevel   string `name:"log-level" env:"REPSCAN_LOG_LEVEL" enum:"debug,info,warn,error" default:"warn" help:"Minimum log level (debug, info, warn, error)"`
	LogFormat  string `name:"log-format" env:"REPSCAN_LOG_FORMAT" enum:"text,json" default:"text" help:"Log output format (text, json)"`

	Bot     BotCmd     `cmd:"" help:"Run the Telegram bot"`
	Analyze AnalyzeCmd `cmd:"" help:"Analyse a single URL"`
	Extract ExtractCmd `cmd:"" help:"Extract the main text of a URL without classifying it"`
	History HistoryCmd `cmd:"" help:"List recent analyses"`
}

// BotCmd is the "bot" subcommand.
type BotCmd struct {
	Token       string        `env:"TELEGRAM_BOT_TOKEN" help:"Telegram bot token"`
	Concurrency int           `short:"c" default:"4" help:"Messages handled concurrently"`
	Timeout     time.Duration `default:"2m" help:"Deadline for a single analysis"`
	ChatRPS     float64       `name:"chat-rps" default:"0.2" help:"Analyses per second allowed per chat"`
	ChatBurst   int           `name:"chat-burst" default:"3" help:"Analyses a chat may start in a burst"`
}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	URL string `arg:"" help:"URL to analyse"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URL string `arg:"" help:"URL to extract"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int    `short:"n" default:"20" help:"Number of analyses to show"`
	Host  string `help:"Only show analyses for this host"`
}
