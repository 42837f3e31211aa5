package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/finance-dashboard/internal/advice"
	"github.com/zombor/finance-dashboard/internal/bill"
	"github.com/zombor/finance-dashboard/internal/camera"
	"github.com/zombor/finance-dashboard/internal/camera/webcam"
	"github.com/zombor/finance-dashboard/internal/dashboard"
	"github.com/zombor/finance-dashboard/internal/finance"
	"github.com/zombor/finance-dashboard/internal/scanning"
	"github.com/zombor/finance-dashboard/internal/scanning/tesseract"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("finance-dashboard")
	var (
		port         = fs.IntLong("port", 8080, "HTTP server port")
		ocrLang      = fs.StringLong("ocr-lang", scanning.DefaultLanguage, "Tesseract language model used to read bills")
		cameraDevice = fs.IntLong("camera-device", 0, "Camera device index; negative disables the camera")
		advisorType  = fs.StringLong("advisor", "gemini", "AI advisor: 'gemini', 'ollama' or 'none'")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", advice.DefaultGeminiModel, "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llama3", "Ollama model name")
		seed         = fs.BoolLong("seed", "Start with demo transactions")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("FINANCE_DASHBOARD"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Initialize the advisor; without one the dashboard still scans and
	// tracks, it just can't answer questions
	var advisor advice.Advisor
	switch *advisorType {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Warn("No Gemini API key. Set --gemini-key flag or GEMINI_API_KEY environment variable to enable the advisor")
			break
		}
		slog.Info("Initializing Gemini advisor...", "model", *geminiModel)
		gemini, err := advice.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
		advisor = gemini
	case "ollama":
		slog.Info("Initializing Ollama advisor...", "url", *ollamaURL, "model", *ollamaModel)
		ollama, err := advice.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
		advisor = ollama
	case "none":
		slog.Info("AI advisor disabled")
	default:
		slog.Error("Invalid advisor type", "type", *advisorType, "valid", "gemini, ollama or none")
		os.Exit(1)
	}
	if advisor != nil {
		defer advisor.Close()
	}

	// Initialize bill scanner
	slog.Info("Initializing bill scanner...", "ocr_lang", *ocrLang)
	pipeline := scanning.NewPipeline(scanning.NewRecognizer(*ocrLang, tesseract.New))

	var device camera.Device
	if *cameraDevice >= 0 {
		device = webcam.New(*cameraDevice)
	} else {
		slog.Info("Camera disabled")
	}
	session := bill.NewSession(pipeline, device)
	defer session.Close()

	// Initialize ledger
	ledger := finance.NewLedger()
	if *seed {
		ledger.Seed()
	}

	// Initialize server
	server := dashboard.NewServer(session, ledger, advisor)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
