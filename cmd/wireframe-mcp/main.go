package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/wireframe-mcp/internal/canvas"
	"github.com/ironsheep/wireframe-mcp/internal/config"
	"github.com/ironsheep/wireframe-mcp/internal/logging"
	"github.com/ironsheep/wireframe-mcp/internal/ocr"
	"github.com/ironsheep/wireframe-mcp/internal/server"
	"github.com/ironsheep/wireframe-mcp/internal/wireframe"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("wireframe-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  OCR:        %s\n", ocr.GetInfo(ocr.DefaultOptions()).Backend)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load(config.DefaultEnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wireframe-mcp: %v\n", err)
		os.Exit(1)
	}

	// stdout is for MCP protocol
	logger := logging.New(cfg.LogLevel, os.Stderr)
	ocrInfo := ocr.GetInfo(cfg.Pipeline().OCR)
	fields := logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"ocr":     ocrInfo.Available,
	}
	if ocrInfo.Error != "" {
		fields["ocr_error"] = ocrInfo.Error
	}
	logger.WithFields(fields).Info("starting wireframe MCP server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipeline := wireframe.New(cfg.Pipeline(), ocr.NewTesseract, logger)
	srv := server.New(pipeline, canvas.NewStore(), logger).WithVersion(Version)

	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("server error")
	}
}

func printHelp() {
	fmt.Println("wireframe-mcp - MCP server that turns UI sketches into wireframe elements")
	fmt.Println()
	fmt.Println("Usage: wireframe-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables (also read from ./.env):")
	fmt.Println("  WIREFRAME_LOG_LEVEL=info          debug, info, warn or error")
	fmt.Println("  WIREFRAME_CANONICAL_WIDTH=1000    Canvas width images are scaled to")
	fmt.Println("  WIREFRAME_THRESHOLD=180           Grayscale cutoff for ink")
	fmt.Println("  WIREFRAME_BLUR_RADIUS=0           Gaussian denoise before thresholding")
	fmt.Println("  WIREFRAME_MAX_CANVAS_PIXELS=20000000  Reject images whose canvas exceeds this")
	fmt.Println("  WIREFRAME_MIN_BLOB_WIDTH=20       Shape size floor (width)")
	fmt.Println("  WIREFRAME_MIN_BLOB_HEIGHT=20      Shape size floor (height)")
	fmt.Println("  WIREFRAME_MIN_BLOB_PIXELS=100     Shape size floor (ink pixels)")
	fmt.Println("  WIREFRAME_OCR_LANGUAGE=eng        Tesseract language")
	fmt.Println("  WIREFRAME_TESSDATA_PREFIX=        Tesseract language data directory")
	fmt.Println()
	fmt.Println("Text recognition requires a build with -tags ocr and Tesseract installed.")
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
}
