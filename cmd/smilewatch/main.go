package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/app"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/services/feedback"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles configPaths
	action      = flag.String("action", "", "Action: analyze | pending | feedback | daily | weekly | serve")
	file        = flag.String("file", "", "Input file: post text for analyze, feedback lines for feedback (default stdin)")
	contentID   = flag.Int64("content-id", 0, "Content ID for the analyze action")
	date        = flag.String("date", "", "Report date YYYY-MM-DD (daily: the day, weekly: the last day; default yesterday)")
	showVersion = flag.Bool("version", false, "Print version information")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("Smilewatch version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("smilewatch.toml"); err == nil {
			configFiles = append(configFiles, "smilewatch.toml")
		}
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		arbor.NewLogger().Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	application, err := app.New(config, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()

	switch *action {
	case "analyze":
		err = runAnalyze(ctx, application)
	case "pending":
		err = runPending(ctx, application)
	case "feedback":
		err = runFeedback(ctx, application)
	case "daily":
		err = runReport(ctx, application, false)
	case "weekly":
		err = runReport(ctx, application, true)
	case "serve":
		err = runServe(application)
	default:
		flag.Usage()
		err = fmt.Errorf("unknown action '%s'", *action)
	}

	if err != nil {
		logger.Error().Err(err).Str("action", *action).Msg("Action failed")
		os.Exit(1)
	}
}

// runAnalyze scores one post's text and stores the prediction
func runAnalyze(ctx context.Context, application *app.App) error {
	if *contentID <= 0 {
		return fmt.Errorf("analyze requires a positive -content-id")
	}
	text, err := readInput(*file)
	if err != nil {
		return err
	}

	if err := application.InitMonitor(); err != nil {
		return err
	}

	prediction, err := application.MonitorService.AnalyzeText(ctx, *contentID, text)
	if err != nil {
		return err
	}

	fmt.Printf("content %d: %s (confidence %.0f%%, buy %.1f / sell %.1f)\n",
		*contentID, prediction.Label, prediction.Confidence*100, prediction.BuyScore, prediction.SellScore)
	return nil
}

// runPending lists predictions still waiting for feedback
func runPending(ctx context.Context, application *app.App) error {
	pending, err := application.FeedbackService.PendingList(ctx)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		fmt.Println("No predictions are waiting for feedback.")
		return nil
	}
	fmt.Printf("Predictions waiting for feedback (%d):\n", len(pending))
	for _, p := range pending {
		fmt.Printf("  content %d | %s | predicted: %s\n",
			p.ContentID, p.PredictedAt.Format("2006-01-02"), p.Label)
	}
	fmt.Println("\nRecord outcomes with -action feedback, one line per entry: content_id:actual_label:count")
	return nil
}

// runFeedback reads feedback lines and verifies the matching predictions
func runFeedback(ctx context.Context, application *app.App) error {
	input, err := readInput(*file)
	if err != nil {
		return err
	}

	entries, err := feedback.ParseBatch(strings.Split(input, "\n"))
	if err != nil {
		return err
	}

	result, err := application.FeedbackService.SubmitBatch(ctx, entries)
	if err != nil {
		return err
	}

	fmt.Printf("feedback recorded: %d succeeded, %d failed\n", result.Success, result.Fail)
	return nil
}

func runReport(ctx context.Context, application *app.App, weekly bool) error {
	var text string
	var err error
	if weekly {
		text, err = application.FeedbackService.WeeklyReport(ctx, *date)
	} else {
		text, err = application.FeedbackService.DailyReport(ctx, *date)
	}
	if err != nil {
		return err
	}

	fmt.Println(text)
	return nil
}

// runServe starts the report scheduler and blocks until interrupted
func runServe(application *app.App) error {
	if err := application.SchedulerService.Start(); err != nil {
		return err
	}

	for _, job := range application.SchedulerService.Jobs() {
		application.Logger.Info().
			Str("job", job.Name).
			Str("schedule", job.Schedule).
			Msg("Job scheduled")
	}
	application.Logger.Info().Msg("Scheduler running - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	application.Logger.Info().Msg("Interrupt signal received, shutting down")
	return application.SchedulerService.Stop()
}

// readInput reads the named file, or stdin when no file is given
func readInput(path string) (string, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	var b strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return b.String(), nil
}
