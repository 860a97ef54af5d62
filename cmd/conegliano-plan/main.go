package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Norris36/conegliano-utilities/internal/catalog"
	"github.com/Norris36/conegliano-utilities/internal/history"
	"github.com/Norris36/conegliano-utilities/internal/workout"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	catalogPath := flag.String("catalog", "", "path to exercise catalog CSV")
	catalogURL := flag.String("url", "", "URL of exercise catalog CSV (alternative to -catalog)")
	daysFlag := flag.String("days", "3,4,5", "comma-separated target difficulty levels")
	coverage := flag.Bool("coverage", true, "guarantee at least one exercise per area")
	tolerance := flag.Float64("tolerance", workout.DefaultTolerance, "allowed deviation from target mean difficulty")
	seed := flag.Uint64("seed", 0, "fixed random seed (0 = random)")
	outDir := flag.String("out", "data/workouts", "directory for plan CSV output ('' disables)")
	stateDir := flag.String("state", "", "history directory (default ~/.conegliano)")
	list := flag.Int("list", 0, "print the last N generated plans and exit")
	debug := flag.Bool("debug", false, "enable debug logging")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("conegliano-plan", Version)
		return
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Resolve history directory
	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".conegliano")
	}

	hist, err := history.Open(*stateDir)
	if err != nil {
		log.Error("failed to open history database", "error", err)
		os.Exit(1)
	}
	defer hist.Close()

	if *list > 0 {
		printHistory(hist, *list)
		return
	}

	if *catalogPath == "" && *catalogURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: conegliano-plan -catalog data.csv [-days 3,4,5] [-coverage] [-seed N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	levels, err := parseDays(*daysFlag)
	if err != nil {
		log.Error("invalid -days flag", "error", err)
		os.Exit(1)
	}

	// Load catalog
	var cat *catalog.Catalog
	if *catalogPath != "" {
		cat, err = catalog.LoadFile(*catalogPath)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		cat, err = catalog.Fetch(ctx, nil, *catalogURL)
	}
	if err != nil {
		log.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "exercises", cat.Len(), "areas", len(cat.Areas()))

	// Build plan
	opts := []workout.Option{workout.WithLogger(log)}
	if *seed != 0 {
		opts = append(opts, workout.WithRand(rand.New(rand.NewPCG(*seed, 0))))
	}
	builder := workout.NewBuilder(workout.NewAllocator(cat, opts...), log)
	builder.Tolerance = *tolerance

	plan, err := builder.BuildPlan(levels, workout.BuildOptions{Coverage: *coverage})
	if err != nil {
		log.Error("plan generation failed", "error", err)
		os.Exit(1)
	}

	if err := plan.WriteCSV(os.Stdout); err != nil {
		log.Error("printing plan failed", "error", err)
		os.Exit(1)
	}

	csvPath := ""
	if *outDir != "" {
		plan.SaveToDir(*outDir, log)
		csvPath = filepath.Join(*outDir, "latest_workout.csv")
	}

	// Record in local history; failure here must not fail the run.
	means := make([]string, len(plan.Days))
	for i, d := range plan.Days {
		means[i] = strconv.FormatFloat(d.Mean, 'f', 2, 64)
	}
	err = hist.Record(history.Entry{
		Levels:   *daysFlag,
		Means:    strings.Join(means, ","),
		Coverage: *coverage,
		CSVPath:  csvPath,
	})
	if err != nil {
		log.Warn("recording plan in history failed", "error", err)
	}
}

func parseDays(s string) ([]int, error) {
	var levels []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad difficulty level %q", part)
		}
		levels = append(levels, n)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no difficulty levels")
	}
	return levels, nil
}

func printHistory(hist *history.DB, n int) {
	entries, err := hist.Recent(n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, e := range entries {
		mode := "quota"
		if e.Coverage {
			mode = "coverage"
		}
		fmt.Printf("%4d  %s  days=%s  means=%s  mode=%s  %s\n",
			e.ID, e.CreatedAt.Format("2006-01-02 15:04"), e.Levels, e.Means, mode, e.CSVPath)
	}
}
