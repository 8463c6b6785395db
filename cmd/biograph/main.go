package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"biograph/pkg/analysis"
	"biograph/pkg/biography"
	"biograph/pkg/diag"
	"biograph/pkg/extract"
	"biograph/pkg/jptext"
	"biograph/pkg/report"
	"biograph/pkg/wikipedia"
)

func main() {
	// Optional .env; absence is normal.
	_ = godotenv.Load()

	personFlag := flag.String("person", "", "Wikipedia page title of the person to analyze")
	outFlag := flag.String("out", "output", "Directory for the JSON and HTML reports")
	cacheFlag := flag.String("cache", envOr("BIOGRAPH_CACHE", "biograph.db"), "Path to the SQLite page cache ('' disables caching)")
	apiFlag := flag.String("api-url", envOr("BIOGRAPH_API_URL", wikipedia.DefaultBaseURL), "MediaWiki API endpoint")
	logDirFlag := flag.String("log-dir", os.Getenv("BIOGRAPH_LOG_DIR"), "Directory for rotating log files ('' logs to stderr)")
	kagomeFlag := flag.Bool("kagome", false, "Use dictionary-backed person name detection")
	verboseFlag := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *personFlag == "" {
		log.Fatal("Please provide a -person page title")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level := slog.LevelInfo
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger, closeLog := diag.New(diag.Options{Level: level, Dir: *logDirFlag})
	defer closeLog()

	if err := run(ctx, logger, *personFlag, *outFlag, *cacheFlag, *apiFlag, *kagomeFlag); err != nil {
		logger.Error("run failed", "person", *personFlag, "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, person, outDir, cachePath, apiURL string, useKagome bool) error {
	var cache *wikipedia.Cache
	if cachePath != "" {
		conn, err := sql.Open("sqlite3", cachePath)
		if err != nil {
			return fmt.Errorf("open cache database: %w", err)
		}
		defer conn.Close()
		if err := wikipedia.InitCacheDB(conn); err != nil {
			return err
		}
		cache = wikipedia.NewCache(conn, 0)
	}

	client := wikipedia.NewClient(apiURL, cache, logger)
	page, err := client.FetchPage(ctx, person)
	if err != nil {
		return err
	}

	infobox, err := wikipedia.ParseInfobox(page.HTML, page.Title)
	if err != nil {
		return err
	}
	body, err := wikipedia.BodyText(page.HTML, page.Title)
	if err != nil {
		return err
	}

	pipeline := extract.NewPipeline(logger)

	var analyzer *jptext.Analyzer
	if useKagome {
		analyzer, err = jptext.NewAnalyzer()
		if err != nil {
			return fmt.Errorf("create analyzer: %w", err)
		}
		pipeline.Relations = extract.NewRelationExtractor(extract.NewKagomeDetector(analyzer), logger)
	}

	record, err := pipeline.Run(ctx, extract.Source{
		PersonName: infobox.Name,
		BirthCell:  infobox.BirthCell(),
		DeathCell:  infobox.DeathCell(),
		Body:       body,
		Fields:     infobox.Fields,
		Categories: page.Categories,
	})
	if err != nil {
		return err
	}

	doc := buildDocument(record, analyzer)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	base := safeFileName(person)
	jsonPath := filepath.Join(outDir, base+".json")
	htmlPath := filepath.Join(outDir, base+".html")
	if err := writeFile(jsonPath, func(f *os.File) error { return report.WriteJSON(f, doc) }); err != nil {
		return err
	}
	if err := writeFile(htmlPath, func(f *os.File) error { return report.WriteHTML(f, doc) }); err != nil {
		return err
	}

	logger.Info("reports written",
		"person", person, "json", jsonPath, "html", htmlPath,
		"timeline_events", len(record.Timeline), "relations", len(record.Relations.Relations))
	fmt.Printf("Wrote %s and %s\n", jsonPath, htmlPath)
	return nil
}

func buildDocument(record biography.Record, analyzer *jptext.Analyzer) *report.Document {
	doc := &report.Document{
		Record:          record,
		ActivityPeriods: analysis.ActivityPeriods(record.Timeline),
		TurningPoints:   analysis.TurningPoints(record.Timeline),
	}
	if analyzer != nil {
		doc.WordFrequencies = analysis.NewWordCounter(analyzer).Count(record.Timeline)
	}
	return doc
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// safeFileName flattens path separators so a page title (Wikipedia
// subpage titles contain slashes) cannot escape the output directory.
func safeFileName(title string) string {
	return strings.NewReplacer("/", "_", "\\", "_").Replace(title)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
