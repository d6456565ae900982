// cmd/tools/data-audit/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"pe-insights/internal/common/config"
	"pe-insights/internal/common/logger"
	integrityaudit "pe-insights/internal/maintenance/integrity-audit"
	newsdedupe "pe-insights/internal/maintenance/news-dedupe"
	"pe-insights/internal/store"
)

func main() {
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	dedupeCmd := flag.NewFlagSet("dedupe", flag.ExitOnError)
	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)

	var configPath, dataDir string
	for _, fs := range []*flag.FlagSet{validateCmd, dedupeCmd, reportCmd} {
		fs.StringVar(&configPath, "config", "", "Path to config file (default: configs/config.yaml)")
		fs.StringVar(&dataDir, "data-dir", "", "Override stores.data_dir")
	}

	// Validate command flags
	format := validateCmd.String("format", "yaml", "Output format (yaml, json)")
	maxDangling := validateCmd.Int("max", 500, "Maximum dangling references to list")

	// Dedupe command flags
	collection := dedupeCmd.String("collection", "firm_news", "News collection to dedupe (news, firm_news)")
	byTitle := dedupeCmd.Bool("by-title", false, "Also drop articles with a repeated title")
	dryRun := dedupeCmd.Bool("dry-run", false, "Report duplicates without rewriting the file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		validateCmd.Parse(os.Args[2:])
		cfg := mustLoadConfig(configPath, dataDir)
		os.Exit(validate(cfg, *format, *maxDangling, os.Stdout))

	case "dedupe":
		dedupeCmd.Parse(os.Args[2:])
		cfg := mustLoadConfig(configPath, dataDir)
		c, ok := store.ParseCollection(*collection)
		if !ok {
			fmt.Printf("Error: unknown collection %q\n", *collection)
			os.Exit(1)
		}
		os.Exit(dedupe(cfg, &newsdedupe.Input{Collection: c, ByTitle: *byTitle, DryRun: *dryRun}, os.Stdout))

	case "report":
		reportCmd.Parse(os.Args[2:])
		cfg := mustLoadConfig(configPath, dataDir)
		os.Exit(report(cfg, os.Stdout))

	default:
		help()
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: data-audit <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  validate  Check firm references across the stores (exit 1 on dangling references)")
	fmt.Println("  dedupe    Remove duplicate articles from a news store file")
	fmt.Println("  report    Print the load outcome and record count of every store")
}

func mustLoadConfig(path, dataDir string) *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if dataDir != "" {
		cfg.Stores.DataDir = dataDir
	}
	return cfg
}

func loadState(cfg *config.Config) (*store.State, *store.ReloadEvent) {
	st := store.New(cfg.Stores, logger.NewNoOpLogger())
	event := st.Load(context.Background())
	return st, event
}

func validate(cfg *config.Config, format string, maxDangling int, w io.Writer) int {
	st, _ := loadState(cfg)

	auditCfg := integrityaudit.LoadConfig()
	auditCfg.MaxDangling = maxDangling
	rep, err := integrityaudit.NewHandler(auditCfg, logger.NewNoOpLogger()).Execute(context.Background(), st.Snapshot())
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	var out []byte
	switch format {
	case "json":
		out, err = json.MarshalIndent(rep, "", "  ")
		out = append(out, '\n')
	case "yaml":
		out, err = yaml.Marshal(rep)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}
	w.Write(out)

	if !rep.Valid {
		fmt.Fprintf(w, "FAIL: %s\n", rep)
		return 1
	}
	fmt.Fprintf(w, "OK: %s\n", rep)
	return 0
}

func dedupe(cfg *config.Config, input *newsdedupe.Input, w io.Writer) int {
	h := newsdedupe.NewHandler(newsdedupe.LoadConfig(cfg), nil, logger.NewNoOpLogger())
	out, err := h.Execute(context.Background(), input)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 1
	}

	for _, r := range out.Removed {
		fmt.Fprintf(w, "  - [%d] %s (%s)\n", r.Index, r.Title, r.Reason)
	}
	fmt.Fprintf(w, "%s: %d articles, %d duplicates removed, %d remain\n",
		out.Path, out.Before, len(out.Removed), out.After)
	switch {
	case input.DryRun:
		fmt.Fprintln(w, "Dry run: file not modified")
	case out.Written:
		fmt.Fprintln(w, "File updated")
	default:
		fmt.Fprintln(w, "No duplicates found")
	}
	return 0
}

func report(cfg *config.Config, w io.Writer) int {
	st, event := loadState(cfg)
	snap := st.Snapshot()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLLECTION\tSTATUS\tRECORDS\tDROPPED\tPATH")
	for _, o := range event.Outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", o.Collection, o.Status, snap.Count(o.Collection), o.Dropped, o.Path)
	}
	tw.Flush()
	return 0
}
