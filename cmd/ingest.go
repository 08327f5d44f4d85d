// Package cmd — ingest command.
// This is the main command that orchestrates the pipeline:
// load → parse/detect/extract → review edits → render → commit.
//
// It handles flag validation, renderer selection and the commit step.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/batch"
	"github.com/gaurav-prasanna/catalogpipe/config"
	"github.com/gaurav-prasanna/catalogpipe/core"
	"github.com/gaurav-prasanna/catalogpipe/core/inventory"
	"github.com/gaurav-prasanna/catalogpipe/core/output"
	"github.com/gaurav-prasanna/catalogpipe/core/pipeline"
	"github.com/gaurav-prasanna/catalogpipe/core/render"
	"github.com/gaurav-prasanna/catalogpipe/sources"
	"github.com/spf13/cobra"
)

// Flag variables.
var (
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagHTML      bool
	flagOutputDir string
	flagLabel     string
	flagEdits     []string
	flagRemove    []int
	flagReject    []int
	flagCommit    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <paths...>",
	Short: "Extract product records from saved vendor pages",
	Long: `Ingest reads saved product pages (files or directories of .html/.htm),
detects the vendor of each, extracts canonical product records and holds them
in a review batch. Edits, removals and rejections are applied by index, a
review sheet can be written, and --commit sends the pending records to the
inventory in a single bulk call.

Examples:
  catalogpipe ingest ./pages --markdown --output_dir ./review
  catalogpipe ingest wl7476.html --edit 0.specs[1].value=95 --json
  catalogpipe ingest ./pages --reject 2 --remove 4 --commit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	// Review sheet format flags (mutually exclusive).
	ingestCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Write a PDF review sheet")
	ingestCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Write a Markdown review sheet")
	ingestCmd.Flags().BoolVar(&flagJSON, "json", false, "Write a JSON review sheet")
	ingestCmd.Flags().BoolVar(&flagHTML, "html", false, "Write an HTML review sheet")
	ingestCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: output.dir or current directory)")
	ingestCmd.Flags().StringVar(&flagLabel, "label", "", "Batch label used for the review sheet file name")

	// Review flags.
	ingestCmd.Flags().StringArrayVar(&flagEdits, "edit", nil, "Edit a record: <index>.<field path>=<value> (repeatable)")
	ingestCmd.Flags().IntSliceVar(&flagRemove, "remove", nil, "Remove records by index")
	ingestCmd.Flags().IntSliceVar(&flagReject, "reject", nil, "Reject records by index (kept but not committed)")

	ingestCmd.Flags().BoolVar(&flagCommit, "commit", false, "Commit pending records to the inventory")
}

func runIngest(cmd *cobra.Command, args []string) error {
	// --- Validate flags ---
	renderer, err := selectRenderer(cfg.Output.Format)
	if err != nil {
		return err
	}
	edits, err := parseEdits(flagEdits)
	if err != nil {
		return err
	}

	persister, closePersister, err := newPersister(cfg.Inventory)
	if err != nil {
		return err
	}
	defer closePersister()

	// --- Load ---
	docs, loadErrs := sources.Load(args)
	for _, e := range loadErrs {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", e)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no pages found in %s", strings.Join(args, ", "))
	}
	fmt.Fprintf(os.Stdout, "Found %d pages to process\n", len(docs))

	// --- Extract ---
	var pipeOpts []pipeline.Option
	pipeOpts = append(pipeOpts, pipeline.WithLogger(logger))
	if cfg.Cache.Enable {
		pipeOpts = append(pipeOpts, pipeline.WithCache(cfg.Cache.TTL))
	}
	session := batch.NewSession(
		pipeline.New(pipeOpts...),
		persister,
		batch.WithLogger(logger),
		batch.WithWorkers(cfg.Batch.Workers),
		batch.WithCommitTimeout(cfg.Batch.CommitTimeout),
		batch.WithProgress(printProgress),
	)
	summary := session.Add(docs)
	fmt.Fprintf(os.Stdout, "\n%d extracted, %d failed\n", summary.Added, summary.Failed)

	// --- Review ---
	if err := applyReview(session, edits); err != nil {
		return err
	}
	printItems(session.Items())

	// --- Render ---
	if renderer != nil {
		if err := writeReviewSheet(session, docs, renderer); err != nil {
			return err
		}
	}

	// --- Commit ---
	if !flagCommit {
		return nil
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return commit(ctx, session)
}

// edit is one parsed --edit flag.
type edit struct {
	index int
	patch batch.Patch
}

// parseEdits turns "<index>.<path>=<value>" flags into patches.
func parseEdits(raw []string) ([]edit, error) {
	edits := make([]edit, 0, len(raw))
	for _, r := range raw {
		target, value, ok := strings.Cut(r, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --edit %q: expected <index>.<field>=<value>", r)
		}
		idx, path, ok := strings.Cut(target, ".")
		if !ok {
			return nil, fmt.Errorf("invalid --edit %q: expected <index>.<field>=<value>", r)
		}
		i, err := strconv.Atoi(idx)
		if err != nil {
			return nil, fmt.Errorf("invalid --edit %q: index %q is not a number", r, idx)
		}
		patch, err := batch.ParsePatch(path, value)
		if err != nil {
			return nil, fmt.Errorf("invalid --edit %q: %w", r, err)
		}
		edits = append(edits, edit{index: i, patch: patch})
	}
	return edits, nil
}

// applyReview applies edits, then rejections, then removals. Indices
// always refer to the batch as extracted, so removals run from the end.
func applyReview(session *batch.Session, edits []edit) error {
	for _, e := range edits {
		if err := session.Edit(e.index, e.patch); err != nil {
			return err
		}
	}
	for _, i := range flagReject {
		if err := session.Reject(i); err != nil {
			return err
		}
	}

	removals := append([]int(nil), flagRemove...)
	sort.Sort(sort.Reverse(sort.IntSlice(removals)))
	for n, i := range removals {
		if n > 0 && i == removals[n-1] {
			continue
		}
		if err := session.Remove(i); err != nil {
			return err
		}
	}
	return nil
}

func writeReviewSheet(session *batch.Session, docs []batch.Document, renderer core.Renderer) error {
	dir := flagOutputDir
	if dir == "" {
		dir = cfg.Output.Dir
	}
	writer, err := output.New(dir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	label := flagLabel
	if label == "" {
		label = "review-" + time.Now().UTC().Format("20060102-150405")
	}
	meta := buildMetadata(label, session, docs)

	data, err := renderer.Render(session.Records(), meta)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	path, err := writer.Write(label, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Written: %s\n", path)
	return nil
}

// buildMetadata summarizes the batch for the review sheet.
func buildMetadata(label string, session *batch.Session, docs []batch.Document) core.ReviewMetadata {
	counts := session.Counts()
	sourceNames := make([]string, 0, len(docs))
	for _, d := range docs {
		sourceNames = append(sourceNames, d.Source)
	}
	var errs []string
	for _, entry := range session.Log() {
		errs = append(errs, entry.String())
	}
	return core.ReviewMetadata{
		Label:       label,
		Sources:     sourceNames,
		Pending:     counts.Pending,
		Rejected:    counts.Rejected,
		Errors:      errs,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func commit(ctx context.Context, session *batch.Session) error {
	result, err := session.Commit(ctx)
	if errors.Is(err, batch.ErrNothingToCommit) {
		fmt.Fprintln(os.Stdout, "Nothing to commit")
		return nil
	}
	var ce *batch.CommitError
	if errors.As(err, &ce) {
		fmt.Fprintf(os.Stderr, "✗ Commit failed: %v\n", ce.Err)
		if ce.Result != nil {
			for _, ie := range ce.Result.Errors {
				fmt.Fprintf(os.Stderr, "  ✗ %s\n", ie)
			}
		}
		return fmt.Errorf("commit failed; %d records left pending", session.Len())
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Committed %d records\n", result.Created)
	return nil
}

// newPersister builds the configured inventory collaborator and its
// cleanup func.
func newPersister(c config.InventoryConfig) (core.Persister, func(), error) {
	noop := func() {}
	switch c.Type {
	case "http":
		return inventory.NewClient(c.Endpoint,
			inventory.WithToken(c.Token),
			inventory.WithTimeout(c.Timeout),
			inventory.WithLogger(logger),
		), noop, nil
	case "sqlite":
		store, err := inventory.OpenStore(c.DSN, logger)
		if err != nil {
			return nil, noop, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("Closing inventory store")
			}
		}, nil
	case "none", "":
		return inventory.NewDiscard(logger), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown inventory type %q", c.Type)
	}
}

// selectRenderer picks the review-sheet renderer from flags, falling back
// to the configured format. No format means no review sheet.
func selectRenderer(configured string) (core.Renderer, error) {
	formatCount := 0
	for _, set := range []bool{flagPDF, flagMarkdown, flagJSON, flagHTML} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return nil, fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}

	switch {
	case flagMarkdown:
		configured = "markdown"
	case flagJSON:
		configured = "json"
	case flagPDF:
		configured = "pdf"
	case flagHTML:
		configured = "html"
	}

	switch configured {
	case "markdown":
		return render.NewMarkdownRenderer(), nil
	case "json":
		return render.NewJSONRenderer(), nil
	case "pdf":
		return render.NewPDFRenderer(), nil
	case "html":
		return render.NewHTMLRenderer(), nil
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", configured)
	}
}

func printProgress(p batch.Progress) {
	if p.Err != nil {
		fmt.Fprintf(os.Stdout, "[%d/%d] ✗ %s: %v\n", p.Done, p.Total, p.Source, p.Err)
		return
	}
	fmt.Fprintf(os.Stdout, "[%d/%d] ✓ %s\n", p.Done, p.Total, p.Source)
}

func printItems(items []batch.Item) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(os.Stdout)
	for i, item := range items {
		rec := item.Record
		fmt.Fprintf(os.Stdout, "%3d  %-8s %-8s %-14s %s (%d specs, %d applications, %d equivalences)\n",
			i, item.Status, rec.Brand, rec.SKU, rec.Name,
			len(rec.Specs), len(rec.Applications), len(rec.Equivalences))
	}
}
