package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/alexpreynolds/nearest-transcripts/internal/duckdb"
	"github.com/alexpreynolds/nearest-transcripts/internal/gencode"
	"github.com/alexpreynolds/nearest-transcripts/internal/genome"
	"github.com/alexpreynolds/nearest-transcripts/internal/nearest"
	"github.com/alexpreynolds/nearest-transcripts/internal/output"
	"github.com/alexpreynolds/nearest-transcripts/internal/sites"
)

type findOptions struct {
	sitesPath   string
	gtfPath     string
	assembly    string
	maxDistance int64
	outputFile  string
	workers     int
	allBiotypes bool
	resultsDB   string
	noSnapshot  bool
}

func newFindCmd() *cobra.Command {
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:   "find [sites.bed]",
		Short: "Find the nearest transcript per gene for each query site",
		Long: `Find reads query sites from a BED file (use '-' for stdin) and reports,
for every site, the nearest transcript of each gene within the distance
threshold. One row is written per (site, gene) pair; sites with no
transcript in range produce no rows.`,
		Example: `  nearest-transcripts find sites.bed
  nearest-transcripts find --max-distance 50000 -o report.tsv sites.bed
  nearest-transcripts find --gtf gencode.v42.annotation.gtf.gz sites.bed
  cat sites.bed | nearest-transcripts find -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.sitesPath = args[0]
			}
			// Config values fill in whatever the flags left unset.
			// Flag defaults cannot do this: viper reads its file after
			// flag registration.
			if opts.sitesPath == "" {
				opts.sitesPath = viper.GetString("sites")
			}
			if opts.gtfPath == "" {
				opts.gtfPath = viper.GetString("gtf")
			}
			if opts.assembly == "" {
				opts.assembly = viper.GetString("assembly")
			}
			if !cmd.Flags().Changed("max-distance") {
				opts.maxDistance = viper.GetInt64("max_distance")
			}
			return runFind(opts)
		},
	}

	cmd.Flags().StringVar(&opts.sitesPath, "sites", "",
		"Path to BED file of query sites ('-' for stdin)")
	cmd.Flags().StringVar(&opts.gtfPath, "gtf", "",
		"Path to GENCODE GTF annotation (default: managed download for --assembly)")
	cmd.Flags().StringVar(&opts.assembly, "assembly", "",
		"Genome assembly: GRCh37 or GRCh38")
	cmd.Flags().Int64Var(&opts.maxDistance, "max-distance", nearest.DefaultMaxDistance,
		"Maximum reported site-to-transcript distance in bases")
	cmd.Flags().StringVarP(&opts.outputFile, "output", "o", "",
		"Output file (default: stdout)")
	cmd.Flags().IntVar(&opts.workers, "workers", 1,
		"Number of matching workers (0 = all CPUs)")
	cmd.Flags().BoolVar(&opts.allBiotypes, "all-biotypes", false,
		"Match transcripts of all gene biotypes, not just protein_coding")
	cmd.Flags().StringVar(&opts.resultsDB, "results-db", "",
		"Also write matches to a DuckDB database at this path")
	cmd.Flags().BoolVar(&opts.noSnapshot, "no-snapshot", false,
		"Do not read or write the parsed-annotation snapshot")

	return cmd
}

func runFind(opts *findOptions) error {
	logger := newLogger()
	defer logger.Sync()

	if opts.maxDistance < 0 {
		return fmt.Errorf("max-distance must be >= 0, got %d", opts.maxDistance)
	}

	if opts.sitesPath == "" {
		return fmt.Errorf("no sites file: pass one as an argument, with --sites, or set the 'sites' config key")
	}

	// Load everything before writing anything, so a bad input never leaves
	// a partial report behind.
	querySites, err := loadSites(opts.sitesPath)
	if err != nil {
		return err
	}
	logger.Info("loaded sites", zap.Int("count", len(querySites)), zap.String("path", opts.sitesPath))

	set, err := loadAnnotation(opts, logger)
	if err != nil {
		return err
	}
	set.BuildIndexes()
	logger.Info("loaded transcripts", zap.Int("count", set.Len()))

	matcher := nearest.New(set, opts.maxDistance)
	matcher.SetLogger(logger)

	out := os.Stdout
	if opts.outputFile != "" {
		out, err = os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	writer := output.NewTabWriter(out)
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var all []nearest.Match
	keepAll := opts.resultsDB != ""

	total := 0
	emit := func(matches []nearest.Match) error {
		for i := range matches {
			if err := writer.Write(&matches[i]); err != nil {
				return fmt.Errorf("write match: %w", err)
			}
		}
		total += len(matches)
		if keepAll {
			all = append(all, matches...)
		}
		return nil
	}

	if opts.workers == 1 {
		for _, site := range querySites {
			if err := emit(matcher.FindNearest(site)); err != nil {
				return err
			}
		}
	} else {
		items := make(chan nearest.WorkItem)
		go func() {
			for i, site := range querySites {
				items <- nearest.WorkItem{Seq: i, Site: site}
			}
			close(items)
		}()

		results := matcher.ParallelFind(items, opts.workers)
		if err := nearest.OrderedCollect(results, func(r nearest.WorkResult) error {
			return emit(r.Matches)
		}); err != nil {
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if total == 0 {
		logger.Warn("no transcripts within range of any site",
			zap.Int64("max_distance", opts.maxDistance))
	} else {
		logger.Info("wrote report", zap.Int("rows", total))
	}

	if keepAll {
		store, err := duckdb.Open(opts.resultsDB)
		if err != nil {
			return fmt.Errorf("open results database: %w", err)
		}
		defer store.Close()
		if err := store.WriteMatches(all); err != nil {
			return fmt.Errorf("store matches: %w", err)
		}
		logger.Info("stored matches", zap.String("path", opts.resultsDB))
	}

	return nil
}

// loadSites reads and validates every query site up front.
func loadSites(path string) ([]genome.Region, error) {
	parser, err := sites.NewParser(path)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	regions, err := sites.ReadAll(parser)
	if err != nil {
		return nil, fmt.Errorf("load sites from %s: %w", path, err)
	}
	return regions, nil
}

// loadAnnotation resolves the GTF source and loads it, going through the
// parsed-annotation snapshot when the managed annotation directory is used.
func loadAnnotation(opts *findOptions, logger *zap.Logger) (*gencode.Set, error) {
	gtfPath := opts.gtfPath
	managed := false
	if gtfPath == "" {
		var found bool
		gtfPath, found = findAnnotationGTF(opts.assembly)
		if !found {
			return nil, fmt.Errorf("no annotation found for %s: pass --gtf, or run: nearest-transcripts download --assembly %s",
				opts.assembly, opts.assembly)
		}
		managed = true
		logger.Info("using managed annotation", zap.String("gtf", gtfPath))
	}

	set := gencode.NewSet()
	gtfOpts := gencode.GTFOptions{AllBiotypes: opts.allBiotypes}

	// Snapshots only cover the managed directory's default load; explicit
	// --gtf paths and biotype overrides always parse fresh.
	useSnapshot := managed && !opts.noSnapshot && !opts.allBiotypes

	var snapshot *gencode.Snapshot
	var fingerprint gencode.FileFingerprint
	if useSnapshot {
		var err error
		fingerprint, err = gencode.Fingerprint(gtfPath)
		if err != nil {
			return nil, fmt.Errorf("stat annotation: %w", err)
		}
		snapshot = gencode.NewSnapshot(filepath.Dir(gtfPath))
		if snapshot.Valid(fingerprint) {
			if err := snapshot.Load(set); err == nil {
				logger.Debug("loaded annotation snapshot")
				return set, nil
			}
			// Unreadable snapshot: discard anything it decoded and rebuild
			// from the GTF below.
			snapshot.Clear()
			set = gencode.NewSet()
		}
	}

	loader := gencode.NewGTFLoader(gtfPath, gtfOpts)
	loader.SetLogger(logger)
	if err := loader.Load(set); err != nil {
		return nil, fmt.Errorf("load annotation from %s: %w", gtfPath, err)
	}

	if useSnapshot {
		if err := snapshot.Write(set, fingerprint); err != nil {
			logger.Warn("could not write annotation snapshot", zap.Error(err))
		}
	}

	return set, nil
}
