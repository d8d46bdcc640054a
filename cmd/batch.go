package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/cv-ranker/internal/filtering"
	applogger "github.com/spigell/cv-ranker/internal/logger"
	"github.com/spigell/cv-ranker/internal/ranking"
	"github.com/spigell/cv-ranker/internal/report"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rank one set of candidates against several jobs at once",
	Run: func(cmd *cobra.Command, _ []string) {
		batch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("jobs", "", "yaml file with a list of jobs (name, text, degree, experience_years)")
	batchCmd.Flags().Bool("dump", false, "dump every report to a temporary json file")

	viper.BindPFlag("jobs-file", batchCmd.Flags().Lookup("jobs"))
}

type namedJob struct {
	name string
	job  ranking.JobDescription
}

func batch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := applogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-ranker batch", zap.String("version", version))

	pool, err := loadCandidates(config.Candidates, logger)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	jobs, err := loadJobs(config.JobsFile)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	reports, err := rankJobs(ctx, pool, jobs, config, logger)
	if err != nil {
		logger.Fatal("batch ranking failed", zap.Error(err))
	}

	dump := cmd.Flag("dump").Value.String() == "true"
	for i, r := range reports {
		fmt.Printf("\n== %s ==\n", jobs[i].name)
		if err := r.WriteTable(os.Stdout); err != nil {
			logger.Fatal("printing the ranking", zap.Error(err))
		}

		if !dump {
			continue
		}

		filename, err := r.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dump report to file", zap.Error(err))
		}
		logger.Info("dumping report to file", zap.String("job", jobs[i].name), zap.String("filename", filename))
	}
}

// rankJobs ranks pool against every job concurrently. Each job builds its own
// similarity vocabulary; pool is only read. The first error cancels the rest.
func rankJobs(ctx context.Context, pool []ranking.Candidate, jobs []namedJob, config *Config, logger *zap.Logger) ([]*report.Report, error) {
	reports := make([]*report.Report, len(jobs))

	g, gCtx := errgroup.WithContext(ctx)
	for i, nj := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			jobLogger := applogger.With(logger, applogger.JobFields(nj.name, nj.job)...)

			scored, err := ranking.Rank(pool, nj.job)
			if err != nil {
				return fmt.Errorf("job %s: %w", nj.name, err)
			}

			r := report.New(nj.job, pool, scored)

			filters := filtering.New([]filtering.Filter{
				filtering.NewMinScore(config.MinScore, jobLogger),
				filtering.NewExcludeFile(config.ExcludeFile, jobLogger),
				filtering.NewTopN(config.TopN),
			}, jobLogger)

			r, err = filters.RunFilters(gCtx, r)
			if err != nil {
				return fmt.Errorf("job %s: %w", nj.name, err)
			}

			jobLogger.Info("job ranked", applogger.ReportFields(r.ID, r.Len())...)
			reports[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}

// loadJobs reads a yaml list of job records. Each record is validated like a single job.
func loadJobs(path string) ([]namedJob, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("jobs file is required (set jobs-file or pass --jobs)")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing jobs file: %w", err)
	}

	jobs := make([]namedJob, 0, len(records))
	for i, record := range records {
		job, err := ranking.DecodeJob(record)
		if err != nil {
			return nil, fmt.Errorf("job #%d: %w", i+1, err)
		}

		name, _ := record["name"].(string)
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("job-%d", i+1)
		}

		jobs = append(jobs, namedJob{name: name, job: job})
	}

	return jobs, nil
}
