package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-ranker/internal/ai"
	"github.com/spigell/cv-ranker/internal/ai/gemini"
	"github.com/spigell/cv-ranker/internal/candidates"
	"github.com/spigell/cv-ranker/internal/filtering"
	applogger "github.com/spigell/cv-ranker/internal/logger"
	"github.com/spigell/cv-ranker/internal/ranking"
	"github.com/spigell/cv-ranker/internal/report"
	"github.com/spigell/cv-ranker/internal/secrets"
)

const (
	PromptShowTable           = "Show ranking table"
	PromptCandidateDetails    = "Show candidate details"
	PromptFilterStatus        = "Show filter status"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptReportToFile        = "Dump report to file"
	PromptExit                = "Exit"
	PromptBack                = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowTable, PromptCandidateDetails, PromptFilterStatus, PromptAppendToExcludeFile, PromptReportToFile, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank candidates against a single job description",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job-text", "", "job description text")
	rankCmd.Flags().String("job-text-file", "", "file with the job description text")
	rankCmd.Flags().String("degree", "", "required degree")
	rankCmd.Flags().Int("experience", 0, "required years of experience")
	rankCmd.Flags().BoolP("no-interactive", "y", false, "print the ranking and exit without the interactive menu")

	viper.BindPFlag("job.text", rankCmd.Flags().Lookup("job-text"))
	viper.BindPFlag("job.text-file", rankCmd.Flags().Lookup("job-text-file"))
	viper.BindPFlag("job.degree", rankCmd.Flags().Lookup("degree"))
	viper.BindPFlag("job.experience-years", rankCmd.Flags().Lookup("experience"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
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

	logger.Info("starting the cv-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	pool, err := loadCandidates(config.Candidates, logger)
	if err != nil {
		logger.Fatal("loading candidates", zap.Error(err))
	}

	job, err := resolveJob(config.Job)
	if err != nil {
		logger.Fatal("reading the job description", zap.Error(err))
	}

	scored, err := ranking.Rank(pool, job)
	if err != nil {
		logger.Fatal("ranking candidates", zap.Error(err))
	}

	r := report.New(job, pool, scored)
	logger.Info("candidates ranked", append(applogger.JobFields("", job), applogger.ReportFields(r.ID, r.Len())...)...)

	if r.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates to rank"))
		return
	}

	for _, entry := range r.Items {
		logger.Debug("candidate score", applogger.ScoreFields(entry.ScoredCandidate)...)
	}

	filters := prepareFilters(ctx, config, logger)

	r, err = filters.RunFilters(ctx, r)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if err := r.WriteTable(os.Stdout); err != nil {
		logger.Fatal("printing the ranking", zap.Error(err))
	}

	if cmd.Flag("no-interactive").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, config, filters, r); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, config *Config, filters *filtering.Filtering, r *report.Report) error {
	switch action {
	case PromptShowTable:
		return r.WriteTable(os.Stdout)
	case PromptCandidateDetails:
		return showDetails(r)
	case PromptFilterStatus:
		pretty, _ := json.MarshalIndent(filters.Describe(), "", "  ")
		fmt.Println(string(pretty))
		return nil
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(logger, config.ExcludeFile, r)
	case PromptReportToFile:
		filename, err := r.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "requested from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showDetails(r *report.Report) error {
	for {
		candidatePrompt := promptui.Select{
			Label: "Choose a candidate and press ENTER",
			Items: append(r.Names(), PromptBack),
		}

		_, selected, err := candidatePrompt.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		entry := r.FindByName(selected)
		if entry == nil {
			return fmt.Errorf("there is no such candidate %s", selected)
		}

		pretty, _ := json.MarshalIndent(struct {
			ai.Profile
			Review *ai.Review `json:",omitempty"`
		}{Profile: entry.Profile(), Review: entry.Review}, "", "  ")
		fmt.Println(string(pretty))
	}
}

func appendToExcludeFile(logger *zap.Logger, path string, r *report.Report) error {
	path = strings.TrimSpace(path)
	if path == "" {
		logger.Warn("exclude file is not configured", zap.String("hint", "set exclude-file in config or pass --exclude-file"))
		return nil
	}

	excluded, err := report.GetExcludedFromFile(path)
	if err != nil {
		return err
	}

	excluded.Append(r.ToExcluded("manual"))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("count", r.Len()))
	return nil
}

// loadCandidates reads the candidate file and decodes it into rankable candidates.
func loadCandidates(cfg *CandidatesConfig, logger *zap.Logger) ([]ranking.Candidate, error) {
	if cfg == nil || strings.TrimSpace(cfg.File) == "" {
		return nil, errors.New("candidates file is required (set candidates.file or pass --candidates)")
	}

	records, err := candidates.LoadFile(cfg.File, cfg.Format)
	if err != nil {
		return nil, err
	}

	if cfg.Corpus {
		if err := candidates.BuildCorpus(records); err != nil {
			return nil, fmt.Errorf("building text corpus: %w", err)
		}
	}

	pool, err := ranking.DecodeCandidates(records)
	if err != nil {
		return nil, err
	}

	logger.Info("candidates loaded", zap.String("file", cfg.File), zap.Int("count", len(pool)))
	return pool, nil
}

// resolveJob builds the job description from config and flags.
func resolveJob(cfg *JobConfig) (ranking.JobDescription, error) {
	if cfg == nil {
		cfg = &JobConfig{}
	}

	text := cfg.Text
	if file := strings.TrimSpace(cfg.TextFile); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return ranking.JobDescription{}, fmt.Errorf("reading job text file: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return ranking.JobDescription{}, errors.New("job text is required (set job.text, job.text-file or pass --job-text)")
	}

	return ranking.DecodeJob(map[string]any{
		"text":             text,
		"degree":           cfg.Degree,
		"experience_years": cfg.ExperienceYears,
	})
}

func prepareFilters(ctx context.Context, config *Config, logger *zap.Logger) *filtering.Filtering {
	aiFilter, err := prepareAIFilter(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("skipping AI review", zap.Error(err))
		aiFilter = filtering.NewAIReview(nil, nil)
		aiFilter.Disable(err.Error())
	}

	steps := []filtering.Filter{
		filtering.NewMinScore(config.MinScore, logger),
		filtering.NewExcludeFile(config.ExcludeFile, logger),
		filtering.NewTopN(config.TopN),
		aiFilter,
	}

	return filtering.New(steps, logger)
}

func prepareAIFilter(ctx context.Context, config *AIConfig, logger *zap.Logger) (filtering.Filter, error) {
	if config == nil || !config.Enabled {
		return filtering.NewAIReview(&filtering.AIReviewConfig{Enabled: false}, nil), nil
	}

	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}

	reviewer, err := newAIReviewer(ctx, config, logger)
	if err != nil {
		return nil, fmt.Errorf("building ai reviewer: %w", err)
	}

	return filtering.NewAIReview(&filtering.AIReviewConfig{
		Enabled:       true,
		Provider:      config.Provider,
		Model:         config.Gemini.Model,
		MaxCandidates: config.MaxCandidates,
	}, &filtering.AIReviewDeps{
		Logger:   logger,
		Reviewer: reviewer,
	}), nil
}

func newAIReviewer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Reviewer, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	aiLogger := applogger.WithAI(logger, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		aiLogger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)),
	)
	if err != nil {
		return nil, err
	}

	reviewer := gemini.NewReviewer(generator, cfg.Gemini.MaxLogLength, aiLogger)
	reviewer.SetInstructions(cfg.Instructions)

	return reviewer, nil
}

// redacted returns a copy of config safe for logging.
func redacted(config *Config) *Config {
	if config == nil || config.AI == nil || config.AI.Gemini == nil || config.AI.Gemini.APIKey == "" {
		return config
	}

	copied := *config
	aiCopy := *config.AI
	geminiCopy := *config.AI.Gemini
	geminiCopy.APIKey = "***"
	aiCopy.Gemini = &geminiCopy
	copied.AI = &aiCopy
	return &copied
}
