package cmd

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-ranker"
)

type Config struct {
	Candidates  *CandidatesConfig `mapstructure:"candidates"`
	Job         *JobConfig        `mapstructure:"job"`
	JobsFile    string            `mapstructure:"jobs-file"`
	ExcludeFile string            `mapstructure:"exclude-file"`
	MinScore    float64           `mapstructure:"min-score"`
	TopN        int               `mapstructure:"top-n"`
	AI          *AIConfig         `mapstructure:"ai"`
}

type CandidatesConfig struct {
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
	// Corpus rebuilds every candidate text from the profile columns.
	Corpus bool `mapstructure:"corpus"`
}

type JobConfig struct {
	Text            string `mapstructure:"text"`
	TextFile        string `mapstructure:"text-file"`
	Degree          string `mapstructure:"degree"`
	ExperienceYears int    `mapstructure:"experience-years"`
}

type AIConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Provider      string        `mapstructure:"provider"`
	MaxCandidates int           `mapstructure:"max-candidates"`
	Instructions  string        `mapstructure:"instructions"`
	Gemini        *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-ranker ranks candidate résumés against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	rootCmd.PersistentFlags().StringP("candidates", "c", "", "candidates file (csv, yaml or json)")
	rootCmd.PersistentFlags().String("candidates-format", "", "candidates file format. Detected from the extension when unset")
	rootCmd.PersistentFlags().Bool("corpus", false, "rebuild candidate text from all profile columns")
	rootCmd.PersistentFlags().StringP("exclude-file", "e", "", "special file with candidates to exclude. Default is unset.")
	rootCmd.PersistentFlags().Float64("min-score", 0, "drop candidates with a final score below this value")
	rootCmd.PersistentFlags().IntP("top-n", "n", 0, "keep only the n best candidates. 0 keeps everyone")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("candidates.file", rootCmd.PersistentFlags().Lookup("candidates"))
	viper.BindPFlag("candidates.format", rootCmd.PersistentFlags().Lookup("candidates-format"))
	viper.BindPFlag("candidates.corpus", rootCmd.PersistentFlags().Lookup("corpus"))
	viper.BindPFlag("exclude-file", rootCmd.PersistentFlags().Lookup("exclude-file"))
	viper.BindPFlag("min-score", rootCmd.PersistentFlags().Lookup("min-score"))
	viper.BindPFlag("top-n", rootCmd.PersistentFlags().Lookup("top-n"))
}

func initConfig() {
	// A missing .env is fine; it only supplements the environment.
	_ = godotenv.Load()

	viper.SetEnvPrefix("CV_RANKER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		// An explicitly requested config must be readable.
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal(err)
		}
		return
	}

	viper.AddConfigPath(".")
	viper.SetConfigName(app)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, err
	}

	if config.Candidates == nil {
		config.Candidates = &CandidatesConfig{}
	}
	if config.Job == nil {
		config.Job = &JobConfig{}
	}

	return config, nil
}
