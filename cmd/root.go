package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"wrapped-tools/internal/store"
)

var cfgFile string
var databasePath string
var dataDir string
var ollamaHost string
var ollamaModel string
var fundamentalGenres []string
var smtpUsername string
var smtpPassword string
var sendgridApiKey string

// defaultGenres is used when the config file doesn't list fundamental genres.
var defaultGenres = []string{
	"rock", "pop", "hip hop", "jazz", "classical", "electronic",
	"metal", "country", "r&b", "folk", "latin", "blues",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wrapped-tools",
	Short: "Builds a genre-classified wrapped report from a Spotify export",
	Long: `Imports a Spotify extended streaming history export into a local SQLite
database, classifies artists into fundamental genres using a locally hosted
LLM (Ollama), and generates year-in-review reports.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.wrapped-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./wrapped.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&dataDir, "data-dir", "", "Directory containing the streaming history export")
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))

	rootCmd.PersistentFlags().StringVar(
		&ollamaHost, "ollama-host", "http://localhost:11434", "Ollama server address")
	viper.BindPFlag("ollama_host", rootCmd.PersistentFlags().Lookup("ollama-host"))

	rootCmd.PersistentFlags().StringVar(
		&ollamaModel, "ollama-model", "llama3.2", "Model to use for classification")
	viper.BindPFlag("ollama_model", rootCmd.PersistentFlags().Lookup("ollama-model"))

	rootCmd.PersistentFlags().StringSliceVar(
		&fundamentalGenres, "genres", nil, "Fundamental genres to classify into")
	viper.BindPFlag("genres", rootCmd.PersistentFlags().Lookup("genres"))

	rootCmd.PersistentFlags().StringVar(&smtpUsername, "smtp_username", "", "SMTP username")
	viper.BindPFlag("smtp_username", rootCmd.PersistentFlags().Lookup("smtp_username"))

	rootCmd.PersistentFlags().StringVar(&smtpPassword, "smtp_password", "", "SMTP password")
	viper.BindPFlag("smtp_password", rootCmd.PersistentFlags().Lookup("smtp_password"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".wrapped-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".wrapped-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func openStore() (*store.Store, error) {
	s, err := store.New(viper.GetString("database"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return s, nil
}

func configuredGenres() []string {
	genres := viper.GetStringSlice("genres")
	if len(genres) == 0 {
		return defaultGenres
	}
	return genres
}
