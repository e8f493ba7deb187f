package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Rana718/acctgen/internal/config"
	"github.com/Rana718/acctgen/internal/generator"
	"github.com/Rana718/acctgen/internal/hasher"
	"github.com/Rana718/acctgen/internal/metrics"
	"github.com/Rana718/acctgen/internal/sqlgen"
)

var (
	cfgFile string
	Version = "1.0.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════╗",
		"║                                              ║",
		"║        acctgen  ·  アカウントSQL生成ツール        ║",
		"║                                              ║",
		"║   teachers + students  →  MySQL scripts      ║",
		"║                                              ║",
		"╚══════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("              ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "acctgen",
	Short: "Generate account provisioning SQL for schools",
	Long: `
acctgen turns lists of teacher and student accounts into two MySQL scripts:
one creating the organization and its login users, one creating the matching
member records with their roles and validity periods.

Accounts can be edited in a browser grid (acctgen studio) or loaded from
TSV, CSV, XLSX or YAML job files (acctgen generate).`,
	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("acctgen version %s\n", Version)
			return
		}

		showBanner()
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.FileName+")")
	rootCmd.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName(strings.TrimSuffix(config.FileName, ".json"))
	}

	viper.SetEnvPrefix("ACCTGEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
	}
}

// loadConfig reads and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	if cfg.Log.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	return logrus.NewEntry(logger).WithField("version", Version)
}

func newGenerator(cfg *config.Config, format sqlgen.Format, rec *metrics.Recorder, log *logrus.Entry) *generator.Service {
	return generator.New(hasher.NewBcrypt(cfg.Hash.Cost), generator.Options{
		Format: format,
		Facility: sqlgen.Facility{
			MailDomain: cfg.Members.MailDomain,
			ZipCode:    cfg.Members.ZipCode,
			CityName:   cfg.Members.CityName,
			Address:    cfg.Members.Address,
			Phone:      cfg.Members.Phone,
		},
		DefaultPassword: cfg.Hash.DefaultPassword,
		Workers:         cfg.Hash.Workers,
		Metrics:         rec,
		Logger:          log,
	})
}
