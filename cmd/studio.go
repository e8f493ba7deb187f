package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Rana718/acctgen/internal/metrics"
	"github.com/Rana718/acctgen/internal/sqlgen"
	"github.com/Rana718/acctgen/internal/studio"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Open the account editor in the browser",
	Long: `
Launch the browser-based account editor. Teachers and students are entered in
two spreadsheet-like grids that accept pasted blocks from Excel or Google
Sheets; both SQL scripts can then be generated, copied and downloaded.

Examples:
  acctgen studio
  acctgen studio --port 3000 --browser=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		port := cfg.Studio.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		browser := cfg.Studio.Browser
		if cmd.Flags().Changed("browser") {
			browser, _ = cmd.Flags().GetBool("browser")
		}

		format, err := sqlgen.ParseFormat(cfg.Output.Format)
		if err != nil {
			return err
		}

		log := newLogger(cfg)
		rec := metrics.New()
		gen := newGenerator(cfg, format, rec, log)

		server := studio.NewServer(gen, studio.Options{
			Port:     port,
			PrefCode: cfg.Organization.PrefCode,
			CityCode: cfg.Organization.CityCode,
			Metrics:  rec,
			Logger:   log,
		})
		return server.Start(browser)
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)
	studioCmd.Flags().IntP("port", "p", 5555, "Port to run studio on")
	studioCmd.Flags().BoolP("browser", "b", true, "Open browser automatically")
}
