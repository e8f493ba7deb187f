package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/acctgen/internal/config"
	"github.com/Rana718/acctgen/internal/export"
	"github.com/Rana718/acctgen/internal/generator"
	"github.com/Rana718/acctgen/internal/importer"
	"github.com/Rana718/acctgen/internal/metrics"
	"github.com/Rana718/acctgen/internal/sqlgen"
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate the user and member SQL scripts",
	Long: `
Generate both SQL scripts without the browser.

Accounts come from a job file (YAML or JSON) and/or from sheets. Sheets may be
tab separated (.tsv, .txt), comma separated (.csv) or Excel workbooks (.xlsx);
they are read exactly like a block pasted into the studio grid, starting at
the first user id cell. Text sheets saved as Shift_JIS are decoded
automatically and a leading header row is skipped.

Inside a workspace created by 'acctgen init' the scripts are written to
output.dir; elsewhere they are printed. --out overrides both, and --out -
always prints.

Examples:
  acctgen generate --job jobs/example.yaml
  acctgen generate --job jobs/example.yaml --out sql
  acctgen generate --org "東京第一中学校" --teachers teachers.xlsx --students students.tsv
  acctgen generate --job job.yaml --format compact | mysql -u root school`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		req, err := buildRequest(cmd, cfg)
		if err != nil {
			return err
		}

		formatName := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			formatName, _ = cmd.Flags().GetString("format")
		}
		format, err := sqlgen.ParseFormat(formatName)
		if err != nil {
			return err
		}

		log := newLogger(cfg)
		gen := newGenerator(cfg, format, metrics.New(), log)

		res, err := gen.Generate(context.Background(), req)
		if err != nil {
			// The cause is already logged; users only see the generic message.
			return errors.New(generator.UserMessage(err))
		}
		if res.OrganizationName == "" {
			color.Yellow("⚠️  No organization name given (--org or organization_name in the job file)")
		}

		outDir, err := outputDir(cmd, cfg)
		if err != nil {
			return err
		}
		if outDir == "" {
			fmt.Fprintln(os.Stdout, res.UsersSQL)
			if res.MembersSQL != "" {
				fmt.Fprintln(os.Stdout)
				fmt.Fprintln(os.Stdout, res.MembersSQL)
			}
			return nil
		}

		paths, err := export.WriteScripts(outDir, res)
		if err != nil {
			return err
		}
		color.Green("✅ Generated SQL for %d account(s)", res.Accounts)
		for _, p := range paths {
			fmt.Printf("   %s\n", p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	registerGenerateFlags(generateCmd)
}

func registerGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("job", "j", "", "Job file (.yaml, .yml or .json)")
	cmd.Flags().String("org", "", "Organization name")
	cmd.Flags().String("pref", "", "Prefecture code (default from config)")
	cmd.Flags().String("city", "", "Municipality code (default from config)")
	cmd.Flags().String("start", "", "Period start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "Period end date (YYYY-MM-DD)")
	cmd.Flags().String("teachers", "", "Teacher sheet (.tsv, .txt, .csv, .xlsx)")
	cmd.Flags().String("students", "", "Student sheet (.tsv, .txt, .csv, .xlsx)")
	cmd.Flags().StringP("out", "o", "", "Directory for <org>_users.sql and <org>_members.sql, - for stdout (default output.dir in a workspace, else stdout)")
	cmd.Flags().String("format", "", "Output format: pretty or compact (default from config)")
}

// outputDir returns the directory to write scripts to, or "" for stdout.
func outputDir(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if cmd.Flags().Changed("out") {
		out, _ := cmd.Flags().GetString("out")
		if out == "-" {
			return "", nil
		}
		return out, nil
	}
	if !config.IsInitialized() {
		return "", nil
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return "", err
	}
	return cfg.Output.Dir, nil
}

// buildRequest merges the job file, flags and config defaults. Flags win over
// the job file; config only fills codes left empty by both.
func buildRequest(cmd *cobra.Command, cfg *config.Config) (generator.Request, error) {
	var req generator.Request

	if job, _ := cmd.Flags().GetString("job"); job != "" {
		loaded, err := importer.LoadJob(job)
		if err != nil {
			return req, err
		}
		req = loaded
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"org", &req.OrganizationName},
		{"pref", &req.PrefCode},
		{"city", &req.MunicipalityCode},
		{"start", &req.StartDate},
		{"end", &req.EndDate},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			*o.dst, _ = cmd.Flags().GetString(o.flag)
		}
	}

	if req.PrefCode == "" {
		req.PrefCode = cfg.Organization.PrefCode
	}
	if req.MunicipalityCode == "" {
		req.MunicipalityCode = cfg.Organization.CityCode
	}

	teachers, _ := cmd.Flags().GetString("teachers")
	students, _ := cmd.Flags().GetString("students")
	if err := importer.ApplySheets(&req, importer.Sheets{Teachers: teachers, Students: students}); err != nil {
		return req, err
	}
	return req, nil
}
