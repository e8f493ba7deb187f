package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/acctgen/internal/config"
	"github.com/Rana718/acctgen/template"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file, a reference schema and an example job",
	Long: `Initialize an acctgen workspace in the current directory.

Writes ` + config.FileName + ` with the default settings, schema/reference.sql with the
MySQL tables the generated scripts target, and jobs/example.yaml as a starting
point for 'acctgen generate --job'. Existing files are kept unless --force is set.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		return initializeProject(force)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolP("force", "f", false, "Overwrite existing files")
}

func initializeProject(force bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if config.IsInitialized() && !force {
		color.Yellow("⚠️  %s already exists; only missing files will be created", config.FileName)
	}

	tmpl := template.NewProjectTemplate(cfg)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return err
	}

	files, err := tmpl.Files()
	if err != nil {
		return err
	}

	var created, skipped []string
	for _, f := range files {
		if _, err := os.Stat(f.Path); err == nil && !force {
			skipped = append(skipped, f.Path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		if err := os.WriteFile(f.Path, []byte(f.Content), 0644); err != nil {
			return fmt.Errorf("failed to create file %s: %w", f.Path, err)
		}
		created = append(created, f.Path)
	}

	color.Green("✅ Initialized acctgen workspace")
	fmt.Println()
	fmt.Println("📁 Directories:")
	for _, dir := range directories {
		fmt.Printf("   %s/\n", dir)
	}
	if len(created) > 0 {
		fmt.Println()
		fmt.Println("📝 Files created:")
		for _, p := range created {
			fmt.Printf("   %s\n", p)
		}
	}
	if len(skipped) > 0 {
		fmt.Println()
		color.Yellow("⏭️  Kept existing files (use --force to overwrite):")
		for _, p := range skipped {
			fmt.Printf("   %s\n", p)
		}
	}
	fmt.Println()
	color.Cyan("Next: acctgen generate --job jobs/example.yaml (scripts go to %s/)", cfg.Output.Dir)
	return nil
}
