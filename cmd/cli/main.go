package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"goentropy/adapters/mixing"
	"goentropy/app"
	"goentropy/domain/core"
	"goentropy/domain/stage"
	"goentropy/internal/config"
	"goentropy/internal/container"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "goentropy-cli",
		Short: "Entropy audit and verifiable lottery tooling",
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newDemoCmd(),
		newDrawCmd(),
		newNISTCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Audit the randomness of one or more files",
		Long: `Decode each file (raw bytes, integer lists or spreadsheets) and report
entropy, chi-square and the anomaly rules that fired.

Example: goentropy-cli analyze dump.bin numbers.txt sheet.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd.Context(), args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print reports as JSON")
	return cmd
}

func runAnalyze(ctx context.Context, paths []string, asJSON bool) error {
	c, err := loadContainer()
	if err != nil {
		return err
	}

	uploads := make([]app.Upload, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		uploads = append(uploads, app.Upload{Filename: filepath.Base(path), Content: content})
	}

	outcomes, err := c.Audits.AuditBatch(ctx, uploads)
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "%s: %v\n", o.Filename, o.Err)
			continue
		}
		if asJSON {
			if err := printJSON(struct {
				Filename  string   `json:"filename"`
				Report    any      `json:"report"`
				Anomalies []string `json:"anomalies"`
			}{o.Filename, o.Report, o.Report.Anomalies()}); err != nil {
				return err
			}
			continue
		}

		r := o.Report
		fmt.Printf("\n%s\n", o.Filename)
		fmt.Printf("  Size:               %d bytes\n", r.FileSizeBytes)
		fmt.Printf("  Entropy:            %.4f bits/byte\n", r.EntropyPerByte)
		fmt.Printf("  Chi-square:         %.2f (p=%.4f)\n", r.ChiSquareStat, r.ChiSquarePValue)
		fmt.Printf("  Mean byte:          %.2f\n", r.MeanByteValue)
		fmt.Printf("  Serial correlation: %.4f\n", r.SerialCorrelation)
		fmt.Printf("  Longest run:        %d\n", r.LongestRun)
		if len(r.Findings) == 0 {
			fmt.Printf("  No anomalies\n")
		}
		for _, a := range r.Anomalies() {
			fmt.Printf("  ! %s\n", a)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be analyzed", failed, len(outcomes))
	}
	return nil
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the mixing pipeline once and show every stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}

			result, err := c.Seeds.Derive(cmd.Context(), mixing.InfoDemo)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s\n", result.RunID)
			for _, s := range result.Stages {
				fmt.Printf("\n[%s]\n  %s\n  %s\n", s.Name, s.Explanation, s.Representation)
			}
			fmt.Printf("\nSnapshot hash: %s\n", result.SnapshotHash)
			fmt.Printf("Final seed:    %s\n", result.Representation(stage.StageFinal))
			return nil
		},
	}
}

func newDrawCmd() *cobra.Command {
	var rawHex string
	var expected string

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Run a lottery draw, or replay one from published raw entropy",
		Long: `Without flags, draws from fresh entropy and prints the full result.
With --raw, replays the draw deterministically; add --snapshot to check it.

Example: goentropy-cli draw --raw 9f1c... --snapshot 4be0...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}

			if rawHex == "" {
				result, err := c.Draws.Lottery(cmd.Context())
				if err != nil {
					return err
				}
				return printJSON(result)
			}

			v, err := c.Draws.Verify(cmd.Context(), rawHex, core.SnapshotHash(expected))
			if err != nil {
				return err
			}
			if err := printJSON(v); err != nil {
				return err
			}
			if expected != "" && !v.Valid {
				return fmt.Errorf("snapshot hash mismatch: got %s", v.SnapshotHash)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawHex, "raw", "", "Hex raw entropy of a published draw")
	cmd.Flags().StringVar(&expected, "snapshot", "", "Expected snapshot hash to verify against")
	return cmd
}

func newNISTCmd() *cobra.Command {
	var bits int
	var out string

	cmd := &cobra.Command{
		Use:   "nist",
		Short: "Export a bit string for external statistical test suites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadContainer()
			if err != nil {
				return err
			}

			export, err := c.Exporter.Export(cmd.Context(), bits)
			if err != nil {
				return err
			}

			if out == "" {
				out = export.Filename
			}
			if err := os.WriteFile(out, []byte(export.Bits), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Printf("Wrote %d bits to %s (run %s)\n", bits, out, export.RunID)
			return nil
		},
	}

	cmd.Flags().IntVar(&bits, "bits", 1_000_000, "Number of bits to export")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default for_tests_<bits>_bits.txt)")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
