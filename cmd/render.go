package main

import (
	"encoding/json"
	"fmt"
	"github.com/HtWu123/databootcamp-final-project/internal/infrastructure/export"
	"github.com/spf13/cobra"
	"io"
	"os"
)

func newContentsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "contents [category]",
		Short: "List categories, or the contents of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			a := &app{cfg: cfg}
			service := a.service()
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, c := range service.Categories() {
					fmt.Fprintln(out, c)
				}
				return nil
			}
			options, err := service.ListContents(args[0])
			if err != nil {
				return err
			}
			for _, o := range options {
				fmt.Fprintln(out, o.Value)
			}
			return nil
		},
	}
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var (
		format  string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "render <category> <content>",
		Short: "Render one figure as JSON, CSV or XLSX",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer a.Close()

			fig, err := a.service().Render(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(fig)
			case "csv":
				return export.WriteCSV(w, fig)
			case "xlsx":
				return export.WriteXLSX(w, fig)
			}
			return fmt.Errorf("unsupported format %q (must be json, csv or xlsx)", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, csv, xlsx")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file path (default: stdout)")
	return cmd
}
