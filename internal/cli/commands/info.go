package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/clsview/pkg/analyzer"
	"github.com/ccollicutt/clsview/pkg/parser"
)

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Show the Unity project a log dump was saved from",
		Long: `Print the Unity version, build target, editor platform and package list
recorded in a log dump header.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if _, err := loadConfig(cmd); err != nil {
				return err
			}

			doc, err := parser.ParseFile(ctx, args[0])
			if err != nil {
				return err
			}

			info := analyzer.Summarize(doc.Header)
			out := cmd.OutOrStdout()

			switch format {
			case "text":
				_, err = fmt.Fprint(out, info.String())
				return err
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			case "yaml":
				encoder := yaml.NewEncoder(out)
				encoder.SetIndent(2)
				if err := encoder.Encode(info); err != nil {
					return err
				}
				return encoder.Close()
			default:
				return fmt.Errorf("unknown output format %q (use text, json, or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json|yaml)")

	return cmd
}
