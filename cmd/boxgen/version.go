package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/syssam/boxgen"
)

var versionColor = color.New(color.FgGreen, color.Bold)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show the boxgen version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			payload := versionPayload{
				Tool:      "boxgen",
				Version:   boxgen.Version,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			switch strings.ToLower(format) {
			case "pretty":
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "boxgen %s (%s %s)\n",
					versionColor.Sprint(payload.Version), payload.GoVersion, payload.Platform)
				return err
			default:
				return encode(cmd.OutOrStdout(), strings.ToLower(format), payload)
			}
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|yaml)")
	return cmd
}
