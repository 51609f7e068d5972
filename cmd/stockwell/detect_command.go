package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"stockwell/internal/config"
	"stockwell/internal/sequence"
)

func newDetectCommand() *cobra.Command {
	var extensionsFlag []string
	var placeholderFlag string

	cmd := &cobra.Command{
		Use:         "detect <dir>",
		Short:       "List the frame sequences found in a directory",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			var opts []sequence.Option
			if len(extensionsFlag) > 0 {
				opts = append(opts, sequence.WithExtensions(extensionsFlag...))
			}
			if strings.TrimSpace(placeholderFlag) != "" {
				opts = append(opts, sequence.WithPlaceholder(placeholderFlag))
			}

			seqs, err := sequence.Detect(dir, opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(seqs) == 0 {
				fmt.Fprintln(out, "No sequences found")
				return nil
			}

			rows := make([][]string, 0, len(seqs))
			for _, seq := range seqs {
				rows = append(rows, []string{
					seq.TemplatePath,
					strconv.Itoa(seq.First()),
					strconv.Itoa(seq.Last()),
					strconv.Itoa(len(seq.Frames)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Template", "First", "Last", "Frames"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&extensionsFlag, "extension", nil, "Restrict detection to these file extensions")
	cmd.Flags().StringVar(&placeholderFlag, "placeholder", "", "Frame number token used in templates (default %0Nd)")
	return cmd
}
