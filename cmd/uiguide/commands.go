package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/uiguide/internal/doctree"
	"github.com/dgallion1/uiguide/internal/figma"
	"github.com/dgallion1/uiguide/internal/guide"
)

const stdinArg = "-"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "uiguide",
		Short:        "Offline tools for the UI guide gateway",
		SilenceUsage: true,
	}
	root.AddCommand(newFilterCommand(), newPromptCommand(), newParseCommand())
	return root
}

func newFilterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <file.json|->",
		Short: "Reduce a Figma file to screens and relevant elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filtered, err := readFiltered(cmd, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), filtered)
		},
	}
}

func newPromptCommand() *cobra.Command {
	var params guide.Params
	limit := guide.DefaultElementLimit

	cmd := &cobra.Command{
		Use:   "prompt <file.json|->",
		Short: "Build the completion prompt for a Figma file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filtered, err := readFiltered(cmd, args[0])
			if err != nil {
				return err
			}
			prompt := guide.BuildPrompt(filtered, params, limit)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), prompt)
			return err
		},
	}
	cmd.Flags().StringVar(&params.Language, "language", "ru", "guide language")
	cmd.Flags().StringVar(&params.DetailLevel, "detail-level", "brief", "guide detail level")
	cmd.Flags().StringVar(&params.Audience, "audience", "user", "guide audience")
	cmd.Flags().IntVar(&limit, "limit", limit, "max elements embedded in the prompt, 0 for no limit")
	return cmd
}

func newParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <completion.txt|->",
		Short: "Split a model completion into markdown and guide JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			markdown, guideJSON := guide.Parse(string(raw))
			return writeJSON(cmd.OutOrStdout(), struct {
				Markdown  string          `json:"markdown"`
				GuideJSON json.RawMessage `json:"guide_json"`
			}{markdown, guideJSON})
		},
	}
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == stdinArg {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func readFiltered(cmd *cobra.Command, name string) (*doctree.Filtered, error) {
	raw, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	file, err := figma.Decode(raw)
	if err != nil {
		return nil, err
	}
	return doctree.Filter(file), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
