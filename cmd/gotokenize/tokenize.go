package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"GoTokenize/internal/analysis"
)

func newTokenizeCmd(a *app) *cobra.Command {
	var (
		tokenizer string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "tokenize [text...]",
		Short: "Tokenize the arguments, or stdin when no arguments are given",
		Example: `  gotokenize tokenize "Hello, happy tax payer!"
  cat notes.txt | gotokenize tokenize --format table`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			name := tokenizer
			if name == "" {
				name = a.cfg.Analysis.DefaultTokenizer
			}
			tok, err := a.registry.Get(name)
			if err != nil {
				return err
			}

			return writeTokens(cmd.OutOrStdout(), format, tok.TokenStream(text))
		},
	}

	cmd.Flags().StringVarP(&tokenizer, "tokenizer", "t", "", "tokenizer name (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, table, text")
	return cmd
}

func readInput(r io.Reader, args []string) (string, error) {
	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}
	if !utf8.ValidString(text) {
		return "", errors.New("input is not valid UTF-8")
	}
	return text, nil
}

// writeTokens drains ts into w in the requested format.
func writeTokens(w io.Writer, format string, ts analysis.TokenStream) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		var err error
		analysis.Process(ts, func(tok *analysis.Token) {
			if err == nil {
				err = enc.Encode(tok)
			}
		})
		return err
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "POSITION\tFROM\tTO\tTEXT")
		analysis.Process(ts, func(tok *analysis.Token) {
			fmt.Fprintf(tw, "%d\t%d\t%d\t%s\n", tok.Position, tok.OffsetFrom, tok.OffsetTo, tok.Text)
		})
		return tw.Flush()
	case "text":
		var err error
		analysis.Process(ts, func(tok *analysis.Token) {
			if err == nil {
				_, err = fmt.Fprintln(w, tok.Text)
			}
		})
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func newTokenizersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenizers",
		Short: "List registered tokenizers",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, name := range a.registry.Names() {
				marker := ""
				if name == a.cfg.Analysis.DefaultTokenizer {
					marker = " (default)"
				}
				cmd.Printf("%s%s\n", name, marker)
			}
		},
	}
}
