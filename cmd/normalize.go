package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/latin-corpus/internal/normalize"
)

var normalizeCmd = &cobra.Command{
	Use:       "normalize author|title|year|language <value>",
	Short:     "Print the normalized form of a value",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"author", "title", "year", "language"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := normalizeValue(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func normalizeValue(kind, value string) (string, error) {
	n := normalize.New(normalize.Options{
		AuthorHonorifics: cfg.Normalize.AuthorHonorifics,
		TitleStopwords:   cfg.Normalize.TitleStopwords,
		TitlePreserve:    cfg.Normalize.TitlePreserve,
	})
	switch kind {
	case "author":
		return n.Author(value), nil
	case "title":
		return n.Title(value), nil
	case "year":
		return normalize.ExtractYearString(value).String(), nil
	case "language":
		return normalize.StandardizeLanguage(value), nil
	default:
		return "", eris.Errorf("normalize: unknown kind %q (want author, title, year or language)", kind)
	}
}
