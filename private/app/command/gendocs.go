// Copyright 2023 Anapaya Systems

package command

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/scionproto/staticrouter/pkg/private/serrors"
)

// headers shifts the generated headings up one level, so that every page has a single top
// level title.
var headers = []struct {
	Search  *regexp.Regexp
	Replace string
}{
	{Search: regexp.MustCompile("(?m)^## "), Replace: "# "},
	{Search: regexp.MustCompile("(?m)^### "), Replace: "## "},
	{Search: regexp.MustCompile("(?m)^#### "), Replace: "### "},
}

// NewGendocs creates a hidden subcommand that writes the markdown reference of the whole
// command tree into a directory.
func NewGendocs(pather Pather) *cobra.Command {
	var cmd = &cobra.Command{
		Use:     "gendocs <directory>",
		Short:   "Generate documentation",
		Example: "  " + pather.CommandPath() + " gendocs doc/command",
		Args:    cobra.ExactArgs(1),
		Hidden:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Root().DisableAutoGenTag = true

			directory := args[0]
			if err := os.MkdirAll(directory, 0755); err != nil {
				return serrors.Wrap("creating directory", err, "dir", directory)
			}
			if err := genMarkdownTree(cmd.Root(), directory); err != nil {
				return serrors.Wrap("generating documentation", err)
			}
			return nil
		},
	}
	return cmd
}

func genMarkdownTree(cmd *cobra.Command, dir string) error {
	var children []string
	for _, c := range cmd.Commands() {
		if !c.IsAvailableCommand() || c.IsAdditionalHelpTopicCommand() {
			continue
		}
		if err := genMarkdownTree(c, dir); err != nil {
			return err
		}
		children = append(children, basename(c))
	}

	var buf bytes.Buffer
	if err := doc.GenMarkdown(cmd, &buf); err != nil {
		return err
	}
	raw := buf.Bytes()
	for _, h := range headers {
		raw = h.Search.ReplaceAll(raw, []byte(h.Replace))
	}
	if len(children) != 0 {
		var index bytes.Buffer
		index.WriteString("\n## Subcommands\n\n")
		for _, c := range children {
			fmt.Fprintf(&index, "- [%s](%s)\n", strings.TrimSuffix(c, ".md"), c)
		}
		raw = append(raw, index.Bytes()...)
	}
	return os.WriteFile(filepath.Join(dir, basename(cmd)), raw, 0666)
}

func basename(cmd *cobra.Command) string {
	return strings.ReplaceAll(cmd.CommandPath(), " ", "_") + ".md"
}
