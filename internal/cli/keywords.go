package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/marginalia"
	"github.com/tsawler/marginalia/model"
)

type keywordsFlags struct {
	report    string
	stopWords []string
	json      bool
}

func newKeywordsCmd(a *app) *cobra.Command {
	var f keywordsFlags

	cmd := &cobra.Command{
		Use:                   "keywords (--report <file> | <text>...) [flags]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Show the keywords each finding is searched for.",
		Example: `  # Keywords of every finding in a report
  marginalia keywords --report report.json

  # Keywords of ad hoc finding texts
  marginalia keywords "Incubate at 37°C for 30 minutes" "Add 5 mL buffer"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runKeywords(cmd, args, &f)
		},
	}

	cmd.Flags().StringVarP(&f.report, "report", "r", "", "Analyzer report (JSON).")
	cmd.Flags().StringSliceVar(&f.stopWords, "stop-word", nil, "Additional words never used as keywords.")
	cmd.Flags().BoolVar(&f.json, "json", false, "Write findings as JSON.")
	return cmd
}

func (a *app) runKeywords(cmd *cobra.Command, args []string, f *keywordsFlags) error {
	var ann *marginalia.Annotator
	switch {
	case f.report != "" && len(args) > 0:
		return fmt.Errorf("use either --report or text arguments, not both")
	case f.report != "":
		ann = marginalia.Open(f.report)
	case len(args) > 0:
		findings := make([]model.Finding, len(args))
		for i, text := range args {
			findings[i] = model.Finding{ID: i, Text: text, Severity: model.SeverityWarning}
		}
		ann = marginalia.FromFindings(findings...)
	default:
		return fmt.Errorf("nothing to extract from: pass --report or finding texts")
	}

	ann = ann.Options(a.options).StopWords(f.stopWords...)
	findings, warnings, err := ann.Findings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		a.logger.Warn(w.Message, "kind", w.Kind.String(), "finding", w.Finding)
	}

	if f.json {
		return writeJSON(cmd.OutOrStdout(), "", findings, true)
	}

	out := cmd.OutOrStdout()
	for _, fd := range findings {
		fmt.Fprintf(out, "#%d [%s] %s\n", fd.ID+1, fd.Severity, fd.Text)
		fmt.Fprintf(out, "    keywords: %s\n", strings.Join(fd.Keywords, ", "))
	}
	return nil
}
