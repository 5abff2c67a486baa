package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/marek-kar/aihealth/pkg/model"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

type Renderer interface {
	Render(w io.Writer, report *model.Report) error
}

func New(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &jsonRenderer{}
	default:
		return &tableRenderer{}
	}
}

type jsonRenderer struct{}

func (r *jsonRenderer) Render(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

type tableRenderer struct{}

func (r *tableRenderer) Render(w io.Writer, report *model.Report) error {
	fmt.Fprintf(w, "Session: %s\n", report.SessionID)
	fmt.Fprintf(w, "Status:  %s\n\n", strings.ToUpper(string(report.SystemStatus)))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "GROUP\tCOMPONENT\tSTATUS\tDETAIL\n")
	for _, name := range sortedKeys(report.Dependencies) {
		fmt.Fprintf(tw, "dependencies\t%s\t%s\t\n", name, report.Dependencies[name].Status)
	}
	for _, group := range sortedKeys(report.Components) {
		results := report.Components[group]
		for _, name := range sortedKeys(results) {
			res := results[name]
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", group, name, res.Status, firstLine(res.Detail))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(report.Recommendations) > 0 {
		fmt.Fprintf(w, "\nRecommendations:\n")
		for i, rec := range report.Recommendations {
			fmt.Fprintf(w, "  %d. %s\n", i+1, rec)
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
