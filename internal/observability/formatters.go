// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/daycare-finder/internal/ranking"
	"github.com/jonathan/daycare-finder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// PrintSearchRequest outputs the parameters of a provider search.
func (p *Printer) PrintSearchRequest(req types.SearchRequest) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Location: %s\n", req.Location))
	sb.WriteString(fmt.Sprintf("Radius:   %.1f km\n", float64(req.RadiusMeters)/1000))
	sb.WriteString(fmt.Sprintf("Limit:    %d\n", req.Limit))
	sb.WriteString(fmt.Sprintf("Keyword:  %s", req.Keyword))
	p.printBox("SEARCH", sb.String())
}

// PrintWeights outputs a weight configuration, highest weight first.
func (p *Printer) PrintWeights(weights map[string]float64) {
	if len(weights) == 0 {
		return
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if weights[names[i]] != weights[names[j]] {
			return weights[names[i]] > weights[names[j]]
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("%-20s %5.2f\n", name, weights[name]))
	}
	p.printBox("SCORING WEIGHTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRankedProviders outputs the top providers of a ranking with their scores.
// top <= 0 shows maxItemsToShow entries.
func (p *Printer) PrintRankedProviders(ranked *types.RankedProviders, top int) {
	if ranked == nil {
		return
	}
	if len(ranked.Providers) == 0 {
		p.printBox("RANKED PROVIDERS", "No providers found")
		return
	}
	if top <= 0 {
		top = maxItemsToShow
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Near: %s\n", ranked.Location))
	sb.WriteString(fmt.Sprintf("Providers ranked: %d\n\n", len(ranked.Providers)))

	shown := ranking.Top(ranked.Providers, top)
	count := len(shown)
	for i := 0; i < count; i++ {
		sp := shown[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", sp.Rank, sp.Name))
		sb.WriteString(fmt.Sprintf("    Score: %.2f", sp.Score))
		if sp.Rating != nil {
			sb.WriteString(fmt.Sprintf("  Rating: %.1f (%d)", *sp.Rating, sp.ReviewCountValue()))
		}
		if sp.DiscountEligible {
			sb.WriteString("  [discount]")
		}
		sb.WriteString("\n")
		if sp.Address != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", sp.Address))
		}
		if sp.Notes != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", sp.Notes))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked.Providers) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more providers", len(ranked.Providers)-count))
	}

	p.printBox("RANKED PROVIDERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProvider outputs one scored provider with its per-criterion components.
func (p *Printer) PrintProvider(sp *types.ScoredProvider) {
	if sp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rank:     %d\n", sp.Rank))
	sb.WriteString(fmt.Sprintf("Score:    %.3f\n", sp.Score))
	if sp.Address != "" {
		sb.WriteString(fmt.Sprintf("Address:  %s\n", sp.Address))
	}
	if sp.Phone != "" {
		sb.WriteString(fmt.Sprintf("Phone:    %s\n", sp.Phone))
	}
	if sp.Website != "" {
		sb.WriteString(fmt.Sprintf("Website:  %s\n", sp.Website))
	}
	if sp.Type != "" {
		sb.WriteString(fmt.Sprintf("Type:     %s\n", sp.Type))
	}
	sb.WriteString(fmt.Sprintf("Discount: %s\n", yesNo(sp.DiscountEligible)))

	if len(sp.Components) > 0 {
		sb.WriteString("\nComponents:\n")
		names := make([]string, 0, len(sp.Components))
		for name := range sp.Components {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  • %-20s %.2f\n", name, sp.Components[name]))
		}
	}

	p.printBox(strings.ToUpper(sp.Name), strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgram outputs program attributes extracted from a website.
func (p *Printer) PrintProgram(url string, attrs types.ProgramAttributes) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL: %s\n\n", url))
	sb.WriteString(fmt.Sprintf("Ages served:        %s\n", orUnknown(strings.Join(attrs.AgesServed, ", "))))
	sb.WriteString(fmt.Sprintf("Mandarin:           %s\n", orUnknown(attrs.Mandarin)))
	sb.WriteString(fmt.Sprintf("Meals provided:     %s\n", orUnknown(attrs.MealsProvided)))
	sb.WriteString(fmt.Sprintf("Curriculum:         %s\n", orUnknown(attrs.Curriculum)))
	sb.WriteString(fmt.Sprintf("Cultural diversity: %s\n", orUnknown(attrs.CulturalDiversity)))
	sb.WriteString(fmt.Sprintf("Staff stability:    %s", orUnknown(attrs.StaffStability)))
	p.printBox("PROGRAM ATTRIBUTES", sb.String())
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
