package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/andrescamacho/gw2-planner/internal/domain/planning"
)

// PrintPlan writes the plan report: one section per sourcing channel,
// items sorted by name.
func PrintPlan(w io.Writer, plan planning.Plan) {
	fmt.Fprintln(w, "\n____ Plan Result ____")

	fmt.Fprintln(w, "\nFrom Trading Post, buy:")
	for _, name := range sortedNames(plan.Buy) {
		purchase := plan.Buy[name]
		fmt.Fprintf(w, "%s: %d for a total cost of %d\n", name, purchase.Quantity, purchase.Cost)
	}

	fmt.Fprintln(w, "\nFrom vendors, buy:")
	for _, name := range sortedNames(plan.Vendor) {
		purchase := plan.Vendor[name]
		fmt.Fprintf(w, "%s: %d for a total cost of %d\n", name, purchase.Quantity, purchase.Cost)
	}

	fmt.Fprintf(w, "\nTotal cost: %d\n", plan.TotalCost)
}

func sortedNames(purchases map[string]planning.Purchase) []string {
	names := make([]string, 0, len(purchases))
	for name := range purchases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
