package steps

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/gw2-planner/internal/domain/catalog"
	"github.com/andrescamacho/gw2-planner/internal/domain/market"
	"github.com/andrescamacho/gw2-planner/internal/domain/planning"
)

// planningContext holds the state of one planning scenario.
type planningContext struct {
	store    *catalog.Store
	listings map[string]market.Item
	plan     planning.Plan
	planErr  error
}

// InitializePlanningScenario registers the planning step definitions.
func InitializePlanningScenario(sc *godog.ScenarioContext) {
	ctx := &planningContext{}

	sc.Before(func(gCtx context.Context, sn *godog.Scenario) (context.Context, error) {
		*ctx = planningContext{listings: make(map[string]market.Item)}
		return gCtx, nil
	})

	sc.Step(`^a material catalog:$`, ctx.aMaterialCatalog)
	sc.Step(`^Trading Post sell listings for "([^"]*)":$`, ctx.sellListingsFor)
	sc.Step(`^I plan for targets "([^"]*)"$`, ctx.iPlanForTargets)
	sc.Step(`^the plan buys (\d+) "([^"]*)" from the Trading Post for (\d+)$`, ctx.planBuysFromTradingPost)
	sc.Step(`^the plan buys (\d+) "([^"]*)" from a vendor for (\d+)$`, ctx.planBuysFromVendor)
	sc.Step(`^the Trading Post section is empty$`, ctx.tradingPostSectionEmpty)
	sc.Step(`^the vendor section is empty$`, ctx.vendorSectionEmpty)
	sc.Step(`^the total cost is (\d+)$`, ctx.totalCostIs)
	sc.Step(`^planning fails because "([^"]*)" cannot be sourced$`, ctx.planningFailsFor)
}

func (c *planningContext) aMaterialCatalog(doc *godog.DocString) error {
	store, err := catalog.ParseDescriptions(strings.NewReader(doc.Content))
	if err != nil {
		return err
	}
	c.store = store
	return nil
}

func (c *planningContext) sellListingsFor(name string, table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("listings table for %q needs a header row and at least one tier", name)
	}

	item := market.Item{ID: uint32(len(c.listings) + 1)}
	for _, row := range table.Rows[1:] {
		unitPrice, err := parseTierCell(table, row, "unit_price")
		if err != nil {
			return err
		}
		quantity, err := parseTierCell(table, row, "quantity")
		if err != nil {
			return err
		}
		item.Sells = append(item.Sells, market.PriceTier{
			Listings:  1,
			UnitPrice: unitPrice,
			Quantity:  quantity,
		})
	}

	c.listings[name] = item
	return nil
}

// parseTierCell reads a named column of a tier row as a u32.
func parseTierCell(table *godog.Table, row *messages.PickleTableRow, columnName string) (uint32, error) {
	for i, header := range table.Rows[0].Cells {
		if header.Value != columnName {
			continue
		}
		value, err := strconv.ParseUint(row.Cells[i].Value, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", columnName, err)
		}
		return uint32(value), nil
	}
	return 0, fmt.Errorf("listings table is missing column %q", columnName)
}

func (c *planningContext) iPlanForTargets(list string) error {
	if c.store == nil {
		return errors.New("no catalog given")
	}

	var targets []string
	for _, name := range strings.Split(list, ",") {
		targets = append(targets, strings.TrimSpace(name))
	}

	c.plan, c.planErr = planning.Plan(targets, c.store, c.listings)
	return nil
}

func (c *planningContext) planBuysFromTradingPost(quantity int, name string, cost int) error {
	if c.planErr != nil {
		return fmt.Errorf("planning failed: %w", c.planErr)
	}
	return checkPurchase(c.plan.Buy, "Trading Post", name, quantity, cost)
}

func (c *planningContext) planBuysFromVendor(quantity int, name string, cost int) error {
	if c.planErr != nil {
		return fmt.Errorf("planning failed: %w", c.planErr)
	}
	return checkPurchase(c.plan.Vendor, "vendor", name, quantity, cost)
}

func checkPurchase(section map[string]planning.Purchase, label, name string, quantity, cost int) error {
	purchase, ok := section[name]
	if !ok {
		return fmt.Errorf("%s section has no entry for %q", label, name)
	}
	if purchase.Quantity != uint32(quantity) || purchase.Cost != uint32(cost) {
		return fmt.Errorf("%s entry for %q is %d units for %d, expected %d for %d",
			label, name, purchase.Quantity, purchase.Cost, quantity, cost)
	}
	return nil
}

func (c *planningContext) tradingPostSectionEmpty() error {
	if c.planErr != nil {
		return fmt.Errorf("planning failed: %w", c.planErr)
	}
	if len(c.plan.Buy) != 0 {
		return fmt.Errorf("expected empty Trading Post section, got %d entries", len(c.plan.Buy))
	}
	return nil
}

func (c *planningContext) vendorSectionEmpty() error {
	if c.planErr != nil {
		return fmt.Errorf("planning failed: %w", c.planErr)
	}
	if len(c.plan.Vendor) != 0 {
		return fmt.Errorf("expected empty vendor section, got %d entries", len(c.plan.Vendor))
	}
	return nil
}

func (c *planningContext) totalCostIs(cost int) error {
	if c.planErr != nil {
		return fmt.Errorf("planning failed: %w", c.planErr)
	}
	if c.plan.TotalCost != uint32(cost) {
		return fmt.Errorf("total cost is %d, expected %d", c.plan.TotalCost, cost)
	}
	return nil
}

func (c *planningContext) planningFailsFor(name string) error {
	if c.planErr == nil {
		return errors.New("expected planning to fail, but it succeeded")
	}
	var noSourcing *planning.NoSourcingError
	if !errors.As(c.planErr, &noSourcing) {
		return fmt.Errorf("expected a no-sourcing error, got: %v", c.planErr)
	}
	if noSourcing.Item != name {
		return fmt.Errorf("no-sourcing error names %q, expected %q", noSourcing.Item, name)
	}
	return nil
}
