// Package catalog defines which rows and sheets the pipeline looks for:
// the label patterns of the four financial KPIs and the per-domain
// functional sheet layouts. Defaults match The Fresh Connection export;
// a YAML file can override individual entries.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v2"
)

// FinancePatterns holds the label patterns used to locate the financial
// metric rows in the finance report sheet. ROI and RealizedRevenues are
// case-insensitive regular expressions matched against the whole label;
// COGS and IndirectCost are case-insensitive substrings, and every row
// containing the substring is summed (cost sheets split these across
// sub-component rows).
type FinancePatterns struct {
	ROI              string `yaml:"roi"`
	RealizedRevenues string `yaml:"realized_revenues"`
	COGS             string `yaml:"cogs"`
	IndirectCost     string `yaml:"indirect_cost"`
}

// RatioSpec describes one derived column. Exactly one of Alias or
// PercentOfRevenue is set: Alias copies an existing column under a new
// name; PercentOfRevenue divides the named column by the round's
// Realized Revenues and scales to percent.
type RatioSpec struct {
	Name             string `yaml:"name"`
	Alias            string `yaml:"alias,omitempty"`
	PercentOfRevenue string `yaml:"percent_of_revenue,omitempty"`
}

// DomainSpec describes one functional tab: which sheet feeds it, which
// column identifies the entity, and which derived ratios to attempt.
// KPIColumns, when set, restricts the selectable functional KPIs to the
// listed columns (those actually present); when empty every numeric
// non-identifier column is offered.
type DomainSpec struct {
	Name         string      `yaml:"name"`
	Sheet        string      `yaml:"sheet"`
	EntityColumn string      `yaml:"entity_column"`
	KPIColumns   []string    `yaml:"kpi_columns,omitempty"`
	Ratios       []RatioSpec `yaml:"ratios,omitempty"`
}

// Catalog is the full lookup configuration for one pipeline run.
type Catalog struct {
	FinanceSheet string          `yaml:"finance_sheet"`
	Finance      FinancePatterns `yaml:"finance"`
	Domains      []DomainSpec    `yaml:"domains"`
}

// Default returns the catalog matching the standard TFC export.
func Default() *Catalog {
	return &Catalog{
		FinanceSheet: "finance report",
		Finance: FinancePatterns{
			ROI:              `^ROI$`,
			RealizedRevenues: `^Realized revenue$`,
			COGS:             "cost of goods sold",
			IndirectCost:     "indirect cost",
		},
		Domains: []DomainSpec{
			{
				Name:         "Purchase",
				Sheet:        "Component",
				EntityColumn: "Component",
				KPIColumns: []string{
					"Delivery reliability (%)",
					"Rejection (%)",
					"Obsoletes (%)",
					"Component availability (%)",
					"Raw Material Cost %",
				},
				Ratios: []RatioSpec{
					{Name: "Raw Material Cost %", PercentOfRevenue: "Purchase value previous round"},
				},
			},
			{
				Name:         "Sales",
				Sheet:        "Customer",
				EntityColumn: "Customer",
				KPIColumns: []string{
					"Service level (pieces)",
					"Attained shelf life (%)",
					"Order lines",
				},
			},
			{
				Name:         "Supply Chain",
				Sheet:        "Product",
				EntityColumn: "Product",
				KPIColumns: []string{
					"Service level (pieces)",
					"Economic inventory (weeks)",
					"Forecast error (MAPE)",
					"Obsoletes (%)",
					"Attained Shelf Life (weeks)",
				},
				Ratios: []RatioSpec{
					{Name: "Attained Shelf Life (weeks)", Alias: "Economic inventory (weeks)"},
				},
			},
			{
				Name:         "Operations",
				Sheet:        "Warehouse, Salesarea",
				EntityColumn: "Warehouse",
				KPIColumns: []string{
					"Cube utilization (%)",
				},
			},
			{
				Name:         "Production",
				Sheet:        "Bottling line",
				EntityColumn: "Bottling line",
				KPIColumns: []string{
					"Production plan adherence (%)",
				},
			},
		},
	}
}

// Load reads a YAML override file and merges it over the defaults.
// Empty fields keep their default value, so a file may override a
// single pattern or replace the whole domain list.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var overlay Catalog
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	cat := Default()
	cat.merge(&overlay)
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *Catalog) merge(o *Catalog) {
	if o.FinanceSheet != "" {
		c.FinanceSheet = o.FinanceSheet
	}
	if o.Finance.ROI != "" {
		c.Finance.ROI = o.Finance.ROI
	}
	if o.Finance.RealizedRevenues != "" {
		c.Finance.RealizedRevenues = o.Finance.RealizedRevenues
	}
	if o.Finance.COGS != "" {
		c.Finance.COGS = o.Finance.COGS
	}
	if o.Finance.IndirectCost != "" {
		c.Finance.IndirectCost = o.Finance.IndirectCost
	}
	if len(o.Domains) > 0 {
		c.Domains = o.Domains
	}
}

// Validate checks that the regular-expression patterns compile and the
// domain entries are complete.
func (c *Catalog) Validate() error {
	if _, err := regexp.Compile(c.Finance.ROI); err != nil {
		return fmt.Errorf("invalid ROI pattern: %w", err)
	}
	if _, err := regexp.Compile(c.Finance.RealizedRevenues); err != nil {
		return fmt.Errorf("invalid realized-revenues pattern: %w", err)
	}
	if strings.TrimSpace(c.Finance.COGS) == "" {
		return fmt.Errorf("empty COGS substring")
	}
	if strings.TrimSpace(c.Finance.IndirectCost) == "" {
		return fmt.Errorf("empty indirect-cost substring")
	}
	for _, d := range c.Domains {
		if d.Name == "" || d.Sheet == "" || d.EntityColumn == "" {
			return fmt.Errorf("domain %q: name, sheet and entity_column are required", d.Name)
		}
		for _, r := range d.Ratios {
			if r.Name == "" {
				return fmt.Errorf("domain %q: ratio without a name", d.Name)
			}
			if (r.Alias == "") == (r.PercentOfRevenue == "") {
				return fmt.Errorf("domain %q: ratio %q needs exactly one of alias or percent_of_revenue", d.Name, r.Name)
			}
		}
	}
	return nil
}

// Domain returns the spec for the named domain.
func (c *Catalog) Domain(name string) (DomainSpec, bool) {
	for _, d := range c.Domains {
		if strings.EqualFold(d.Name, name) {
			return d, true
		}
	}
	return DomainSpec{}, false
}
