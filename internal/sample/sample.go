package sample

import (
	"fmt"
	"math/rand"
	"strconv"

	"sheetdash/domain/grid"
)

// Config controls the generated demo workbook
type Config struct {
	Rows int
	Seed int64
}

// DefaultConfig returns the fixture defaults. The fixed seed keeps the demo
// workbook identical across runs, so screenshots and tests stay stable.
func DefaultConfig() Config {
	return Config{
		Rows: 24,
		Seed: 42,
	}
}

// Generator builds the built-in demand/supply demo workbook
type Generator struct {
	config Config
	rng    *rand.Rand
}

// NewGenerator creates a new sample generator
func NewGenerator(config Config) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Workbook generates the default demo workbook
func Workbook() *grid.Workbook {
	return NewGenerator(DefaultConfig()).Workbook()
}

var (
	regions  = []string{"North", "South", "East", "West", "Central"}
	statuses = []string{"Discovery", "Scoping", "In Progress", "Review", "Delivered"}
	owners   = []string{"Ana", "Bo", "Cy", "Di", "Eli", "Fay"}
)

// Workbook builds a three-sheet workbook: the main demand/supply grid, a
// tag pipeline sheet, and a sparse notes sheet that exercises the empty
// column paths.
func (g *Generator) Workbook() *grid.Workbook {
	wb := grid.NewWorkbook()
	wb.Add("Dashboard Data", g.mainSheet())
	wb.Add("TAG Pipeline", g.pipelineSheet())
	wb.Add("Notes", g.notesSheet())
	return wb
}

func (g *Generator) mainSheet() grid.RawSheet {
	raw := grid.RawSheet{
		{"Project", "Region", "Status", "Demand Hours", "Supply Hours", "Priority Score"},
	}
	for i := 0; i < g.config.Rows; i++ {
		demand := strconv.Itoa(40 + g.rng.Intn(120))
		supply := strconv.Itoa(30 + g.rng.Intn(110))
		if i%9 == 8 {
			// A few holes so missing-value handling shows up in the demo.
			supply = ""
		}
		raw = append(raw, []string{
			fmt.Sprintf("PRJ-%03d", i+1),
			regions[g.rng.Intn(len(regions))],
			statuses[g.rng.Intn(len(statuses))],
			demand,
			supply,
			strconv.FormatFloat(float64(g.rng.Intn(100))/10, 'f', 1, 64),
		})
	}
	return raw
}

func (g *Generator) pipelineSheet() grid.RawSheet {
	raw := grid.RawSheet{
		{"Tag", "Stage", "Owner", "Progress"},
	}
	count := g.config.Rows / 2
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		raw = append(raw, []string{
			fmt.Sprintf("TAG-%02d", i+1),
			statuses[i%len(statuses)],
			owners[g.rng.Intn(len(owners))],
			strconv.Itoa(g.rng.Intn(101)),
		})
	}
	return raw
}

func (g *Generator) notesSheet() grid.RawSheet {
	return grid.RawSheet{
		{"Comment", "Reviewed"},
		{"Kickoff notes pending", ""},
		{"", ""},
		{"Supply numbers from Q2 forecast", ""},
	}
}
