package chart

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	errx "github.com/insightxpress/server/internal/core/error"
	"github.com/insightxpress/server/internal/dataset"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func salesTable() *dataset.Table {
	return &dataset.Table{
		Columns: []string{"Região", "Vendas", "Custo"},
		Rows: [][]string{
			{"Sul", "100", "40"},
			{"Norte", "250", "90"},
			{"Sul", "80", "30"},
			{"Leste", "120", "55"},
		},
	}
}

func assertChartInvalid(t *testing.T, err error) {
	t.Helper()
	var e *errx.Error
	if !errors.As(err, &e) || e.Kind != errx.KindChartInvalid {
		t.Fatalf("got %v, want chart-invalid error", err)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":        Auto,
		"auto":    Auto,
		" Bar ":   Bar,
		"LINE":    Line,
		"pie":     Pie,
		"scatter": Scatter,
	}
	for in, want := range cases {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("histogram"); err == nil {
		t.Error("unknown kind must fail")
	} else {
		assertChartInvalid(t, err)
	}
}

func TestRenderBarProducesPNG(t *testing.T) {
	png, err := Render(salesTable(), Request{Kind: Bar, X: "Região", Y: "Vendas"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestRenderAutoResolution(t *testing.T) {
	tbl := salesTable()

	// Two numeric columns resolve to a scatter plot.
	if _, err := Render(tbl, Request{Kind: Auto, X: "Vendas", Y: "Custo"}); err != nil {
		t.Errorf("auto scatter: %v", err)
	}
	// Categorical + numeric resolves to a bar chart, either way around.
	if _, err := Render(tbl, Request{Kind: Auto, X: "Região", Y: "Vendas"}); err != nil {
		t.Errorf("auto bar: %v", err)
	}
	if _, err := Render(tbl, Request{Kind: Auto, X: "Vendas", Y: "Região"}); err != nil {
		t.Errorf("auto bar swapped: %v", err)
	}
	// Two categorical columns cannot be resolved.
	two := &dataset.Table{
		Columns: []string{"A", "B"},
		Rows:    [][]string{{"x", "y"}, {"z", "w"}},
	}
	_, err := Render(two, Request{Kind: Auto, X: "A", Y: "B"})
	assertChartInvalid(t, err)
}

func TestRenderScatterRequiresNumericColumns(t *testing.T) {
	_, err := Render(salesTable(), Request{Kind: Scatter, X: "Região", Y: "Vendas"})
	assertChartInvalid(t, err)
}

func TestRenderBarRequiresMixedColumns(t *testing.T) {
	_, err := Render(salesTable(), Request{Kind: Bar, X: "Vendas", Y: "Custo"})
	assertChartInvalid(t, err)
}

func TestRenderRejectsUnknownColumns(t *testing.T) {
	for _, req := range []Request{
		{Kind: Bar, X: "Inexistente", Y: "Vendas"},
		{Kind: Bar, X: "Região", Y: ""},
	} {
		_, err := Render(salesTable(), req)
		assertChartInvalid(t, err)
	}
}

func TestRenderEmptyTable(t *testing.T) {
	_, err := Render(&dataset.Table{Columns: []string{"A"}}, Request{Kind: Bar, X: "A", Y: "A"})
	assertChartInvalid(t, err)
}

func TestAggregateSumsAndOrders(t *testing.T) {
	groups := aggregate(salesTable(), "Região", "Vendas")
	want := []group{
		{"Norte", 250},
		{"Sul", 180},
		{"Leste", 120},
	}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Errorf("groups[%d] = %+v, want %+v", i, groups[i], want[i])
		}
	}
}

func TestPieSlicesFoldRemainder(t *testing.T) {
	tbl := &dataset.Table{Columns: []string{"Cat", "Val"}}
	var total float64
	for i := 0; i < 10; i++ {
		v := float64(100 - i*10)
		total += v
		tbl.Rows = append(tbl.Rows, []string{
			fmt.Sprintf("cat%02d", i),
			fmt.Sprintf("%g", v),
		})
	}

	slices := pieSlices(aggregate(tbl, "Cat", "Val"))
	if len(slices) != pieTopGroups+1 {
		t.Fatalf("got %d slices, want %d", len(slices), pieTopGroups+1)
	}

	last := slices[len(slices)-1]
	if last.Label != "Outros" {
		t.Errorf("last slice label = %q, want Outros", last.Label)
	}
	var kept float64
	for _, s := range slices[:pieTopGroups] {
		kept = kept + s.Value
	}
	if got := kept + last.Value; got != total {
		t.Errorf("slice total = %g, want %g", got, total)
	}
	// Remainder is the sum of the smallest three groups: 30 + 20 + 10.
	if last.Value != 60 {
		t.Errorf("Outros = %g, want 60", last.Value)
	}
}

func TestPieSlicesNoFoldWhenFew(t *testing.T) {
	groups := aggregate(salesTable(), "Região", "Vendas")
	slices := pieSlices(groups)
	if len(slices) != 3 {
		t.Fatalf("got %d slices, want 3", len(slices))
	}
	for _, s := range slices {
		if s.Label == "Outros" {
			t.Error("no Outros bucket expected for a small group set")
		}
	}
}

func TestRenderPieWithManyGroups(t *testing.T) {
	tbl := &dataset.Table{Columns: []string{"Cat", "Val"}}
	for i := 0; i < 12; i++ {
		tbl.Rows = append(tbl.Rows, []string{
			fmt.Sprintf("categoria %d", i),
			fmt.Sprintf("%d", (i+1)*7),
		})
	}
	png, err := Render(tbl, Request{Kind: Pie, X: "Cat", Y: "Val"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestRenderLineOrdersByCategory(t *testing.T) {
	png, err := Render(salesTable(), Request{Kind: Line, X: "Região", Y: "Vendas"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Error("output is not a PNG")
	}

	ordered := byLabel(aggregate(salesTable(), "Região", "Vendas"))
	labels := make([]string, len(ordered))
	for i, g := range ordered {
		labels[i] = g.Label
	}
	want := []string{"Leste", "Norte", "Sul"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("labels = %v, want %v", labels, want)
		}
	}
}
