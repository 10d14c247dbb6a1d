// Package chart maps (table, chart kind, two column names) to a rendered
// PNG figure, or fails with a validation error. Stateless; it never returns
// a partially-constructed figure.
package chart

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"

	errx "github.com/insightxpress/server/internal/core/error"
	"github.com/insightxpress/server/internal/dataset"
)

// Kind selects the figure type. Auto resolves from the column types.
type Kind string

const (
	Auto    Kind = "auto"
	Bar     Kind = "bar"
	Line    Kind = "line"
	Scatter Kind = "scatter"
	Pie     Kind = "pie"
)

const (
	barTopGroups  = 15
	lineTopGroups = 20
	pieTopGroups  = 7

	othersLabel = "Outros"
)

const invalidColumnsMessage = "Colunas selecionadas para o gráfico são inválidas."

// ParseKind normalises the requested chart kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Auto, "":
		return Auto, nil
	case Bar:
		return Bar, nil
	case Line:
		return Line, nil
	case Scatter:
		return Scatter, nil
	case Pie:
		return Pie, nil
	default:
		return "", errx.New(nil, errx.KindChartInvalid, "Tipo de gráfico inválido.")
	}
}

// Request names the figure the user asked for.
type Request struct {
	Kind Kind
	X    string
	Y    string
}

func kindLabel(k Kind) string {
	switch k {
	case Bar:
		return "Barras"
	case Line:
		return "Linha"
	case Pie:
		return "Pizza"
	default:
		return "Dispersão"
	}
}

// Render builds a fully labeled, titled PNG figure from the table, or fails
// with a validation error.
func Render(tbl *dataset.Table, req Request) ([]byte, error) {
	if tbl.Empty() {
		return nil, errx.New(nil, errx.KindChartInvalid, "A planilha enviada está vazia e não pode ser analisada.")
	}
	x, y := req.X, req.Y
	if x == "" || !tbl.HasColumn(x) || y == "" || !tbl.HasColumn(y) {
		return nil, errx.New(nil, errx.KindChartInvalid, invalidColumnsMessage)
	}

	xNumeric, yNumeric := tbl.IsNumeric(x), tbl.IsNumeric(y)

	kind := req.Kind
	if kind == Auto {
		switch {
		case xNumeric && yNumeric:
			kind = Scatter
		case !xNumeric && yNumeric:
			kind = Bar
		case xNumeric && !yNumeric:
			// Swap so the categorical column becomes the label axis.
			kind = Bar
			x, y = y, x
			xNumeric, yNumeric = yNumeric, xNumeric
		default:
			return nil, errx.New(nil, errx.KindChartInvalid, "Não foi possível gerar um gráfico automático com as colunas fornecidas.")
		}
	}

	if kind == Scatter {
		if !xNumeric || !yNumeric {
			return nil, errx.New(nil, errx.KindChartInvalid, "Dispersão requer duas colunas numéricas.")
		}
		return renderScatter(tbl, x, y)
	}

	// Bar, line and pie all need exactly one numeric and one categorical column.
	if xNumeric == yNumeric {
		return nil, errx.New(nil, errx.KindChartInvalid,
			fmt.Sprintf("Gráfico de %s requer uma coluna categórica e uma numérica.", kindLabel(kind)))
	}
	cat, val := x, y
	if xNumeric {
		cat, val = y, x
	}

	groups := aggregate(tbl, cat, val)
	if len(groups) == 0 {
		return nil, errx.New(nil, errx.KindChartInvalid, "Não há valores numéricos para agrupar nas colunas selecionadas.")
	}

	switch kind {
	case Bar:
		return renderBar(groups, cat, val)
	case Line:
		return renderLine(groups, cat, val)
	default:
		return renderPie(groups, cat, val)
	}
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(r renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(chart.PNG, &buf); err != nil {
		return nil, errx.New(err, errx.KindChartInvalid, "Não foi possível renderizar o gráfico com as colunas fornecidas.")
	}
	return buf.Bytes(), nil
}

func renderScatter(tbl *dataset.Table, x, y string) ([]byte, error) {
	xs, ys := tbl.NumericPairs(x, y)
	if len(xs) == 0 {
		return nil, errx.New(nil, errx.KindChartInvalid, "Não há pares numéricos válidos para o gráfico de dispersão.")
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Dispersão entre %s e %s", x, y),
		Width:  800,
		Height: 512,
		XAxis:  chart.XAxis{Name: x},
		YAxis:  chart.YAxis{Name: y},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(&graph)
}

func renderBar(groups []group, cat, val string) ([]byte, error) {
	top := topGroups(groups, barTopGroups)
	bars := make([]chart.Value, 0, len(top))
	for _, g := range top {
		bars = append(bars, chart.Value{Label: g.Label, Value: g.Value})
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("Total de %s por %s", val, cat),
		Width:    800,
		Height:   512,
		BarWidth: 40,
		XAxis:    chart.Style{TextRotationDegrees: 45},
		YAxis:    chart.YAxis{Name: val},
		Bars:     bars,
	}
	return render(&graph)
}

func renderLine(groups []group, cat, val string) ([]byte, error) {
	ordered := byLabel(topGroups(groups, lineTopGroups))

	xs := make([]float64, len(ordered))
	ys := make([]float64, len(ordered))
	ticks := make([]chart.Tick, len(ordered))
	for i, g := range ordered {
		xs[i] = float64(i)
		ys[i] = g.Value
		ticks[i] = chart.Tick{Value: float64(i), Label: g.Label}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Tendência de %s por %s", val, cat),
		Width:  800,
		Height: 512,
		XAxis: chart.XAxis{
			Name:      cat,
			Ticks:     ticks,
			TickStyle: chart.Style{TextRotationDegrees: 45},
		},
		YAxis: chart.YAxis{Name: val},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return render(&graph)
}

func renderPie(groups []group, cat, val string) ([]byte, error) {
	slices := pieSlices(groups)
	values := make([]chart.Value, 0, len(slices))
	for _, g := range slices {
		values = append(values, chart.Value{Label: g.Label, Value: g.Value})
	}

	graph := chart.PieChart{
		Title:  fmt.Sprintf("Distribuição de %s por %s", val, cat),
		Width:  720,
		Height: 512,
		Values: values,
	}
	return render(&graph)
}
