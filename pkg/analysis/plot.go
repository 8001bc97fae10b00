package analysis

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"antevo/pkg/moo/framework"
)

// PlotFront renders a scatter plot of the front's scores on two objectives
// to an HTML file.
func PlotFront(front []*framework.Individual, objX, objY, path string) error {
	if len(front) == 0 {
		return fmt.Errorf("front is empty, nothing to plot")
	}
	for _, obj := range []string{objX, objY} {
		if _, ok := front[0].Fitness[obj]; !ok {
			return fmt.Errorf("objective %q not present in fitness mapping", obj)
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Pareto Front",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: objX,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: objY,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	points := make([]opts.ScatterData, len(front))
	for i, ind := range front {
		points[i] = opts.ScatterData{
			Value:      []float64{ind.Fitness[objX], ind.Fitness[objY]},
			Symbol:     "triangle",
			SymbolSize: 10,
		}
	}

	scatter.AddSeries("Front 0", points).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
			charts.WithEmphasisOpts(opts.Emphasis{}),
		)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return scatter.Render(f)
}
