// Package render draws a tree with bar charts of the composition of
// every leaf.
package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/op/go-logging"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"bitbucket.org/Davydov/aatree/composition"
	"bitbucket.org/Davydov/aatree/tree"
)

// log is the global logging variable.
var log = logging.MustGetLogger("render")

// Default bar scales.
const (
	AbsoluteMax = 0.20
	RelativeMax = 0.05
)

// geometry in data units; the tree spans x in [0, 1] and every leaf
// takes one unit of height
const (
	nameWidth = 0.6
	barWidth  = 0.05
	tableGap  = 0.1
	rowFill   = 0.8
)

var (
	positive = color.RGBA{B: 255, A: 255}
	negative = color.RGBA{R: 255, A: 255}
)

// Options are the drawing settings.
type Options struct {
	// MaxValue is the value of a full height bar; zero selects
	// AbsoluteMax or RelativeMax by the report mode.
	MaxValue float64
	// Title is the plot title.
	Title string
	// Width of the image, RowHeight is the height per leaf.
	Width     vg.Length
	RowHeight vg.Length
}

type point struct {
	x, y float64
}

// layout returns coordinates of every node: x is the distance from
// the root scaled to [0, 1], y is the leaf row (first leaf on top).
// Trees without branch lengths are drawn as cladograms.
func layout(t *tree.Tree) map[int]point {
	pos := make(map[int]point, t.NNodes())
	useLengths := false
	for node := range t.Walker(nil) {
		if node.BranchLength > 0 {
			useLengths = true
			break
		}
	}

	n := float64(t.NLeaves())
	row := 0.0
	maxX := 0.0
	var place func(node *tree.Node, x float64)
	place = func(node *tree.Node, x float64) {
		p := point{x: x}
		if t.IsLeaf(node) {
			p.y = n - 1 - row
			row++
		}
		children := t.ChildNodes(node)
		for _, child := range children {
			d := 1.0
			if useLengths {
				d = child.BranchLength
			}
			place(child, x+d)
		}
		if !t.IsLeaf(node) {
			p.y = (pos[children[0].Id].y + pos[children[len(children)-1].Id].y) / 2
		}
		if x > maxX {
			maxX = x
		}
		pos[node.Id] = p
	}
	place(t.Root(), 0)

	if maxX == 0 {
		maxX = 1
	}
	for id, p := range pos {
		pos[id] = point{x: p.x / maxX, y: p.y}
	}
	return pos
}

type bar struct {
	x, y, h float64
	c       color.Color
}

type segment struct {
	x1, y1, x2, y2 float64
}

// treePlotter implements plot.Plotter and plot.DataRanger.
type treePlotter struct {
	segments []segment
	bars     []bar
	xMax     float64
	yMax     float64
	style    draw.LineStyle
}

// DataRange implements the plot.DataRanger interface.
func (tp *treePlotter) DataRange() (xMin, xMax, yMin, yMax float64) {
	return 0, tp.xMax, -1, tp.yMax
}

// Plot implements the plot.Plotter interface.
func (tp *treePlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, s := range tp.segments {
		c.StrokeLine2(tp.style, trX(s.x1), trY(s.y1), trX(s.x2), trY(s.y2))
	}
	for _, b := range tp.bars {
		x0 := trX(b.x + barWidth*0.1)
		x1 := trX(b.x + barWidth*0.9)
		y0 := trY(b.y)
		y1 := trY(b.y + b.h)
		c.FillPolygon(b.c, []vg.Point{
			{X: x0, Y: y0},
			{X: x1, Y: y0},
			{X: x1, Y: y1},
			{X: x0, Y: y1},
		})
	}
}

// Draw creates a plot of the tree with bar charts of the taxa
// composition next to the leaves. Every leaf must have a taxon in the
// report.
func Draw(t *tree.Tree, report *composition.Report, opts Options) (*plot.Plot, error) {
	leaves := t.Leaves()
	taxa, err := report.Join(leaves)
	if err != nil {
		return nil, err
	}
	maxValue := opts.MaxValue
	if maxValue <= 0 {
		maxValue = AbsoluteMax
		if report.Mode == composition.RelativeMode {
			maxValue = RelativeMax
		}
	}

	pos := layout(t)
	tp := &treePlotter{
		style: plotter.DefaultLineStyle,
		yMax:  float64(len(leaves)),
	}
	for node := range t.NonTerminals() {
		p := pos[node.Id]
		children := t.ChildNodes(node)
		first := pos[children[0].Id]
		last := pos[children[len(children)-1].Id]
		tp.segments = append(tp.segments, segment{p.x, first.y, p.x, last.y})
		for _, child := range children {
			cp := pos[child.Id]
			tp.segments = append(tp.segments, segment{p.x, cp.y, cp.x, cp.y})
		}
	}

	names := plotter.XYLabels{}
	symbols := plotter.XYLabels{}
	scores := plotter.XYLabels{}
	x := 0.0
	for i, taxon := range taxa {
		leaf := pos[mustLeaf(t, leaves[i]).Id]
		names.XYs = append(names.XYs, plotter.XY{X: 1.02, Y: leaf.y - 0.1})
		names.Labels = append(names.Labels, taxon.Name)

		x = 1 + nameWidth
		for _, ft := range taxon.Tables() {
			for j, v := range ft.Values {
				h := math.Min(math.Abs(v)/maxValue, 1) * rowFill
				c := color.Color(positive)
				if v < 0 {
					c = negative
				}
				tp.bars = append(tp.bars, bar{x: x, y: leaf.y - rowFill/2, h: h, c: c})
				// symbol labels only under the last leaf
				if i == len(taxa)-1 {
					symbols.XYs = append(symbols.XYs, plotter.XY{X: x + barWidth*0.2, Y: leaf.y - 0.9})
					symbols.Labels = append(symbols.Labels, ft.Symbols[j:j+1])
				}
				x += barWidth
			}
			x += tableGap
		}
		if taxon.Score != nil {
			scores.XYs = append(scores.XYs, plotter.XY{X: x, Y: leaf.y - 0.1})
			label := fmt.Sprintf("%.1f", taxon.Score.ChiSquare)
			if taxon.Score.Significant {
				label += "*"
			}
			scores.Labels = append(scores.Labels, label)
		}
	}
	tp.xMax = x + 0.3

	p := plot.New()
	p.Title.Text = opts.Title
	p.HideAxes()
	p.Add(tp)
	for _, l := range []plotter.XYLabels{names, symbols, scores} {
		if len(l.Labels) == 0 {
			continue
		}
		labels, err := plotter.NewLabels(l)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}
	log.Debugf("Drew %d leaves, %d bars", len(leaves), len(tp.bars))
	return p, nil
}

func mustLeaf(t *tree.Tree, name string) *tree.Node {
	node, err := t.Leaf(name)
	if err != nil {
		panic(err)
	}
	return node
}

// Save draws the plot into a file. The format is taken from the file
// extension (png, svg, pdf, ...).
func Save(p *plot.Plot, nLeaves int, filename string, opts Options) error {
	w := opts.Width
	if w == 0 {
		w = 10 * vg.Inch
	}
	rh := opts.RowHeight
	if rh == 0 {
		rh = vg.Inch / 2
	}
	h := rh * vg.Length(nLeaves+2)
	if err := p.Save(w, h, filename); err != nil {
		return fmt.Errorf("while writing file %q: %v", filename, err)
	}
	log.Infof("Tree image written to %s", filename)
	return nil
}
