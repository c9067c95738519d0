// Package render draws graph snapshots: an SVG document for browsers and a
// character canvas for terminals.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/kilupskalvis/gitsim/internal/layout"
	"github.com/kilupskalvis/gitsim/internal/models"
)

const (
	svgMargin      = 60
	connectorColor = "#000"
	arrowMarkerID  = "arrow"
	labelBaseline  = 3
)

type svgDocument struct {
	XMLName xml.Name   `xml:"svg"`
	Xmlns   string     `xml:"xmlns,attr"`
	Width   int        `xml:"width,attr"`
	Height  int        `xml:"height,attr"`
	ViewBox string     `xml:"viewBox,attr"`
	Defs    svgDefs    `xml:"defs"`
	Groups  []svgGroup `xml:"g"`
}

type svgDefs struct {
	Marker svgMarker `xml:"marker"`
}

type svgMarker struct {
	ID           string  `xml:"id,attr"`
	ViewBox      string  `xml:"viewBox,attr"`
	RefX         int     `xml:"refX,attr"`
	RefY         int     `xml:"refY,attr"`
	MarkerWidth  int     `xml:"markerWidth,attr"`
	MarkerHeight int     `xml:"markerHeight,attr"`
	Orient       string  `xml:"orient,attr"`
	Path         svgPath `xml:"path"`
}

type svgPath struct {
	D    string `xml:"d,attr"`
	Fill string `xml:"fill,attr"`
}

type svgGroup struct {
	Class   string      `xml:"class,attr"`
	Branch  string      `xml:"data-branch,attr,omitempty"`
	Texts   []svgText   `xml:"text"`
	Lines   []svgLine   `xml:"line"`
	Circles []svgCircle `xml:"circle"`
}

type svgText struct {
	X          int    `xml:"x,attr"`
	Y          int    `xml:"y,attr"`
	Fill       string `xml:"fill,attr"`
	FontWeight string `xml:"font-weight,attr"`
	Value      string `xml:",chardata"`
}

type svgLine struct {
	X1          int    `xml:"x1,attr"`
	Y1          int    `xml:"y1,attr"`
	X2          int    `xml:"x2,attr"`
	Y2          int    `xml:"y2,attr"`
	Stroke      string `xml:"stroke,attr"`
	StrokeWidth int    `xml:"stroke-width,attr"`
	Dash        string `xml:"stroke-dasharray,attr,omitempty"`
	MarkerStart string `xml:"marker-start,attr,omitempty"`
}

type svgCircle struct {
	ID          string `xml:"id,attr"`
	Cx          int    `xml:"cx,attr"`
	Cy          int    `xml:"cy,attr"`
	R           int    `xml:"r,attr"`
	Fill        string `xml:"fill,attr"`
	Stroke      string `xml:"stroke,attr"`
	StrokeWidth int    `xml:"stroke-width,attr"`
}

// SVG renders snap as a standalone SVG document. Output depends only on the
// snapshot and params, so equal inputs give byte-identical documents.
func SVG(snap models.GraphSnapshot, params layout.Params) ([]byte, error) {
	width, height := extent(snap)
	doc := svgDocument{
		Xmlns:   "http://www.w3.org/2000/svg",
		Width:   width,
		Height:  height,
		ViewBox: fmt.Sprintf("0 0 %d %d", width, height),
		Defs: svgDefs{Marker: svgMarker{
			ID:           arrowMarkerID,
			ViewBox:      "0 0 10 10",
			RefX:         0,
			RefY:         5,
			MarkerWidth:  10,
			MarkerHeight: 10,
			Orient:       "auto-start-reverse",
			Path:         svgPath{D: "M 0 0 L 10 5 L 0 10 z", Fill: "#323232"},
		}},
	}

	for _, b := range snap.Branches {
		doc.Groups = append(doc.Groups, branchGroup(b, b.Name == snap.Selected, params))
	}

	merges := svgGroup{Class: "merges"}
	for _, m := range snap.Merges {
		merges.Lines = append(merges.Lines, connector(m.Line))
	}
	doc.Groups = append(doc.Groups, merges)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode svg: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func branchGroup(b models.BranchSnapshot, selected bool, params layout.Params) svgGroup {
	g := svgGroup{Class: "branch", Branch: b.Name}

	label := svgText{X: b.Origin.X, Y: b.Origin.Y + labelBaseline, Fill: "#000", FontWeight: "100", Value: b.Name}
	if selected {
		label.Fill = "green"
		label.FontWeight = "bold"
	}
	g.Texts = append(g.Texts, label)

	g.Lines = append(g.Lines, svgLine{
		X1: b.LifelineStart.X, Y1: b.LifelineStart.Y,
		X2: b.LifelineEnd.X, Y2: b.LifelineEnd.Y,
		Stroke:      b.Color.CSS(),
		StrokeWidth: 2,
		Dash:        "5",
	})
	if b.Fork != nil {
		g.Lines = append(g.Lines, connector(*b.Fork))
	}
	for _, l := range b.Connectors {
		g.Lines = append(g.Lines, connector(l))
	}

	for _, c := range b.Commits {
		g.Circles = append(g.Circles, svgCircle{
			ID:          c.ID(),
			Cx:          c.Position.X,
			Cy:          c.Position.Y,
			R:           params.CommitRadius,
			Fill:        b.Color.CSS(),
			Stroke:      connectorColor,
			StrokeWidth: 2,
		})
	}
	return g
}

func connector(l models.Line) svgLine {
	return svgLine{
		X1: l.From.X, Y1: l.From.Y,
		X2: l.To.X, Y2: l.To.Y,
		Stroke:      connectorColor,
		StrokeWidth: 2,
		MarkerStart: "url(#" + arrowMarkerID + ")",
	}
}

// extent returns the document size needed to show every element.
func extent(snap models.GraphSnapshot) (int, int) {
	var maxX, maxY int
	grow := func(p models.Point) {
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	for _, b := range snap.Branches {
		grow(b.Origin)
		grow(b.LifelineEnd)
		for _, c := range b.Commits {
			grow(c.Position)
		}
	}
	return maxX + svgMargin, maxY + svgMargin
}
