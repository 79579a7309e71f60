package ui

import (
	"image"

	"sandpit/internal/particle"
)

const (
	panelPadding   = 12
	headerBaseline = 18
	rowSpacing     = 16
	statusRows     = 5

	swatchSize    = 18
	swatchGap     = 4
	paletteRows   = 3
	paletteTop    = panelPadding + headerBaseline + statusRows*rowSpacing + 14
	swatchesTop   = paletteTop + 18
	countsTop     = swatchesTop + paletteRows*(swatchSize+swatchGap) + 10
	countRows     = 8
	countSpacing  = 14
	countLabelW   = 84
	countNumberW  = 56
	controlsTop   = countsTop + 18 + countRows*countSpacing + 6
	lineHeight    = 36
	buttonSize    = 24
	buttonGap     = 6
	labelBaseline = 24
)

// swatch is one clickable brush cell in the palette grid.
type swatch struct {
	typ  particle.Type
	rect image.Rectangle
}

// layoutSwatches arranges types left to right in rows that fit a panel of the
// given width. Types beyond paletteRows rows are dropped.
func layoutSwatches(width int, types []particle.Type) []swatch {
	cols := (width - 2*panelPadding + swatchGap) / (swatchSize + swatchGap)
	if cols <= 0 {
		return nil
	}
	out := make([]swatch, 0, len(types))
	for i, t := range types {
		row, col := i/cols, i%cols
		if row >= paletteRows {
			break
		}
		x := panelPadding + col*(swatchSize+swatchGap)
		y := swatchesTop + row*(swatchSize+swatchGap)
		out = append(out, swatch{typ: t, rect: image.Rect(x, y, x+swatchSize, y+swatchSize)})
	}
	return out
}

// swatchAt returns the type under (x, y), if any.
func swatchAt(swatches []swatch, x, y int) (particle.Type, bool) {
	for _, s := range swatches {
		if image.Pt(x, y).In(s.rect) {
			return s.typ, true
		}
	}
	return particle.Background, false
}

// countRow is one bar of the cell histogram.
type countRow struct {
	typ   particle.Type
	count int
	// frac is the bar length relative to the most common listed type.
	frac float64
}

// histogram lists the non-background types present in counts, in catalog
// order, capped at countRows.
func histogram(counts [particle.Count]int) []countRow {
	var rows []countRow
	most := 0
	for _, t := range particle.All() {
		if t.IsBackground() || counts[t] == 0 {
			continue
		}
		if len(rows) == countRows {
			break
		}
		rows = append(rows, countRow{typ: t, count: counts[t]})
		if counts[t] > most {
			most = counts[t]
		}
	}
	for i := range rows {
		rows[i].frac = float64(rows[i].count) / float64(most)
	}
	return rows
}
