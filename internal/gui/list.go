package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/mj1618/scoopick/internal/points"
)

// newPointList shows one row per point: a selection checkbox, a swatch of the
// indicator color and the point text.
func newPointList(pts *points.Collection) (*widget.List, []*points.Subscription) {
	list := widget.NewList(
		pts.Len,
		func() fyne.CanvasObject {
			swatch := canvas.NewRectangle(color.Black)
			swatch.SetMinSize(fyne.NewSize(12, 12))
			return container.NewHBox(widget.NewCheck("", nil), container.NewCenter(swatch), widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			p, err := pts.At(id)
			if err != nil {
				return
			}
			row := obj.(*fyne.Container)
			check := row.Objects[0].(*widget.Check)
			swatch := row.Objects[1].(*fyne.Container).Objects[0].(*canvas.Rectangle)
			label := row.Objects[2].(*widget.Label)

			check.OnChanged = nil
			check.SetChecked(pts.IsSelected(id))
			check.OnChanged = func(on bool) { pts.Toggle(id, on) }
			swatch.FillColor = p.Color.RGBA()
			swatch.Refresh()
			label.SetText(p.String())
		},
	)
	subs := []*points.Subscription{
		pts.OnChanged(func() { fyne.Do(list.Refresh) }),
		pts.OnPointChanged(func(idx int) { fyne.Do(func() { list.RefreshItem(idx) }) }),
	}
	return list, subs
}
