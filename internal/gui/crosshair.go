package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"github.com/mj1618/scoopick/internal/mapper"
	"github.com/mj1618/scoopick/internal/points"
)

const crossArm = 10

var crossColor = color.NRGBA{R: 255, A: 255}

// crosshair marks one point on the screen view. It tracks its point by idx.
type crosshair struct {
	view  *ScreenView
	idx   int
	h, v  *canvas.Line
	label *canvas.Text
	group *fyne.Container
	subs  []*points.Subscription
}

func newCrosshair(view *ScreenView, idx int) *crosshair {
	c := &crosshair{
		view:  view,
		idx:   idx,
		h:     canvas.NewLine(crossColor),
		v:     canvas.NewLine(crossColor),
		label: canvas.NewText("", crossColor),
	}
	c.h.StrokeWidth, c.v.StrokeWidth = 2, 2
	c.label.TextSize = 11
	c.group = container.NewWithoutLayout(c.h, c.v, c.label)
	c.group.Hide()

	c.subs = []*points.Subscription{
		view.points.OnPointChanged(func(changed int) {
			if changed == c.idx {
				fyne.Do(func() { c.place(view.Mapper()) })
			}
		}),
		view.points.OnChanged(func() {
			fyne.Do(func() { c.place(view.Mapper()) })
		}),
	}
	return c
}

func (c *crosshair) close() {
	for _, s := range c.subs {
		s.Close()
	}
	c.subs = nil
}

// place moves the crosshair onto its point, hides it when the point is unset
// or off screen, and removes it once its idx no longer exists.
func (c *crosshair) place(m mapper.Mapper) {
	p, err := c.view.points.At(c.idx)
	if err != nil {
		c.close()
		c.view.remove(c)
		return
	}
	if !p.IsSet() || m.Empty() {
		c.group.Hide()
		return
	}
	x, y, ok := m.ToDisplay(p.Pos())
	if !ok {
		c.group.Hide()
		return
	}
	fx, fy := float32(x), float32(y)
	col := p.Color.RGBA()
	c.h.StrokeColor, c.v.StrokeColor, c.label.Color = col, col, col
	c.h.Position1, c.h.Position2 = fyne.NewPos(fx-crossArm, fy), fyne.NewPos(fx+crossArm, fy)
	c.v.Position1, c.v.Position2 = fyne.NewPos(fx, fy-crossArm), fyne.NewPos(fx, fy+crossArm)
	c.label.Text = p.Name
	c.label.Move(fyne.NewPos(fx+crossArm+2, fy-crossArm-2))
	c.group.Show()
	c.group.Refresh()
}
