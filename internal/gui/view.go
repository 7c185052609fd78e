package gui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/mj1618/scoopick/internal/mapper"
	"github.com/mj1618/scoopick/internal/points"
	"github.com/mj1618/scoopick/internal/screen"
)

// ScreenView shows the current screenshot letterboxed into its area with a
// crosshair over every set point. Taps are reported in image pixels.
type ScreenView struct {
	widget.BaseWidget

	img     *screen.Image
	points  *points.Collection
	raster  *canvas.Image
	overlay *fyne.Container
	onTap   func(image.Point)

	mu      sync.Mutex
	crosses map[int]*crosshair
	sub     *points.Subscription
}

// NewScreenView builds the view. onTap receives mapper.Outside for taps in
// the letterbox bars.
func NewScreenView(img *screen.Image, pts *points.Collection, onTap func(image.Point)) *ScreenView {
	v := &ScreenView{
		img:     img,
		points:  pts,
		raster:  canvas.NewImageFromImage(img.Get()),
		overlay: container.NewWithoutLayout(),
		onTap:   onTap,
		crosses: make(map[int]*crosshair),
	}
	v.raster.FillMode = canvas.ImageFillContain
	v.raster.ScaleMode = canvas.ImageScaleFastest
	v.ExtendBaseWidget(v)

	v.sub = pts.OnChanged(func() { fyne.Do(v.syncCrosshairs) })
	v.syncCrosshairs()
	return v
}

// SetImage replaces the screenshot and repositions the crosshairs.
func (v *ScreenView) SetImage(img image.Image) {
	v.img.Replace(img)
	v.raster.Image = img
	v.raster.Refresh()
	v.placeAll()
}

// Mapper returns the transform for the current image and widget size.
func (v *ScreenView) Mapper() mapper.Mapper {
	size := v.Size()
	return mapper.New(v.img.Dimensions(), image.Pt(int(size.Width), int(size.Height)))
}

// Tapped implements fyne.Tappable.
func (v *ScreenView) Tapped(ev *fyne.PointEvent) {
	if v.img.IsEmpty() || v.onTap == nil {
		return
	}
	v.onTap(v.Mapper().ToImage(float64(ev.Position.X), float64(ev.Position.Y)))
}

// Close drops every subscription held by the view.
func (v *ScreenView) Close() {
	v.sub.Close()
	v.mu.Lock()
	defer v.mu.Unlock()
	for idx, c := range v.crosses {
		c.close()
		delete(v.crosses, idx)
	}
}

// syncCrosshairs creates crosshairs for new indices. Crosshairs whose idx is
// gone remove themselves.
func (v *ScreenView) syncCrosshairs() {
	n := v.points.Len()
	v.mu.Lock()
	for idx := 0; idx < n; idx++ {
		if _, ok := v.crosses[idx]; !ok {
			c := newCrosshair(v, idx)
			v.crosses[idx] = c
			v.overlay.Add(c.group)
		}
	}
	v.mu.Unlock()
	v.placeAll()
}

func (v *ScreenView) remove(c *crosshair) {
	v.mu.Lock()
	if v.crosses[c.idx] == c {
		delete(v.crosses, c.idx)
	}
	v.mu.Unlock()
	v.overlay.Remove(c.group)
}

// crosshairCount reports how many crosshairs exist.
func (v *ScreenView) crosshairCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.crosses)
}

func (v *ScreenView) placeAll() {
	v.mu.Lock()
	all := make([]*crosshair, 0, len(v.crosses))
	for _, c := range v.crosses {
		all = append(all, c)
	}
	v.mu.Unlock()
	m := v.Mapper()
	for _, c := range all {
		c.place(m)
	}
}

// CreateRenderer implements fyne.Widget.
func (v *ScreenView) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Gray{Y: 0x20})
	return &viewRenderer{v: v, bg: bg, objects: []fyne.CanvasObject{bg, v.raster, v.overlay}}
}

type viewRenderer struct {
	v       *ScreenView
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *viewRenderer) Layout(size fyne.Size) {
	for _, o := range r.objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	r.v.placeAll()
}

func (r *viewRenderer) MinSize() fyne.Size { return fyne.NewSize(320, 200) }

func (r *viewRenderer) Refresh() {
	r.v.raster.Refresh()
	r.v.placeAll()
	r.v.overlay.Refresh()
}

func (r *viewRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *viewRenderer) Destroy() {}
