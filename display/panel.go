package display

import (
	"image"
	"image/color"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

const (
	PanelWidth  = 128
	PanelHeight = 64
)

// PanelWriter is the notification panel driver. It owns the i2c transfer
// below the rendered image.
type PanelWriter interface {
	Show(img *image.Gray) error
}

// Panel renders the notice messages. While the notice toggle is on the
// panel shows the "on" message; on the falling edge the "off" message is
// held for the configured duration and then the panel is blanked.
type Panel struct {
	writer    PanelWriter
	hold      time.Duration
	showingOn bool
	clearAt   time.Time
}

func NewPanel(writer PanelWriter, hold time.Duration) *Panel {
	return &Panel{writer: writer, hold: hold}
}

// Refresh advances the panel for one tick. It only pushes an image when
// something changed, the driver is not touched on idle ticks.
func (p *Panel) Refresh(snap state.Snapshot, now time.Time) {
	switch {
	case snap.On(state.Notice):
		if !p.showingOn {
			p.show(p.message("TELEVISAO", "LIGADA"))
			p.showingOn = true
			p.clearAt = time.Time{}
		}
	case p.showingOn:
		p.show(p.message("TELEVISAO", "DESLIGADA"))
		p.showingOn = false
		p.clearAt = now.Add(p.hold)
	case !p.clearAt.IsZero() && !now.Before(p.clearAt):
		p.show(image.NewGray(image.Rect(0, 0, PanelWidth, PanelHeight)))
		p.clearAt = time.Time{}
	}
}

func (p *Panel) show(img *image.Gray) {
	if err := p.writer.Show(img); err != nil {
		util.Logger.Warn().Msgf("panel refresh failed: %v", err)
	}
}

// message builds the framed two line notice image.
func (p *Panel) message(line1, line2 string) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, PanelWidth, PanelHeight))
	drawRect(img, 0, 0, PanelWidth-1, PanelHeight-1)
	drawRect(img, 3, 3, PanelWidth-4, PanelHeight-4)
	drawCentered(img, line1, 30)
	drawCentered(img, line2, 46)
	return img
}

func drawRect(img *image.Gray, x0, y0, x1, y1 int) {
	for x := x0; x <= x1; x++ {
		img.SetGray(x, y0, color.Gray{Y: 255})
		img.SetGray(x, y1, color.Gray{Y: 255})
	}
	for y := y0; y <= y1; y++ {
		img.SetGray(x0, y, color.Gray{Y: 255})
		img.SetGray(x1, y, color.Gray{Y: 255})
	}
}

func drawCentered(img *image.Gray, text string, baseline int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: 255}),
		Face: inconsolata.Regular8x16,
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(PanelWidth) - width) / 2,
		Y: fixed.I(baseline),
	}
	d.DrawString(text)
}
