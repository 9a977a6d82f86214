package display

import (
	"image"
	"testing"
	"time"

	"github.com/elijahnyp/casa_controller/state"
)

type capturePanelWriter struct {
	images []*image.Gray
}

func (c *capturePanelWriter) Show(img *image.Gray) error {
	c.images = append(c.images, img)
	return nil
}

func lit(img *image.Gray) int {
	n := 0
	for _, px := range img.Pix {
		if px != 0 {
			n++
		}
	}
	return n
}

func TestPanelIdleWritesNothing(t *testing.T) {
	w := &capturePanelWriter{}
	p := NewPanel(w, 2*time.Second)

	now := time.Now()
	for i := 0; i < 5; i++ {
		p.Refresh(snapshotWith(), now.Add(time.Duration(i)*100*time.Millisecond))
	}
	if len(w.images) != 0 {
		t.Errorf("idle panel pushed %d images, expected 0", len(w.images))
	}
}

func TestPanelShowsOnMessageOnce(t *testing.T) {
	w := &capturePanelWriter{}
	p := NewPanel(w, 2*time.Second)

	on := snapshotWith(state.Notice)
	now := time.Now()
	p.Refresh(on, now)
	p.Refresh(on, now.Add(100*time.Millisecond))
	p.Refresh(on, now.Add(200*time.Millisecond))

	if len(w.images) != 1 {
		t.Fatalf("panel pushed %d images while on, expected 1", len(w.images))
	}
	if lit(w.images[0]) == 0 {
		t.Error("on message image is blank")
	}
}

func TestPanelFallingEdgeHoldsThenClears(t *testing.T) {
	w := &capturePanelWriter{}
	hold := 2 * time.Second
	p := NewPanel(w, hold)

	now := time.Now()
	p.Refresh(snapshotWith(state.Notice), now)

	// falling edge: off message pushed
	p.Refresh(snapshotWith(), now.Add(time.Second))
	if len(w.images) != 2 {
		t.Fatalf("panel pushed %d images after falling edge, expected 2", len(w.images))
	}
	if lit(w.images[1]) == 0 {
		t.Error("off message image is blank")
	}

	// still inside the hold window, nothing new
	p.Refresh(snapshotWith(), now.Add(time.Second+hold/2))
	if len(w.images) != 2 {
		t.Fatalf("panel pushed during hold window")
	}

	// hold expired, panel blanks
	p.Refresh(snapshotWith(), now.Add(time.Second+hold+time.Millisecond))
	if len(w.images) != 3 {
		t.Fatalf("panel did not blank after hold, pushed %d images", len(w.images))
	}
	if lit(w.images[2]) != 0 {
		t.Error("clear image should be blank")
	}

	// and stays quiet afterwards
	p.Refresh(snapshotWith(), now.Add(time.Minute))
	if len(w.images) != 3 {
		t.Error("panel pushed after clearing")
	}
}

func TestPanelRisingEdgeDuringHold(t *testing.T) {
	w := &capturePanelWriter{}
	p := NewPanel(w, 2*time.Second)

	now := time.Now()
	p.Refresh(snapshotWith(state.Notice), now)
	p.Refresh(snapshotWith(), now.Add(time.Second))
	// notice comes back before the hold expires
	p.Refresh(snapshotWith(state.Notice), now.Add(1500*time.Millisecond))

	if len(w.images) != 3 {
		t.Fatalf("panel pushed %d images, expected 3", len(w.images))
	}
	// no stale clear after the rising edge
	p.Refresh(snapshotWith(state.Notice), now.Add(time.Minute))
	if len(w.images) != 3 {
		t.Error("stale hold timer cleared the panel while on")
	}
}
