//go:build !tinygo && cgo

package hal

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunWindow opens a desktop window showing the panel returned by step,
// which is called once per tick with the keys held down. It blocks until
// the window closes or step fails.
func RunWindow(title string, scale int, step func(Input) (*image.RGBA, error)) error {
	g := &hostGame{step: step}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(scaledSize(scale))
	ebiten.SetTPS(35)
	return ebiten.RunGame(g)
}

type hostGame struct {
	step  func(Input) (*image.RGBA, error)
	panel *image.RGBA
	img   *ebiten.Image
}

func (g *hostGame) Update() error {
	in := Input{
		Forward: ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyW),
		Back:    ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyS),
		Left:    ebiten.IsKeyPressed(ebiten.KeyArrowLeft) || ebiten.IsKeyPressed(ebiten.KeyA),
		Right:   ebiten.IsKeyPressed(ebiten.KeyArrowRight) || ebiten.IsKeyPressed(ebiten.KeyD),
	}
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	panel, err := g.step(in)
	if err != nil {
		return err
	}
	g.panel = panel
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	if g.panel == nil {
		return
	}
	b := g.panel.Bounds()
	if g.img == nil {
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
	}
	g.img.WritePixels(g.panel.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return panelWidth, panelHeight
}
