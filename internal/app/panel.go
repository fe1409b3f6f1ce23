package app

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/kplabel/kplabel/internal/session"
	"github.com/kplabel/kplabel/pkg/analysis"
	"github.com/kplabel/kplabel/pkg/dicomimg"
)

// sidePanel is the control column next to the canvas: the ordered keypoint
// list with reordering controls, sequence statistics and, for DICOM images,
// the window/level controls.
type sidePanel struct {
	app *App

	list       *widget.List
	statsLabel *widget.Label

	levelSlider  *widget.Slider
	widthSlider  *widget.Slider
	presetSelect *widget.Select
	dicomBox     *fyne.Container

	// suppressSlider blocks slider callbacks while the code, not the user,
	// moves them.
	suppressSlider bool

	content fyne.CanvasObject
}

func newSidePanel(a *App) *sidePanel {
	p := &sidePanel{app: a}

	p.list = widget.NewList(
		func() int { return a.session.Store.Len() },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if pt, ok := a.session.Store.At(i); ok {
				o.(*widget.Label).SetText(fmt.Sprintf("%d: (%d, %d)", i+1, pt.X, pt.Y))
			}
		},
	)
	p.list.OnSelected = func(i widget.ListItemID) {
		a.session.Store.Select(i)
		a.canvas.Refresh()
	}

	upButton := widget.NewButton("Move Up", func() { p.moveSelected(-1) })
	downButton := widget.NewButton("Move Down", func() { p.moveSelected(1) })
	deleteButton := widget.NewButton("Delete", func() {
		if a.session.DeleteSelected() {
			a.refreshAll()
		}
	})
	clearButton := widget.NewButton("Clear All", func() {
		if a.session.ClearPoints() {
			a.refreshAll()
		}
	})

	p.statsLabel = widget.NewLabel("")
	p.statsLabel.Wrapping = fyne.TextWrapWord

	p.buildDICOMControls()

	listBox := container.NewVScroll(p.list)
	listBox.SetMinSize(fyne.NewSize(220, 240))

	p.content = container.NewVBox(
		widget.NewLabel("Keypoints:"),
		listBox,
		container.NewGridWithColumns(2, upButton, downButton),
		container.NewGridWithColumns(2, deleteButton, clearButton),
		widget.NewSeparator(),
		widget.NewLabel("Statistics:"),
		p.statsLabel,
		widget.NewSeparator(),
		p.dicomBox,
	)
	return p
}

func (p *sidePanel) buildDICOMControls() {
	p.levelSlider = widget.NewSlider(dicomimg.MinWindowLevel, dicomimg.MaxWindowLevel)
	p.levelSlider.Step = 1
	p.widthSlider = widget.NewSlider(dicomimg.MinWindowWidth, dicomimg.MaxWindowWidth)
	p.widthSlider.Step = 1

	apply := func() {
		if p.suppressSlider {
			return
		}
		p.app.canvas.SetWindow(dicomimg.WindowLevel{
			Level: int(p.levelSlider.Value),
			Width: int(p.widthSlider.Value),
		})
	}
	p.levelSlider.OnChanged = func(float64) { apply() }
	p.widthSlider.OnChanged = func(float64) { apply() }

	presets := dicomimg.Presets()
	names := make([]string, len(presets))
	for i, preset := range presets {
		names[i] = preset.Name
	}
	p.presetSelect = widget.NewSelect(names, func(name string) {
		for _, preset := range presets {
			if preset.Name == name {
				p.app.canvas.SetWindow(preset.Window)
				p.setWindowControls(preset.Window)
				return
			}
		}
	})

	p.dicomBox = container.NewVBox(
		widget.NewLabel("Window / Level:"),
		widget.NewLabel("Preset:"),
		p.presetSelect,
		widget.NewLabel("Level:"),
		p.levelSlider,
		widget.NewLabel("Width:"),
		p.widthSlider,
	)
	p.dicomBox.Hide()
}

// setWindowControls moves the sliders without triggering a re-render loop.
func (p *sidePanel) setWindowControls(w dicomimg.WindowLevel) {
	p.suppressSlider = true
	p.levelSlider.SetValue(float64(w.Level))
	p.widthSlider.SetValue(float64(w.Width))
	p.suppressSlider = false
}

// showDICOM toggles the window/level controls for the current image type.
func (p *sidePanel) showDICOM(isDICOM bool, w dicomimg.WindowLevel) {
	if isDICOM {
		p.setWindowControls(w)
		p.presetSelect.ClearSelected()
		p.dicomBox.Show()
	} else {
		p.dicomBox.Hide()
	}
}

func (p *sidePanel) moveSelected(delta int) {
	s := p.app.session
	i := s.Store.Selected()
	if i == session.None {
		return
	}
	if s.SwapPoints(i, i+delta) {
		s.Store.Select(i + delta)
		p.app.refreshAll()
	}
}

// refresh redraws the list and statistics from the store.
func (p *sidePanel) refresh() {
	p.list.Refresh()

	stats := analysis.AnalyzeKeypoints(p.app.session.Store.Points())
	if stats.PointCount == 0 {
		p.statsLabel.SetText("No points yet")
		return
	}
	text := fmt.Sprintf("Points: %d\nCentroid: (%.1f, %.1f)", stats.PointCount, stats.Centroid.X, stats.Centroid.Y)
	if len(stats.Segments) > 0 {
		text += fmt.Sprintf("\nPath: %s\nSegments: %s / %s / %s",
			analysis.FormatLength(stats.TotalPathLength),
			analysis.FormatLength(stats.MinSegmentLength),
			analysis.FormatLength(stats.AvgSegmentLength),
			analysis.FormatLength(stats.MaxSegmentLength))
	}
	p.statsLabel.SetText(text)
}
