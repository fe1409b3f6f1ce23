package app

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	log "github.com/sirupsen/logrus"

	"github.com/kplabel/kplabel/internal/export"
	"github.com/kplabel/kplabel/internal/gesture"
	"github.com/kplabel/kplabel/pkg/sidecar"
)

func (a *App) buildMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Folder...", a.showOpenFolder),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", a.save),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export COCO...", a.exportCOCO),
		fyne.NewMenuItem("Export PDF Report...", a.exportPDF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Previous Image", func() { a.navigateBy(-1) }),
		fyne.NewMenuItem("Next Image", func() { a.navigateBy(1) }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			if a.session.UndoLast() {
				a.refreshAll()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Selected", func() {
			if a.session.DeleteSelected() {
				a.refreshAll()
			}
		}),
		fyne.NewMenuItem("Delete Most Recent", func() {
			if _, ok := a.session.DeleteRecent(); ok {
				a.refreshAll()
			}
		}),
		fyne.NewMenuItem("Clear All", func() {
			if a.session.ClearPoints() {
				a.refreshAll()
			}
		}),
	)

	showLabels := fyne.NewMenuItem("Show Labels", nil)
	showLabels.Checked = a.cfg.ShowLabels
	showLabels.Action = func() {
		a.cfg.ShowLabels = !a.cfg.ShowLabels
		showLabels.Checked = a.cfg.ShowLabels
		a.canvas.SetShowLabels(a.cfg.ShowLabels)
	}

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() {
			a.session.ZoomStep(gesture.ButtonZoomStep)
			a.refreshAll()
		}),
		fyne.NewMenuItem("Zoom Out", func() {
			a.session.ZoomStep(1 / gesture.ButtonZoomStep)
			a.refreshAll()
		}),
		fyne.NewMenuItem("Reset View", func() {
			a.session.ResetView()
			a.refreshAll()
		}),
		fyne.NewMenuItemSeparator(),
		showLabels,
	)

	return fyne.NewMainMenu(fileMenu, editMenu, viewMenu)
}

func (a *App) showOpenFolder() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if uri == nil {
			return
		}
		if err := a.openPath(uri.Path()); err != nil {
			dialog.ShowError(err, a.window)
		}
	}, a.window)
}

func (a *App) exportCOCO() {
	if a.navigator == nil || !a.session.HasImage() {
		return
	}
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		doc := sidecar.New()
		doc.SetCoords(a.session.Store.Points())
		w, h := a.session.ImageSize()
		data, err := doc.EncodeCOCO(a.navigator.Current(), w, h)
		if err == nil {
			_, err = writer.Write(data)
		}
		if err != nil {
			log.WithError(err).Error("coco export failed")
			dialog.ShowError(err, a.window)
			return
		}
		log.WithField("target", writer.URI().Path()).Info("coco export written")
	}, a.window)
}

func (a *App) exportPDF() {
	if a.navigator == nil || !a.session.HasImage() {
		return
	}
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		w, h := a.session.ImageSize()
		report := export.Report{
			ImageName:   a.navigator.Current(),
			ImageWidth:  w,
			ImageHeight: h,
			Points:      a.session.Store.Points(),
		}
		if err := export.WritePDF(writer, report); err != nil {
			log.WithError(err).Error("pdf export failed")
			dialog.ShowError(err, a.window)
			return
		}
		log.WithField("target", writer.URI().Path()).Info("pdf report written")
	}, a.window)
}
