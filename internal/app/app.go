// Package app is the interactive annotation application: the main window,
// image loading, sidecar persistence and folder navigation around the
// editing canvas.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	log "github.com/sirupsen/logrus"

	"github.com/kplabel/kplabel/internal/config"
	"github.com/kplabel/kplabel/internal/session"
	"github.com/kplabel/kplabel/pkg/dicomimg"
	"github.com/kplabel/kplabel/pkg/imageio"
	"github.com/kplabel/kplabel/pkg/navigate"
	"github.com/kplabel/kplabel/pkg/sidecar"
	"github.com/kplabel/kplabel/pkg/watcher"
)

// watchDebounce coalesces editor save bursts into one reload.
const watchDebounce = 250 * time.Millisecond

// App owns the main window and the state around the editing session.
type App struct {
	fyneApp fyne.App
	window  fyne.Window

	session *session.Session
	canvas  *ImageCanvas
	panel   *sidePanel
	status  *widget.Label

	cfg     config.Config
	cfgPath string

	navigator *navigate.Navigator
	watch     *watcher.SidecarWatcher

	// doc is the loaded sidecar of the current image, kept so foreign keys
	// survive a save.
	doc *sidecar.Document
}

// Run opens the annotation window on a file or folder and blocks until it
// closes.
func Run(path string) error {
	cfg := config.Default()
	cfgPath, err := config.Path()
	if err != nil {
		log.WithError(err).Warn("no config directory, using defaults")
	} else {
		if cfg, err = config.Load(cfgPath); err != nil {
			log.WithError(err).Warn("ignoring broken config file")
		}
	}

	if path == "" && cfg.RecentFolder != "" {
		path = cfg.RecentFolder
	}

	a := &App{
		fyneApp: fyneapp.New(),
		session: session.New(),
		cfg:     cfg,
		cfgPath: cfgPath,
		doc:     sidecar.New(),
	}
	a.window = a.fyneApp.NewWindow("kplabel")
	a.canvas = NewImageCanvas(a.session)
	a.canvas.SetShowLabels(cfg.ShowLabels)
	a.panel = newSidePanel(a)
	a.status = widget.NewLabel("No image loaded")

	a.canvas.OnChange = func() { a.refreshAll() }
	a.canvas.OnWindowChange = func(w dicomimg.WindowLevel) {
		a.panel.setWindowControls(w)
	}

	if a.watch, err = watcher.NewSidecarWatcher(watchDebounce); err != nil {
		log.WithError(err).Warn("external sidecar changes will not be picked up")
	}

	a.window.SetMainMenu(a.buildMenu())
	a.window.SetContent(container.NewBorder(
		nil, a.status, nil, a.panel.content, a.canvas,
	))
	a.window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	a.window.SetCloseIntercept(func() { a.quit() })

	if path != "" {
		if err := a.openPath(path); err != nil {
			log.WithError(err).WithField("path", path).Error("could not open")
			dialog.ShowError(err, a.window)
		}
	}

	a.window.ShowAndRun()
	return nil
}

// openPath points the navigator at a file or folder and shows the first
// image.
func (a *App) openPath(path string) error {
	nav, err := navigate.NewNavigator(path)
	if err != nil {
		return err
	}
	a.navigator = nav
	a.cfg.RecentFolder = filepath.Dir(nav.Current())
	return a.loadCurrent()
}

// loadCurrent loads the navigator's current image and its sidecar into the
// session.
func (a *App) loadCurrent() error {
	path := a.navigator.Current()
	logger := log.WithField("image", filepath.Base(path))

	var width, height int
	if strings.EqualFold(filepath.Ext(path), ".dcm") {
		img, err := dicomimg.Load(path)
		if err != nil {
			return err
		}
		width, height = img.Width, img.Height
		a.canvas.SetDICOM(img)
	} else {
		img, err := imageio.Load(path)
		if err != nil {
			return err
		}
		b := img.Bounds()
		width, height = b.Dx(), b.Dy()
		a.canvas.SetRaster(img)
	}

	a.doc = a.loadSidecar(sidecar.PathFor(path), logger)
	a.session.LoadImage(width, height, a.doc.Coords)
	a.panel.showDICOM(a.canvas.IsDICOM(), a.canvas.Window())

	if a.watch != nil {
		scPath := sidecar.PathFor(path)
		if err := a.watch.SetPath(scPath, a.onSidecarChanged); err != nil {
			logger.WithError(err).Warn("sidecar watch failed")
		}
	}

	logger.WithField("points", a.session.Store.Len()).Info("image loaded")
	a.refreshAll()
	return nil
}

// loadSidecar reads a sidecar, falling back to coordinate recovery when the
// JSON is damaged.
func (a *App) loadSidecar(path string, logger *log.Entry) *sidecar.Document {
	doc, err := sidecar.Load(path)
	if err == nil {
		return doc
	}
	logger.WithError(err).Warn("sidecar unreadable, attempting recovery")

	data, readErr := os.ReadFile(path)
	if readErr == nil {
		if points, recErr := sidecar.Recover(data); recErr == nil {
			logger.WithField("points", len(points)).Warn("recovered coordinates from damaged sidecar")
			doc = sidecar.New()
			doc.SetCoords(points)
			return doc
		}
	}
	logger.Error("sidecar lost, starting empty")
	return sidecar.New()
}

// onSidecarChanged reloads annotations after an external edit. Local
// unsaved work wins: the reload is skipped while the session is dirty.
func (a *App) onSidecarChanged(path string) {
	fyne.Do(func() {
		if a.session.Dirty() {
			log.WithField("sidecar", filepath.Base(path)).Warn("external change ignored, unsaved local edits")
			return
		}
		doc, err := sidecar.Load(path)
		if err != nil {
			log.WithError(err).Warn("external sidecar change unreadable")
			return
		}
		a.doc = doc
		a.session.Store.ReplaceAll(doc.Coords)
		a.session.Undo.Clear()
		log.WithField("points", len(doc.Coords)).Info("annotations reloaded from disk")
		a.refreshAll()
	})
}

// save writes the session's points into the sidecar next to the current
// image.
func (a *App) save() {
	if a.navigator == nil || !a.session.HasImage() {
		return
	}
	path := sidecar.PathFor(a.navigator.Current())

	if a.watch != nil {
		a.watch.Pause()
		defer a.watch.Resume()
	}

	a.doc.SetCoords(a.session.Store.Points())
	warning, err := sidecar.Save(a.doc, path)
	if warning != nil {
		log.WithError(warning).Warn("sidecar backup failed")
	}
	if err != nil {
		log.WithError(err).Error("sidecar save failed")
		dialog.ShowError(err, a.window)
		return
	}
	if _, err := sidecar.CleanupBackups(path, a.cfg.KeepBackups); err != nil {
		log.WithError(err).Warn("backup cleanup failed")
	}
	a.session.MarkSaved()
	log.WithFields(log.Fields{"sidecar": filepath.Base(path), "points": a.session.Store.Len()}).Info("saved")
	a.updateStatus()
}

// navigateBy moves through the folder, autosaving or prompting as
// configured.
func (a *App) navigateBy(delta int) {
	if a.navigator == nil {
		return
	}
	if a.session.Dirty() && a.cfg.Autosave {
		a.save()
	}
	moved := false
	if delta > 0 {
		moved = a.navigator.Next()
	} else {
		moved = a.navigator.Prev()
	}
	if !moved {
		return
	}
	if err := a.loadCurrent(); err != nil {
		dialog.ShowError(err, a.window)
	}
}

// refreshAll redraws the canvas, panel and status line.
func (a *App) refreshAll() {
	a.canvas.Refresh()
	a.panel.refresh()
	a.updateStatus()
}

// updateStatus renders the "position: name" status line.
func (a *App) updateStatus() {
	if a.navigator == nil || !a.session.HasImage() {
		a.status.SetText("No image loaded")
		return
	}
	w, h := a.session.ImageSize()
	text := fmt.Sprintf("%d/%d: %s  |  %dx%d px  |  %d points  |  zoom %.0f%%",
		a.navigator.Position(), a.navigator.Len(), filepath.Base(a.navigator.Current()),
		w, h, a.session.Store.Len(), a.session.View().Zoom*100)
	if a.session.Dirty() {
		text += "  |  modified"
	}
	a.status.SetText(text)
}

// quit persists preferences and closes the window.
func (a *App) quit() {
	if a.session.Dirty() && a.cfg.Autosave {
		a.save()
	}
	size := a.window.Canvas().Size()
	a.cfg.Window = config.WindowConfig{Width: int(size.Width), Height: int(size.Height)}
	if a.cfgPath != "" {
		if err := config.Save(a.cfg, a.cfgPath); err != nil {
			log.WithError(err).Warn("could not save preferences")
		}
	}
	if a.watch != nil {
		a.watch.Close()
	}
	a.window.Close()
}
