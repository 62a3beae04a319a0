package bootstrap

import (
	"context"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// jobEventName is the runtime event the frontend subscribes to.
const jobEventName = "job:event"

// desktopUI is the part of the Wails runtime the app drives.
type desktopUI interface {
	OpenFile(options wailsruntime.OpenDialogOptions) (string, error)
	SaveFile(options wailsruntime.SaveDialogOptions) (string, error)
	Message(kind wailsruntime.DialogType, title, message string) error
	Emit(name string, data ...interface{})
}

// wailsUI forwards to the Wails runtime bound to ctx.
type wailsUI struct {
	ctx context.Context
}

// OpenFile shows the native open dialog.
func (w wailsUI) OpenFile(options wailsruntime.OpenDialogOptions) (string, error) {
	return wailsruntime.OpenFileDialog(w.ctx, options)
}

// SaveFile shows the native save dialog.
func (w wailsUI) SaveFile(options wailsruntime.SaveDialogOptions) (string, error) {
	return wailsruntime.SaveFileDialog(w.ctx, options)
}

// Message shows a blocking message box.
func (w wailsUI) Message(kind wailsruntime.DialogType, title, message string) error {
	_, err := wailsruntime.MessageDialog(w.ctx, wailsruntime.MessageDialogOptions{
		Type:    kind,
		Title:   title,
		Message: message,
	})
	return err
}

// Emit pushes an event to the frontend.
func (w wailsUI) Emit(name string, data ...interface{}) {
	wailsruntime.EventsEmit(w.ctx, name, data...)
}
