package sceneflow

import (
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// Listener receives every notification the manager emits. Notifications
// are delivered synchronously on the goroutine driving the manager.
type Listener interface {
	// AboutToChange fires right before the stack is mutated. outgoing is
	// the entry currently visible, nil on the first push.
	AboutToChange(scene string, outgoing *router.Entry)
	// SceneChanged fires after the mutation committed and the scene entered.
	SceneChanged(scene string, entry *router.Entry)
	// SceneError fires for every rejected or failed navigation.
	SceneError(scene string, code Code, message string)
	LoadingProgress(scene string, progress float64, metadata router.Metadata)
	LoadingFinished(scene string, handle *loader.Handle)
	LoadingCancelled(scene string, handle *loader.Handle)
	// TransitionComplete fires once per played step; metadata carries the
	// direction ("exit" or "enter") and the transition name.
	TransitionComplete(scene string, metadata router.Metadata)
}

// ListenerFuncs adapts individual callbacks to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnAboutToChange      func(scene string, outgoing *router.Entry)
	OnSceneChanged       func(scene string, entry *router.Entry)
	OnSceneError         func(scene string, code Code, message string)
	OnLoadingProgress    func(scene string, progress float64, metadata router.Metadata)
	OnLoadingFinished    func(scene string, handle *loader.Handle)
	OnLoadingCancelled   func(scene string, handle *loader.Handle)
	OnTransitionComplete func(scene string, metadata router.Metadata)
}

func (f ListenerFuncs) AboutToChange(scene string, outgoing *router.Entry) {
	if f.OnAboutToChange != nil {
		f.OnAboutToChange(scene, outgoing)
	}
}

func (f ListenerFuncs) SceneChanged(scene string, entry *router.Entry) {
	if f.OnSceneChanged != nil {
		f.OnSceneChanged(scene, entry)
	}
}

func (f ListenerFuncs) SceneError(scene string, code Code, message string) {
	if f.OnSceneError != nil {
		f.OnSceneError(scene, code, message)
	}
}

func (f ListenerFuncs) LoadingProgress(scene string, progress float64, metadata router.Metadata) {
	if f.OnLoadingProgress != nil {
		f.OnLoadingProgress(scene, progress, metadata)
	}
}

func (f ListenerFuncs) LoadingFinished(scene string, handle *loader.Handle) {
	if f.OnLoadingFinished != nil {
		f.OnLoadingFinished(scene, handle)
	}
}

func (f ListenerFuncs) LoadingCancelled(scene string, handle *loader.Handle) {
	if f.OnLoadingCancelled != nil {
		f.OnLoadingCancelled(scene, handle)
	}
}

func (f ListenerFuncs) TransitionComplete(scene string, metadata router.Metadata) {
	if f.OnTransitionComplete != nil {
		f.OnTransitionComplete(scene, metadata)
	}
}
