package sceneflow_test

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

type menuScene struct {
	name string
}

func (s menuScene) Enter(p router.Payload) { fmt.Printf("%s entered from %q\n", s.name, p.Source) }
func (s menuScene) Suspend()               {}
func (s menuScene) Release()               { fmt.Printf("%s released\n", s.name) }

func Example() {
	registry := router.NewRegistry()
	for _, name := range []string{"Title", "Options"} {
		registry.RegisterFactory(name, func() (router.Instance, error) {
			return menuScene{name: name}, nil
		})
	}

	flow := sceneflow.New(loader.NewStagedBackend(registry, 2), sceneflow.Options{
		Logger: slog.New(slog.DiscardHandler),
	})
	flow.AddListener(sceneflow.ListenerFuncs{
		OnLoadingProgress: func(scene string, progress float64, _ router.Metadata) {
			fmt.Printf("loading %s %.0f%%\n", scene, progress*100)
		},
		OnSceneError: func(_ string, _ sceneflow.Code, message string) {
			fmt.Println("error:", message)
		},
	})

	_ = flow.PushScene("Title", nil, nil)
	_ = flow.PushSceneAsync("Options", nil, nil)
	for flow.HasPendingLoad() {
		flow.Update(16 * time.Millisecond)
	}
	_ = flow.PopScene(nil, nil)
	_ = flow.PopScene(nil, nil)
	flow.Close()

	// Output:
	// Title entered from ""
	// loading Options 50%
	// Options entered from "Title"
	// Options released
	// Title entered from "Options"
	// error: There is no previous scene to return to
	// Title released
}
