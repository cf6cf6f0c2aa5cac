package router_test

import (
	"fmt"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
)

// Input types - what each scene is handed when it becomes visible
type LevelInput struct {
	Seed int
}

// Example demonstrates forward navigation and payload replay on the way back.
func Example() {
	s := router.NewStack()

	s.Push("Title", nil, nil)
	s.Push("Level1", LevelInput{Seed: 7}, router.Metadata{"difficulty": "hard"})

	top := s.Peek()
	fmt.Printf("%s came from %s with seed %d\n", top.Scene, top.Payload.Source, top.Payload.Data.(LevelInput).Seed)

	// Back: the revealed scene gets the pop payload, not its original one
	popped, _ := s.Pop("retry", nil)
	fmt.Printf("left %s, %s now has %q from %s\n", popped.Scene, s.Peek().Scene, s.Peek().Payload.Data, s.Peek().Payload.Source)

	// The bottom scene stays put
	if _, err := s.Pop(nil, nil); err != nil {
		fmt.Println(err)
	}

	// Output:
	// Level1 came from Title with seed 7
	// left Level1, Title now has "retry" from Level1
	// cannot pop the bottom scene
}
