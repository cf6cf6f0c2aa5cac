// Package router provides the scene stack and scene resolution used by the
// flow manager.
//
// The stack is plain data: Push, Replace and Pop only record which scene is
// where and what payload it received. Activating scenes, playing transitions
// and notifying listeners is the flow manager's job.
//
// # Basic Usage
//
//	s := router.NewStack()
//	s.Push("Title", nil, nil)
//	s.Push("Level1", LevelInput{Seed: 7}, router.Metadata{"difficulty": "hard"})
//
//	s.Peek().Payload.Source // "Title"
//
//	popped, err := s.Pop("back", nil)
//	// popped.Scene == "Level1"
//	// s.Peek().Payload.Data == "back"
//	// s.Peek().Payload.Source == "Level1"
//
// The bottom-most entry can never be popped: Pop on a single-entry stack
// returns ErrStackBottom and leaves the stack untouched.
//
// # Resolving Scenes
//
// A Registry maps identifiers to load functions and caches the resolved
// resources:
//
//	reg := router.NewRegistry()
//	reg.RegisterFactory("Title", func() (router.Instance, error) {
//	    return newTitleScene(), nil
//	})
//
//	res, err := reg.Resolve("Title")
//	inst, err := res.Instantiate()
//
// Unknown identifiers wrap ErrSceneNotFound.
package router
