package sceneflow

// CheckpointPayload is handed to the checkpoint collaborator after every
// committed mutation.
type CheckpointPayload struct {
	Operation Operation
	Scene     string // Scene that became visible
}

// Checkpointer records world-state markers at scene boundaries.
type Checkpointer interface {
	OnSceneTransition(payload CheckpointPayload)
}

// CheckpointFunc adapts a function to Checkpointer.
type CheckpointFunc func(payload CheckpointPayload)

// OnSceneTransition implements Checkpointer.
func (f CheckpointFunc) OnSceneTransition(payload CheckpointPayload) {
	if f != nil {
		f(payload)
	}
}

// Saver persists game state to a named slot. The result is logged and
// never blocks navigation.
type Saver interface {
	Save(slot string) bool
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(slot string) bool

// Save implements Saver.
func (f SaverFunc) Save(slot string) bool {
	if f == nil {
		return true
	}
	return f(slot)
}

// Publisher forwards navigation events to an analytics bus. Delivery is
// best effort.
type Publisher interface {
	Publish(topic string, payload map[string]any) error
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(topic string, payload map[string]any) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(topic string, payload map[string]any) error {
	if f == nil {
		return nil
	}
	return f(topic, payload)
}

type noopCheckpointer struct{}

func (noopCheckpointer) OnSceneTransition(CheckpointPayload) {}

type noopSaver struct{}

func (noopSaver) Save(string) bool { return true }

type noopPublisher struct{}

func (noopPublisher) Publish(string, map[string]any) error { return nil }
