package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/loader"
	"github.com/BrandonKowalski/sceneflow/pkg/sceneflow/router"
	"go.uber.org/atomic"
)

// traceEvent is one line of output.
type traceEvent struct {
	Seq    int64          `json:"seq"`
	Kind   string         `json:"kind"`
	Scene  string         `json:"scene,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

// tracer records every notification and hook call of a Manager.
type tracer struct {
	out    io.Writer
	format string
	flow   *sceneflow.Manager
	seq    *atomic.Int64
	err    error
}

func newTracer(out io.Writer, format string) *tracer {
	return &tracer{out: out, format: format, seq: atomic.NewInt64(0)}
}

func (t *tracer) record(kind, scene string, fields map[string]any) {
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			delete(fields, k)
		}
	}
	ev := traceEvent{Seq: t.seq.Inc(), Kind: kind, Scene: scene, Fields: fields}
	if len(ev.Fields) == 0 {
		ev.Fields = nil
	}

	var err error
	if t.format == "json" {
		err = json.NewEncoder(t.out).Encode(ev)
	} else {
		_, err = io.WriteString(t.out, ev.text()+"\n")
	}
	if err != nil && t.err == nil {
		t.err = err
	}
}

func (ev traceEvent) text() string {
	scene := ev.Scene
	if scene == "" {
		scene = "-"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%04d %s %s", ev.Seq, ev.Kind, scene)

	keys := make([]string, 0, len(ev.Fields))
	for k := range ev.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, formatValue(ev.Fields[k]))
	}
	return b.String()
}

func formatValue(v any) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprint(v)
	}
	if strings.ContainsAny(s, " \"=") {
		return strconv.Quote(s)
	}
	return s
}

func (t *tracer) step(s step) {
	fields := map[string]any{"op": s.Op, "transition": s.Transition}
	if s.Op == opTick {
		fields["delta"] = s.delta.String()
		fields["count"] = s.Count
	}
	t.record("step", s.Scene, fields)
}

func (t *tracer) final() {
	top := ""
	if e := t.flow.Peek(); e != nil {
		top = e.Scene
	}
	t.record("final", top, map[string]any{"depth": t.flow.Len()})
}

func (t *tracer) AboutToChange(scene string, outgoing *router.Entry) {
	fields := map[string]any{}
	if outgoing != nil {
		fields["outgoing"] = outgoing.Scene
	}
	t.record("about_to_change", scene, fields)
}

func (t *tracer) SceneChanged(scene string, entry *router.Entry) {
	t.record("scene_changed", scene, map[string]any{
		"depth":  t.flow.Len(),
		"source": entry.Payload.Source,
	})
}

func (t *tracer) SceneError(scene string, code sceneflow.Code, message string) {
	t.record("scene_error", scene, map[string]any{"code": code.String(), "message": message})
}

func (t *tracer) LoadingProgress(scene string, progress float64, _ router.Metadata) {
	t.record("loading_progress", scene, map[string]any{"progress": progress})
}

func (t *tracer) LoadingFinished(scene string, h *loader.Handle) {
	t.record("loading_finished", scene, map[string]any{"status": h.Status().String()})
}

func (t *tracer) LoadingCancelled(scene string, _ *loader.Handle) {
	t.record("loading_cancelled", scene, nil)
}

func (t *tracer) TransitionComplete(scene string, metadata router.Metadata) {
	t.record("transition_complete", scene, metadata.Clone())
}

func (t *tracer) Save(slot string) bool {
	t.record("save", "", map[string]any{"slot": slot})
	return true
}

func (t *tracer) OnSceneTransition(p sceneflow.CheckpointPayload) {
	t.record("checkpoint", p.Scene, map[string]any{"operation": p.Operation.String()})
}

func (t *tracer) Publish(topic string, payload map[string]any) error {
	scene, _ := payload["scene"].(string)
	t.record("publish", scene, map[string]any{"topic": topic})
	return nil
}
