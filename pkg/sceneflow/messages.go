package sceneflow

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFiles embed.FS

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	bundleErr  error
)

func messageBundle() (*i18n.Bundle, error) {
	bundleOnce.Do(func() {
		b := i18n.NewBundle(language.English)
		b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

		files, err := fs.ReadDir(localeFiles, "locales")
		if err != nil {
			bundleErr = fmt.Errorf("sceneflow: read locales: %w", err)
			return
		}
		for _, f := range files {
			if _, err := b.LoadMessageFileFS(localeFiles, path.Join("locales", f.Name())); err != nil {
				bundleErr = fmt.Errorf("sceneflow: load %s: %w", f.Name(), err)
				return
			}
		}
		bundle = b
	})
	return bundle, bundleErr
}

// Messages renders human-readable scene_error text for a locale.
// English is used for any message missing from the requested locale.
type Messages struct {
	localizer *i18n.Localizer
}

// NewMessages creates a Messages for the given locales in preference order.
func NewMessages(locales ...string) (*Messages, error) {
	b, err := messageBundle()
	if err != nil {
		return nil, err
	}
	return &Messages{localizer: i18n.NewLocalizer(b, locales...)}, nil
}

// SupportedLocales lists the locales with embedded translations.
func SupportedLocales() []language.Tag {
	b, err := messageBundle()
	if err != nil {
		return []language.Tag{language.English}
	}
	return b.LanguageTags()
}

// Describe renders the message for code. A nil Messages falls back to a
// plain English rendering.
func (m *Messages) Describe(code Code, scene string, cause error) string {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	if m != nil {
		msg, _ := m.localizer.Localize(&i18n.LocalizeConfig{
			MessageID: messageID(code),
			TemplateData: map[string]any{
				"Scene":  scene,
				"Reason": reason,
			},
		})
		if msg != "" {
			return msg
		}
	}
	if reason != "" {
		return fmt.Sprintf("%s: %s: %s", code, scene, reason)
	}
	return fmt.Sprintf("%s: %s", code, scene)
}

func messageID(code Code) string {
	switch code {
	case CodeSceneNotFound:
		return "SceneNotFound"
	case CodeInstantiateFailed:
		return "InstantiateFailed"
	case CodeLoadFailed:
		return "LoadFailed"
	case CodeLoadCancelled:
		return "LoadCancelled"
	case CodeStackBottom:
		return "StackBottom"
	case CodeLoadPending:
		return "LoadPending"
	case CodeBusy:
		return "Busy"
	default:
		return ""
	}
}
