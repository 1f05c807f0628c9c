// Package modules holds what the module type packages (assign, lesson, quiz)
// share: the prefetch handler shape and web service answer helpers.
package modules

import (
	"context"
	"sort"

	"github.com/MKhiriev/go-course-sync/internal/adapter"
	"github.com/MKhiriev/go-course-sync/models"
)

// WarmFunc fetches the web service data a module needs offline, filling the
// response cache.
type WarmFunc func(ctx context.Context, site models.Site, module models.CourseModule) error

// Handler is the prefetch handler of a module type whose downloadable content
// is its file list plus some cached web service answers.
type Handler struct {
	module   models.ModuleType
	manifest adapter.FileManifest
	warm     WarmFunc
}

// NewHandler returns the handler of module.
func NewHandler(module models.ModuleType, manifest adapter.FileManifest, warm WarmFunc) *Handler {
	return &Handler{module: module, manifest: manifest, warm: warm}
}

// ModName returns the module type handled.
func (h *Handler) ModName() models.ModuleType {
	return h.module
}

// Component returns the component name packages of the module are tracked
// under.
func (h *Handler) Component() string {
	return h.module.Component()
}

// IsDownloadable reports whether module has content to download.
func (h *Handler) IsDownloadable(context.Context, models.Site, models.CourseModule) (bool, error) {
	return true, nil
}

// GetFiles returns the remote files of module.
func (h *Handler) GetFiles(ctx context.Context, site models.Site, module models.CourseModule) ([]models.RemoteFile, error) {
	return h.manifest.ModuleFiles(ctx, site, module)
}

// Prefetch fills the response cache with the data module needs offline.
func (h *Handler) Prefetch(ctx context.Context, site models.Site, module models.CourseModule) error {
	if h.warm == nil {
		return nil
	}
	return h.warm(ctx, site, module)
}

// WSWarning is a warning entry of a web service answer.
type WSWarning struct {
	Item        string `json:"item,omitempty"`
	ItemID      int64  `json:"itemid,omitempty"`
	WarningCode string `json:"warningcode"`
	Message     string `json:"message"`
}

// WarningMessages returns the messages of warnings.
func WarningMessages(warnings []WSWarning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.Message)
	}
	return out
}

// NameValues converts form data into the name/value list the web service
// expects, sorted by name.
func NameValues(data map[string]string) []map[string]any {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{"name": name, "value": data[name]})
	}
	return out
}
