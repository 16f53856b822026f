package swaggerkit

import (
	"encoding/json"
	"net/http"

	"github.com/swaggo/swag/v2"

	"scheduling/internal/platform/config"
)

// InstanceName is the swag registry name of the generated API document
const InstanceName = "api"

const skeleton = `{"openapi":"3.0.3","info":{"title":"Scheduling API","version":"0.0.0"},"paths":{}}`

// readDoc returns the document registered under name, or a skeleton so the UI
// still loads in builds without generated docs
func readDoc(name string) string {
	if doc, err := swag.ReadDoc(name); err == nil && doc != "" {
		return doc
	}
	return skeleton
}

// docReader is a seam so tests can inject invalid JSON
var docReader = func() string { return readDoc(InstanceName) }

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}
		prepare(spec, "/api/v1")

		if v := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}
