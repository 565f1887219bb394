package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/yyuan-rahh/Manim-Interactive-sub000/internal/scene"
)

const maxSceneSize = 4 << 20 // 4MB

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

type exportRequest struct {
	Scene json.RawMessage `json:"scene"`
	Name  string          `json:"name"`
}

// ExportScript renders the posted scene as a Python animation script and
// returns it as a file attachment.
func (h *Handler) ExportScript(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSceneSize)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := scene.Parse(req.Scene)
	if err != nil {
		http.Error(w, "invalid scene", http.StatusBadRequest)
		return
	}

	name := sanitizeName(req.Name)
	className := classNameFor(name)

	script := GenerateScript(s, className)

	slog.Info("script export", "name", name, "objects", len(s.Objects))

	w.Header().Set("Content-Type", "text/x-python")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.py"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(len(script)))
	w.Write([]byte(script))
}

// sanitizeName reduces a user-supplied name to a safe filename.
func sanitizeName(name string) string {
	if name == "" {
		name = "animation"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

// classNameFor derives a valid Python class name from a sanitized filename.
func classNameFor(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			if upper {
				if r >= 'a' && r <= 'z' {
					r -= 'a' - 'A'
				}
				upper = false
			}
			b.WriteRune(r)
		case r >= '0' && r <= '9' && b.Len() > 0:
			b.WriteRune(r)
		default:
			upper = true
		}
	}
	if b.Len() == 0 {
		return "ExportedScene"
	}
	return b.String()
}
