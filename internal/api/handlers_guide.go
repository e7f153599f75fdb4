package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/dgallion1/uiguide/internal/export"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	res, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, res)
}

// handleExport generates a guide and returns it in the format named by the
// format query parameter. Without one the body matches /guide/generate.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	exporter, err := export.ForFormat(format)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	res, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, res); err != nil {
		s.log.Error("export failed", "format", format, "file_id", res.FileID, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	if _, isJSON := exporter.(export.JSONExporter); !isJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(res.FileID, exporter)))
	}
	w.Write(buf.Bytes())
}
