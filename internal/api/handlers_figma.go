package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/uiguide/internal/doctree"
	"github.com/dgallion1/uiguide/internal/pipeline"
)

type figmaFileResponse struct {
	FileID    string          `json:"file_id"`
	FigmaJSON json.RawMessage `json:"figma_json"`
}

type figmaFilteredResponse struct {
	FileID       string            `json:"file_id"`
	FilteredJSON *doctree.Filtered `json:"filtered_json"`
}

// decodeRequest reads a JSON request body, writing a 400 on failure.
func decodeRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, bool) {
	var req pipeline.Request
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (s *Server) handleFigmaFile(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	fileID, raw, err := s.generator.Fetch(r.Context(), req)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, figmaFileResponse{FileID: fileID, FigmaJSON: raw})
}

func (s *Server) handleFigmaFiltered(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	fileID, filtered, err := s.generator.Filter(r.Context(), req)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, figmaFilteredResponse{FileID: fileID, FilteredJSON: filtered})
}
