package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/umaimaes/AgroTrace-MS/internal/logger"
)

// Detect forwards the raw request body to the AI service's /detect endpoint.
// The body is relayed verbatim (image uploads included), preserving the
// incoming Content-Type.
func (h *Handler) Detect(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.forward(w, r, "/detect", contentType)
}

// Recommend forwards the request body to the AI service's /recommend endpoint
// as JSON.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	h.forward(w, r, "/recommend", "application/json")
}

// forward relays a POST to the AI service and mirrors its status and body.
// Upstream responses that are not valid JSON are wrapped in an error object;
// an unreachable upstream answers 502.
func (h *Handler) forward(w http.ResponseWriter, r *http.Request, path, contentType string) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}

	url := h.cfg.Public.AIServiceURL + path
	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		writeJSONStatus(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.ai.Do(req)
	if err != nil {
		logger.Log.Error("ai service unreachable", "path", path, "error", err)
		writeJSONStatus(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	defer resp.Body.Close()

	upstream, err := io.ReadAll(resp.Body)
	if err != nil {
		writeJSONStatus(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if json.Valid(upstream) && len(upstream) > 0 {
		w.Write(upstream)
		return
	}
	// Non-JSON upstream body gets wrapped so the client always sees JSON.
	msg := string(upstream)
	if msg == "" {
		msg = "Bad response"
	}
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
