package api

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// response is the envelope every endpoint returns.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Payload any    `json:"payload,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, payload any) {
	writeJSON(w, statusCode, response{Success: true, Message: message, Payload: payload})
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, response{Success: false, Message: message})
}

func writeErrorPayload(w http.ResponseWriter, statusCode int, message string, payload any) {
	writeJSON(w, statusCode, response{Success: false, Message: message, Payload: payload})
}

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}
