package api

import (
	"encoding/json"
	"net/http"
)

const (
	msgProductNotFound  = "Product Not Found"
	msgRouteNotFound    = "Route Not Found"
	msgMethodNotAllowed = "Method Not Allowed"
	msgInvalidBody      = "Invalid Request Body"
	msgInternalError    = "Internal Server Error"
)

type messageResponse struct {
	Message string `json:"message"`
}

// writeJSON sets the status and content type and writes v as the whole body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"message":"` + msgInternalError + `"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusNotFound, msgRouteNotFound)
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}
