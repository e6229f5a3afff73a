package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/ersonp/roster-core/internal/domain/result"
)

// errorBody is the JSON shape of a rejected request.
type errorBody struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// response is a status code and an optional JSON body.
type response struct {
	status int
	body   any
}

// writeResult maps a workflow result to 200, 409 or 500.
// Internal errors carry no body so nothing about the fault leaks.
func writeResult[R any](w http.ResponseWriter, res result.Result[R]) {
	resp := result.Fold(res,
		func(v R) response { return response{status: http.StatusOK, body: v} },
		func(err *result.Error) response {
			if err.Kind() == result.KindInternal {
				return response{status: http.StatusInternalServerError}
			}
			return response{status: http.StatusConflict, body: errorBody{Key: err.Key(), Message: err.Message()}}
		},
	)

	if resp.body == nil {
		w.WriteHeader(resp.status)
		return
	}
	writeJSON(w, resp.status, resp.body)
}

func writeBadRequest(w http.ResponseWriter, key, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Key: key, Message: message})
}
