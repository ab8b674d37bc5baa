package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

func NewRouter(handler *TryOnHandler) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestLogger, recoverer)

	r.HandleFunc("/", handler.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/combine", handler.HandleCombine).Methods(http.MethodPost)
	r.HandleFunc("/healthz", handler.HandleHealth).Methods(http.MethodGet)

	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", StaticFiles()))

	return r
}
