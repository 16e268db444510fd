package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

func SetupRoutes(chartService *ChartService, publicDir string) *mux.Router {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chartdata", chartService.GetChartData).Methods(http.MethodGet)
	api.HandleFunc("/debts", chartService.GetDebts).Methods(http.MethodGet)
	api.HandleFunc("/debts/{name}/history", chartService.GetDebtHistory).Methods(http.MethodGet)

	if publicDir != "" {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(publicDir)))
	}

	return router
}
