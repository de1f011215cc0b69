package v1

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes mounts the v1 surface under /api/v1 on the router.
func RegisterRoutes(router *mux.Router, nsHandler *NamespaceHandler, exportHandler *ExportHandler) {
	v1 := router.PathPrefix("/api/v1").Subrouter()

	v1.HandleFunc("/appnamespaces/public", nsHandler.ListPublicAppNamespaces).Methods(http.MethodGet)
	v1.HandleFunc("/apps/{app}/appnamespaces", nsHandler.CreateAppNamespace).Methods(http.MethodPost)
	v1.HandleFunc("/apps/{app}/appnamespaces/{name}", nsHandler.GetAppNamespace).Methods(http.MethodGet)
	v1.HandleFunc("/apps/{app}/appnamespaces/{name}", nsHandler.DeleteAppNamespace).Methods(http.MethodDelete)

	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/namespaces", nsHandler.ListNamespaces).Methods(http.MethodGet)
	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/namespaces/{name}", nsHandler.GetNamespace).Methods(http.MethodGet)
	v1.HandleFunc("/envs/{env}/apps/{app}/clusters/{cluster}/namespaces/{name}/associated-public-namespace",
		nsHandler.GetAssociatedPublicNamespace).Methods(http.MethodGet)

	v1.HandleFunc("/apps/{app}/namespaces/{name}/usage", nsHandler.GetUsage).Methods(http.MethodGet)
	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/linked-namespaces/{name}/usage",
		nsHandler.GetLinkedUsage).Methods(http.MethodGet)
	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/linked-namespaces/{name}",
		nsHandler.DeleteLinkedNamespace).Methods(http.MethodDelete)
	v1.HandleFunc("/envs/{env}/appnamespaces/{publicName}/namespaces", nsHandler.ListPublicInstances).Methods(http.MethodGet)

	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/missing-namespaces",
		nsHandler.GetMissingNamespaces).Methods(http.MethodGet)
	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/missing-namespaces",
		nsHandler.CreateMissingNamespaces).Methods(http.MethodPost)

	v1.HandleFunc("/apps/{app}/envs/{env}/clusters/{cluster}/namespaces/{name}/items/export",
		exportHandler.ExportNamespace).Methods(http.MethodGet)
	v1.HandleFunc("/configs/export", exportHandler.ExportAll).Methods(http.MethodGet)
}
