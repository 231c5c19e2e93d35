package metrics

// DeploymentRecord records a deployment record operation.
func DeploymentRecord(network, status string) {
	if !enabled {
		return
	}
	deploymentRecordTotal.WithLabelValues(network, status).Inc()
}

// DeploymentFetch records a deployment lookup.
func DeploymentFetch(status string) {
	if !enabled {
		return
	}
	deploymentFetchTotal.WithLabelValues(status).Inc()
}

// MetadataUpsert records a metadata save operation.
func MetadataUpsert(network, status string) {
	if !enabled {
		return
	}
	metadataUpsertTotal.WithLabelValues(network, status).Inc()
}

// MetadataFetch records a metadata lookup.
func MetadataFetch(status string) {
	if !enabled {
		return
	}
	metadataFetchTotal.WithLabelValues(status).Inc()
}

// MetadataDelete records a metadata delete operation.
func MetadataDelete(status string) {
	if !enabled {
		return
	}
	metadataDeleteTotal.WithLabelValues(status).Inc()
}
