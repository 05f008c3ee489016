package ir

// Version constants for artifact schema and service.
const (
	// ArtifactVersion is the artifact schema version. Bump it when the JSON
	// shape of Artifact changes so cached fingerprints stop matching.
	ArtifactVersion = "1"

	// ServiceVersion is the eventdash service version.
	ServiceVersion = "0.1.0"
)
