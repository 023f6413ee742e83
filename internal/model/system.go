package model

// VersionInfo contains version and schema information for the application.
type VersionInfo struct {
	AppVersion string `json:"appVersion"`
	DbVersion  string `json:"dbVersion"`
}

// HealthStatus is the result of a health probe.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}
