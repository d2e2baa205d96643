package model

// VersionInfo contains version information for the application and the
// editor session database.
type VersionInfo struct {
	AppVersion string `json:"app_version"`
	DbVersion  string `json:"db_version"`
}
