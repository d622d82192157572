package downloader

// ProgressCallback is a function type for progress updates during download
// Parameters: progressPercent (0-100), message
type ProgressCallback func(int, string)
