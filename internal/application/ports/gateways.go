package ports

// DocumentLoader reads configuration documents into an untyped tree
type DocumentLoader interface {
	// Discover returns the default configuration file of a directory
	Discover(dir string) (string, error)

	// Load reads and parses the document at path
	Load(path string) (any, error)
}

// FileWriter persists generated env files
type FileWriter interface {
	// Write stores content at path, creating parent directories as needed
	Write(path, content string) error
}

// DirectoryDetector locates application directories inside a monorepo
type DirectoryDetector interface {
	// Detect returns the existing directory of app below root
	Detect(app, root string) (string, bool)
}

// EnvFileReader reads env files that already exist on disk
type EnvFileReader interface {
	// Read returns the content of the file at path; exists is false when there is no file
	Read(path string) (content string, exists bool, err error)

	// Parse splits env file content into key/value pairs
	Parse(content string) map[string]string
}

// TemplateWriter bootstraps a configuration document
type TemplateWriter interface {
	// WriteTemplate creates the starter document, failing if path exists
	WriteTemplate(path string) error
}

// LoggingGateway defines the interface for logging operations
type LoggingGateway interface {
	// Log logs a message with the specified level
	Log(level LogLevel, message string, fields map[string]interface{})

	// LogError logs an error
	LogError(err error, message string, fields map[string]interface{})
}

// LogLevel defines the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)
