package cli

var (
	verbose    bool
	configPath string

	// all commands
	deviceId string

	// for screenshot command
	screenshotOutputPath  string
	screenshotFormat      string
	screenshotJpegQuality int

	// for dump command
	dumpRaw bool
)
