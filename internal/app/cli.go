package app

import "github.com/spf13/pflag"

// RegisterFlags registers all CLI flags on the given FlagSet
func RegisterFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	RegisterDocsFlags(flags)
	flags.String("storage-path", "", "SQLite database path (default {data-dir}/bot.db)")
	flags.Int("max-snipes", 0, "Number of snipes kept")
	RegisterLogFlags(flags)
}

// RegisterDocsFlags registers the flags configuring docs generation.
func RegisterDocsFlags(flags *pflag.FlagSet) {
	flags.StringP("data-dir", "d", "", "Directory for generated docs and locks")
	flags.String("source-url", "", "Docs export URL, {version} is replaced")
	flags.String("site-url", "", "Docs site base URL used for links")
	flags.String("registry-url", "", "npm registry URL")
	flags.String("package", "", "npm package whose versions are documented")
	flags.String("min-version", "", "Oldest supported version")
	flags.Duration("fetch-timeout", 0, "Timeout of a single docs or registry request")
	flags.Float64("fetch-rate", 0, "Maximum docs downloads per second")
	flags.Duration("lock-timeout", 0, "How long to wait for the generation lock")
	flags.Duration("refresh-interval", 0, "How often the version list is refreshed")
}

// RegisterLogFlags registers the logging flags.
func RegisterLogFlags(flags *pflag.FlagSet) {
	flags.StringP("log-level", "l", "", "Log level: debug, info, warn or error")
	flags.String("log-format", "", "Log format: text, json or pretty")
}
