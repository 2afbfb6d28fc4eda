package common

// Set at build time with -ldflags "-X tarediiran-industries.com/side-services/internal/common.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
)
