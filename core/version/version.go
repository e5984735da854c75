package version

// Version is set at build time with -ldflags "-X github.com/tristendillon/appdef/core/version.Version=...".
var Version = "dev"
