package registry

// Reserved identifiers. Application accessors live in the same namespace as
// module identifiers, so a module may not be registered under any of them.
const (
	KeyID           = "id"
	KeyModules      = "modules"
	KeyRegistry     = "registry"
	KeyCapabilities = "capabilities"
	KeyLogger       = "logger"
	KeyLocation     = "location"
	KeyKind         = "kind"
)

// DefaultReserved lists the identifiers reserved when no WithReserved option
// is given.
var DefaultReserved = []string{
	KeyID,
	KeyModules,
	KeyRegistry,
	KeyCapabilities,
	KeyLogger,
	KeyLocation,
	KeyKind,
}
