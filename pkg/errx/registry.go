package errx

// RegistryEntry describes a registered error code.
type RegistryEntry struct {
	Code        string
	Description string
}

// Error codes follow a stable 5-digit scheme where the first two digits are the
// domain and the last three digits are reserved for subcodes.
const (
	CodeCLI        = "70000"
	CodeDiscovery  = "71000"
	CodeManifest   = "72000"
	CodeTransfer   = "73000"
	CodeCredential = "74000"
	CodeMirror     = "75000"
	CodeRegistry   = "76000"
	CodeConfig     = "77000"
)

const (
	DescCLI        = "CLI/argument validation error"
	DescDiscovery  = "Release discovery error"
	DescManifest   = "Image manifest error"
	DescTransfer   = "Image transfer error"
	DescCredential = "Credential resolution error"
	DescMirror     = "Mirror configuration error"
	DescRegistry   = "Registry hosting error"
	DescConfig     = "Configuration error"
)

var registryEntries = []RegistryEntry{
	{Code: CodeCLI, Description: DescCLI},
	{Code: CodeDiscovery, Description: DescDiscovery},
	{Code: CodeManifest, Description: DescManifest},
	{Code: CodeTransfer, Description: DescTransfer},
	{Code: CodeCredential, Description: DescCredential},
	{Code: CodeMirror, Description: DescMirror},
	{Code: CodeRegistry, Description: DescRegistry},
	{Code: CodeConfig, Description: DescConfig},
}

var registryMap = map[string]string{
	CodeCLI:        DescCLI,
	CodeDiscovery:  DescDiscovery,
	CodeManifest:   DescManifest,
	CodeTransfer:   DescTransfer,
	CodeCredential: DescCredential,
	CodeMirror:     DescMirror,
	CodeRegistry:   DescRegistry,
	CodeConfig:     DescConfig,
}

// ErrorRegistry returns the error registry in deterministic order.
// This provides a list of all registered error codes and their descriptions.
func ErrorRegistry() []RegistryEntry {
	entries := make([]RegistryEntry, len(registryEntries))
	copy(entries, registryEntries)
	return entries
}

// DescriptionFor returns the registry description for a code.
func DescriptionFor(code string) (string, bool) {
	desc, ok := registryMap[code]
	return desc, ok
}

// IsValidCode checks if the given error code is registered.
func IsValidCode(code string) bool {
	_, ok := registryMap[code]
	return ok
}
