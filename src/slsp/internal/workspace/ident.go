package workspace

// Space labels the identifier space a workspace identifier belongs to.
type Space int

const (
	// SpaceLocalPath is an engine-local filesystem path under the workspace root.
	SpaceLocalPath Space = iota
	// SpaceClientURI is a URI rooted at the client's declared root URI.
	SpaceClientURI
	// SpaceInternalURI is a sorbet: URI naming a file the client's workspace
	// enumeration does not show.
	SpaceInternalURI
	// SpaceRemoteURL is a remote https URL that was carried inside an
	// internal URI in percent-escaped form.
	SpaceRemoteURL
)

func (s Space) String() string {
	switch s {
	case SpaceLocalPath:
		return "localPath"
	case SpaceClientURI:
		return "clientURI"
	case SpaceInternalURI:
		return "internalURI"
	case SpaceRemoteURL:
		return "remoteURL"
	default:
		return "unknown"
	}
}

// Ident is a workspace identifier tagged with the space it was parsed from.
// Identifiers are parsed once at the boundary and rendered back to strings
// only at the exit boundary.
type Ident struct {
	Space Space

	// Rel is the root-relative remainder of the identifier, except for
	// SpaceRemoteURL where it holds the complete URL.
	Rel string
}
