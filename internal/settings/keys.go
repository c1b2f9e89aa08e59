package settings

// Recognized setting names.
const (
	KeySecretKey            = "secret_key"
	KeyDebugMode            = "debug_mode"
	KeyServeStaticLocally   = "serve_static_locally"
	KeyStaticBasePath       = "static_base_path"
	KeyBaseURL              = "base_url"
	KeyProjectURL           = "project_url"
	KeyMediaURL             = "media_url"
	KeyGeneratedArtifactURL = "generated_artifact_url"
	KeyAllowedHosts         = "allowed_hosts"
)

const (
	// MediaSuffix is appended to the project URL to form the media URL.
	MediaSuffix = "static/"
	// GeneratedArtifactSuffix is appended to the project URL to form the URL
	// under which generated downloads are published.
	GeneratedArtifactSuffix = "static/installers/"

	defaultBaseURL        = "http://127.0.0.1:8080/"
	defaultStaticBasePath = "static/"
)

// Base returns the framework defaults every overlay is applied to. Computed
// names are absent; DerivedOverlay declares them.
func Base() Settings {
	return Settings{
		KeySecretKey:          String(""),
		KeyDebugMode:          Bool(false),
		KeyServeStaticLocally: Bool(false),
		KeyStaticBasePath:     String(defaultStaticBasePath),
		KeyBaseURL:            String(defaultBaseURL),
		KeyAllowedHosts:       List(),
	}
}

// DerivedOverlay declares the computed URLs in dependency order.
func DerivedOverlay() *Overlay {
	return NewOverlay("derived",
		Declaration{Name: KeyProjectURL, Expr: Ref(KeyBaseURL)},
		Declaration{Name: KeyMediaURL, Expr: Concat(Ref(KeyProjectURL), Text(MediaSuffix))},
		Declaration{Name: KeyGeneratedArtifactURL, Expr: Concat(Ref(KeyProjectURL), Text(GeneratedArtifactSuffix))},
	)
}
