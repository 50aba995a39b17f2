package classifier

// Category tags. The set is closed: every record carries one of these.
const (
	CategoryThirdParty      = "third_party"
	CategoryPlugins         = "plugins"
	CategoryModel           = "model"
	CategoryPlayback        = "playback"
	CategoryAudioFiles      = "audio_files"
	CategoryUtilities       = "utilities"
	CategoryMIDI            = "midi"
	CategoryProject         = "project"
	CategorySelection       = "selection"
	CategoryControlSurfaces = "control_surfaces"
	CategoryTimeStretch     = "timestretch"
	CategoryTesting         = "testing"
	CategoryEngine          = "tracktion_engine"
	CategoryGraph           = "tracktion_graph"
	CategoryCore            = "tracktion_core"
	CategoryJUCE            = "juce"
	CategoryUnknown         = "unknown"
)

var categories = []string{
	CategoryThirdParty,
	CategoryPlugins,
	CategoryModel,
	CategoryPlayback,
	CategoryAudioFiles,
	CategoryUtilities,
	CategoryMIDI,
	CategoryProject,
	CategorySelection,
	CategoryControlSurfaces,
	CategoryTimeStretch,
	CategoryTesting,
	CategoryEngine,
	CategoryGraph,
	CategoryCore,
	CategoryJUCE,
	CategoryUnknown,
}

// Categories returns the taxonomy in declaration order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether tag belongs to the taxonomy.
func IsCategory(tag string) bool {
	for _, c := range categories {
		if c == tag {
			return true
		}
	}
	return false
}
