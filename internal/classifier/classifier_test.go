package classifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		wantDesc string
		wantCat  string
	}{
		{"third party choc", "thirdparty/choc/foo.h", "Third-party library: Choc (audio/MIDI/utilities framework)", CategoryThirdParty},
		{"third party marker only", "tracktion_engine/3rd_party/other/x.h", "Third-party library file", CategoryThirdParty},
		{"effect known", "engine/plugins/effects/tracktion_Reverb.cpp", "Reverb effect plugin (room size, damp, wet/dry)", CategoryPlugins},
		{"effect unknown", "engine/plugins/effects/tracktion_Unknown.cpp", "Effect plugin: Unknown", CategoryPlugins},
		{"internal plugin", "tracktion_engine/plugins/internal/tracktion_VCA.h", "VCA (Voltage Controlled Amplifier) plugin", CategoryPlugins},
		{"generic plugin", "tracktion_engine/plugins/tracktion_PluginManager.cpp", "PluginManager (registration, discovery, creation)", CategoryPlugins},
		{"ara fixed", "tracktion_engine/plugins/ARA/tracktion_ARAFile.cpp", "ARA (Audio Random Access) plugin support (e.g. Melodyne)", CategoryPlugins},
		{"track model", "tracktion_engine/model/tracks/tracktion_AudioTrack.h", "Track model class: AudioTrack", CategoryModel},
		{"modifier", "tracktion_engine/model/automation/modifiers/tracktion_LFO.h", "LFO automation modifier", CategoryModel},
		{"automation", "tracktion_engine/model/automation/tracktion_MidiLearn.cpp", "MIDI learn system", CategoryModel},
		{"model generic", "tracktion_engine/model/tracktion_Thing.h", "Model: Thing", CategoryModel},
		{"playback graph", "tracktion_engine/playback/graph/tracktion_WaveNode.h", "Audio graph node: WaveNode", CategoryPlayback},
		{"devices", "tracktion_engine/playback/devices/tracktion_MidiInputDevice.cpp", "MIDI input device", CategoryPlayback},
		{"audio files", "tracktion_engine/audio_files/tracktion_AudioFile.test.cpp", "Audio file handling: AudioFile.test", CategoryAudioFiles},
		{"midi dir", "tracktion_engine/midi/tracktion_MidiChannel.h", "MIDI channel", CategoryMIDI},
		{"midi in filename wins over utilities", "tracktion_engine/utilities/tracktion_MidiThing.h", "MIDI handling: MidiThing", CategoryMIDI},
		{"control surface", "tracktion_engine/control_surfaces/types/tracktion_Mackie.cpp", "Control surface: Mackie", CategoryControlSurfaces},
		{"timestretch", "tracktion_engine/timestretch/tracktion_TempoDetect.h", "Tempo detection", CategoryTimeStretch},
		{"testing", "tracktion_engine/testing/tracktion_Bench.h", "Testing utilities: Bench", CategoryTesting},
		{"engine header", "tracktion_engine/tracktion_engine.h", "Main Tracktion Engine header", CategoryEngine},
		{"engine unit", "tracktion_engine/tracktion_engine_core.cpp", "Tracktion Engine module implementation (compiled unit)", CategoryEngine},
		{"engine unit named after playback", "tracktion_engine/tracktion_engine_playback.cpp", "Playback system: engine_playback", CategoryPlayback},
		{"engine unit named after midi", "tracktion_engine/tracktion_engine_midi.cpp", "MIDI handling: engine_midi", CategoryMIDI},
		{"engine unit named after model", "tracktion_engine/tracktion_engine_model.cpp", "Model: engine_model", CategoryModel},
		{"engine other", "tracktion_engine/README.md", "Tracktion Engine file: README.md", CategoryEngine},
		{"graph utility", "tracktion_graph/tracktion_graph/utilities/tracktion_Semaphore.h", "Semaphore implementation", CategoryGraph},
		{"graph core", "tracktion_graph/tracktion_graph/tracktion_Node.h", "Base Node class (audio graph node)", CategoryGraph},
		{"graph core unknown", "tracktion_graph/tracktion_graph/tracktion_Foo.h", "Graph core: Foo", CategoryGraph},
		{"core", "tracktion_core/utilities/tracktion_Tempo.h", "Tempo sequence and calculations", CategoryCore},
		{"juce", "juce/modules/juce_core/juce_core.h", "JUCE framework file (audio/GUI framework)", CategoryJUCE},
		{"unknown", "randomdir/readme.md", "Module file: readme.md", CategoryUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parts := strings.Split(tc.path, "/")
			desc, cat := Classify(tc.path, parts[len(parts)-1])
			assert.Equal(t, tc.wantDesc, desc)
			assert.Equal(t, tc.wantCat, cat)
		})
	}
}

func TestClassify_SpecificBeforeGeneral(t *testing.T) {
	// "plugins/effects" contains "plugins"; the effects table must win.
	desc, _ := Classify("tracktion_engine/plugins/effects/tracktion_Delay.h", "tracktion_Delay.h")
	assert.Equal(t, "Delay effect plugin", desc)

	// Third party wins over engine even when nested under it.
	_, cat := Classify("tracktion_engine/3rd_party/choc/choc_Value.h", "choc_Value.h")
	assert.Equal(t, CategoryThirdParty, cat)
}

func TestClassify_CaseInsensitiveMatching(t *testing.T) {
	desc, cat := Classify("Tracktion_Engine/Plugins/Effects/Tracktion_REVERB.CPP", "Tracktion_REVERB.CPP")
	assert.Equal(t, "Reverb effect plugin (room size, damp, wet/dry)", desc)
	assert.Equal(t, CategoryPlugins, cat)
}

func TestClassify_BackslashPaths(t *testing.T) {
	_, cat := Classify(`tracktion_engine\playback\tracktion_TransportControl.cpp`, "tracktion_TransportControl.cpp")
	assert.Equal(t, CategoryPlayback, cat)
}

func TestClassify_Totality(t *testing.T) {
	inputs := [][2]string{
		{"", ""},
		{"tracktion_engine/plugins/effects/tracktion_.h", "tracktion_.h"},
		{"/", "/"},
		{"a/b/c", "c"},
		{"3rd_party", ""},
		{"tracktion_core/", ""},
		{"ünïcode/тест.h", "тест.h"},
	}
	for _, in := range inputs {
		desc, cat := Classify(in[0], in[1])
		assert.NotEmpty(t, desc, "input %q", in)
		assert.True(t, IsCategory(cat), "category %q for %q", cat, in)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	p := "tracktion_engine/model/export/tracktion_Renderer.cpp"
	d1, c1 := Classify(p, "tracktion_Renderer.cpp")
	d2, c2 := Classify(p, "tracktion_Renderer.cpp")
	require.Equal(t, d1, d2)
	require.Equal(t, c1, c2)
}

func TestStem(t *testing.T) {
	cases := map[string]string{
		"tracktion_Reverb.cpp":   "Reverb",
		"TRACKTION_Reverb.h":     "Reverb",
		"tracktion_Thing.hpp":    "Thing",
		"tracktion_Foo.test.cpp": "Foo.test",
		"CMakeLists.txt":         "CMakeLists.txt",
		"plain.h":                "plain",
		"tracktion_.h":           "tracktion_.h",
	}
	for in, want := range cases {
		assert.Equal(t, want, Stem(in), "Stem(%q)", in)
	}
}

func TestRuleCategoriesInTaxonomy(t *testing.T) {
	for _, g := range groupings {
		for _, r := range g.rules {
			require.True(t, IsCategory(r.category), "grouping %s rule %v", g.name, r.markers)
			require.False(t, r.label == "" && r.fixed == "", "rule %v needs a label or fixed description", r.markers)
		}
	}
	assert.Equal(t, []string{"third_party", "tracktion_engine", "tracktion_graph", "tracktion_core", "juce"}, Groupings())
}
