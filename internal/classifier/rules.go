package classifier

import "strings"

// Grouping markers are matched against "/" + lowercased path, rule markers
// against the lowercased path. Order is precedence.
var groupings = []grouping{
	{
		name:     "third_party",
		markers:  []string{"3rd_party", "third_party", "thirdparty"},
		rules:    thirdPartyRules,
		fallback: fixedFallback("Third-party library file", CategoryThirdParty),
	},
	{
		name:     "tracktion_engine",
		markers:  []string{"tracktion_engine", "/engine/"},
		rules:    engineRules,
		fallback: engineFallback,
	},
	{
		name:     "tracktion_graph",
		markers:  []string{"tracktion_graph"},
		rules:    graphRules,
		fallback: ruleFallback(&graphCore),
	},
	{
		name:     "tracktion_core",
		markers:  []string{"tracktion_core"},
		fallback: ruleFallback(&coreRule),
	},
	{
		name:     "juce",
		markers:  []string{"juce"},
		fallback: fixedFallback("JUCE framework file (audio/GUI framework)", CategoryJUCE),
	},
}

func fixedFallback(desc, category string) func(string, string) (string, string) {
	return func(string, string) (string, string) {
		return desc, category
	}
}

func ruleFallback(r *rule) func(string, string) (string, string) {
	return func(_, stem string) (string, string) {
		return r.describe(stem), r.category
	}
}

func engineFallback(filename, stem string) (string, string) {
	lower := strings.ToLower(filename)
	switch {
	case lower == "tracktion_engine.h":
		return "Main Tracktion Engine header", CategoryEngine
	case strings.HasPrefix(lower, "tracktion_engine_") && strings.HasSuffix(lower, ".cpp"):
		return "Tracktion Engine module implementation (compiled unit)", CategoryEngine
	}
	return "Tracktion Engine file: " + stem, CategoryEngine
}

func thirdParty(marker, desc string) rule {
	return rule{
		markers:  []string{marker},
		category: CategoryThirdParty,
		fixed:    "Third-party library: " + desc,
	}
}

var thirdPartyRules = []rule{
	thirdParty("choc", "Choc (audio/MIDI/utilities framework)"),
	thirdParty("libsamplerate", "libsamplerate (audio sample rate conversion)"),
	thirdParty("magic_enum", "magic_enum (enum reflection for C++)"),
	thirdParty("doctest", "doctest (testing framework)"),
	thirdParty("rpmalloc", "rpmalloc (memory allocator)"),
	thirdParty("crill", "crill (lock-free data structures)"),
	thirdParty("expected", "expected (std::expected implementation)"),
	thirdParty("nanorange", "nanorange (ranges library)"),
	thirdParty("rigtorp", "rigtorp (MPMC queue)"),
}

var engineRules = []rule{
	{
		markers:  []string{"plugins/effects"},
		category: CategoryPlugins,
		label:    "Effect plugin",
		known: map[string]string{
			"reverb":          "Reverb effect plugin (room size, damp, wet/dry)",
			"compressor":      "Compressor/Limiter effect plugin (threshold, ratio, attack, release)",
			"equaliser":       "4-band EQ effect plugin",
			"delay":           "Delay effect plugin",
			"chorus":          "Chorus effect plugin",
			"phaser":          "Phaser effect plugin",
			"pitchshift":      "Pitch shifter effect plugin",
			"lowpass":         "Low-pass filter effect plugin",
			"impulseresponse": "Impulse Response/Convolver effect plugin",
			"sampler":         "Sampler plugin (sample playback)",
			"fourosc":         "4OSC subtractive synth plugin",
			"midimodifier":    "MIDI modifier plugin",
			"midipatchbay":    "MIDI patch bay plugin",
			"patchbay":        "Audio patch bay plugin",
			"tonegenerator":   "Tone generator plugin",
			"latency":         "Latency compensation plugin",
		},
	},
	{
		markers:  []string{"plugins/internal"},
		category: CategoryPlugins,
		label:    "Internal plugin",
		known: map[string]string{
			"volumeandpan": "Volume & Pan plugin (default on tracks)",
			"vca":          "VCA (Voltage Controlled Amplifier) plugin",
			"levelmeter":   "Level meter plugin (default on tracks)",
			"auxsend":      "Aux send plugin",
			"auxreturn":    "Aux return plugin",
			"freezepoint":  "Freeze point plugin",
			"insertplugin": "Insert plugin",
			"textplugin":   "Text annotation plugin",
			"rewireplugin": "ReWire plugin support",
			"racktype":     "Rack type definition",
			"rackinstance": "Rack instance plugin",
		},
	},
	{
		markers:  []string{"plugins/external"},
		category: CategoryPlugins,
		label:    "External plugin system",
		known: map[string]string{
			"externalplugin":               "External plugin wrapper (VST3/AU/LADSPA)",
			"externalautomatableparameter": "Automation parameter for external plugins",
			"externalpluginblacklist":      "Blacklist management for problematic external plugins",
			"vstxml":                       "VST XML metadata handling",
		},
	},
	{markers: []string{"plugins/cmajor"}, category: CategoryPlugins, fixed: "Cmajor plugin format support"},
	{markers: []string{"plugins/airwindows"}, category: CategoryPlugins, fixed: "AirWindows plugin integration"},
	{markers: []string{"plugins/ara"}, category: CategoryPlugins, fixed: "ARA (Audio Random Access) plugin support (e.g. Melodyne)"},
	{
		markers:  []string{"plugins"},
		category: CategoryPlugins,
		label:    "Plugin system",
		known: map[string]string{
			"plugin":            "Base Plugin class (all plugins inherit from this)",
			"pluginlist":        "PluginList container (manages plugins on tracks/clips)",
			"pluginmanager":     "PluginManager (registration, discovery, creation)",
			"pluginwindowstate": "Plugin window state management",
			"pluginscanhelpers": "Plugin scanning utilities",
		},
	},

	{markers: []string{"model/tracks"}, category: CategoryModel, label: "Track model class"},
	{markers: []string{"model/clips"}, category: CategoryModel, label: "Clip model class"},
	{markers: []string{"model/edit"}, category: CategoryModel, label: "Edit (project) model"},
	{
		markers:  []string{"model/automation/modifiers"},
		category: CategoryModel,
		label:    "Automation modifier",
		known: map[string]string{
			"lfo":                  "LFO automation modifier",
			"envelopefollower":     "Envelope follower automation modifier",
			"breakpointoscillator": "Breakpoint oscillator automation modifier",
			"step":                 "Step automation modifier",
			"random":               "Random automation modifier",
			"miditracker":          "MIDI tracker automation modifier",
		},
	},
	{
		markers:  []string{"model/automation"},
		category: CategoryModel,
		label:    "Automation system",
		known: map[string]string{
			"automatableparameter":     "Automatable parameter (plugin parameters)",
			"automatableedititem":      "Base class for automatable edit items",
			"automationcurve":          "Automation curve (bezier-based)",
			"automationcurvelist":      "List of automation curves",
			"automationmode":           "Automation recording/playback modes",
			"automationrecordmanager":  "Automation recording manager",
			"modifier":                 "Base automation modifier class",
			"macroparameter":           "Macro parameter (controls multiple parameters)",
			"midilearn":                "MIDI learn system",
			"parametercontrolmappings": "Parameter control mappings",
			"parameterchangehandler":   "Parameter change event handler",
		},
	},
	{
		markers:  []string{"model/export"},
		category: CategoryModel,
		label:    "Export/rendering",
		known: map[string]string{
			"renderer":               "Audio renderer (offline rendering)",
			"rendermanager":          "Render manager (background rendering jobs)",
			"renderoptions":          "Render options configuration",
			"exportjob":              "Export job definition",
			"exportable":             "Exportable interface",
			"archivefile":            "Archive file handling",
			"referencedmateriallist": "Referenced material list for exports",
		},
	},
	{markers: []string{"model"}, category: CategoryModel, label: "Model"},

	{markers: []string{"playback/graph"}, category: CategoryPlayback, label: "Audio graph node"},
	{
		markers:  []string{"playback/devices"},
		category: CategoryPlayback,
		label:    "Device class",
		known: map[string]string{
			"inputdevice":             "Base input device class",
			"waveinputdevice":         "Audio input device",
			"midiinputdevice":         "MIDI input device",
			"physicalmidiinputdevice": "Physical MIDI input device",
			"virtualmidiinputdevice":  "Virtual MIDI input device",
			"outputdevice":            "Base output device class",
			"waveoutputdevice":        "Audio output device",
			"midioutputdevice":        "MIDI output device",
			"wavedevicedescription":   "Audio device description",
		},
	},
	{
		markers:  []string{"playback"},
		category: CategoryPlayback,
		label:    "Playback system",
		known: map[string]string{
			"transportcontrol":    "Transport control (play/stop/record)",
			"editplaybackcontext": "Edit playback context",
			"editinputdevices":    "Edit input device management",
			"devicemanager":       "Audio/MIDI device manager",
			"abletonlink":         "Ableton Link synchronization",
			"levelmeasurer":       "Audio level measurement",
			"midinotedispatcher":  "MIDI note dispatcher",
			"hostedaudiodevice":   "Hosted audio device wrapper",
			"scopedsteadyload":    "Scoped steady load (performance monitoring)",
			"mpestarttrimmer":     "MPE start trimmer",
		},
	},
	{
		markers:  []string{"audio_files"},
		category: CategoryAudioFiles,
		label:    "Audio file handling",
		known: map[string]string{
			"audiofile":                 "Audio file wrapper",
			"audiofilemanager":          "Audio file manager (caching)",
			"audiofilecache":            "Audio file cache",
			"audioformatmanager":        "Audio format manager (WAV/AIFF/FLAC/OGG/MP3)",
			"audiofileutils":            "Audio file utilities",
			"audiofilewriter":           "Audio file writer",
			"smartthumbnail":            "Smart audio thumbnail generator",
			"recordingthumbnailmanager": "Recording thumbnail manager",
			"bufferedaudioreader":       "Buffered audio reader",
			"bufferedfilereader":        "Buffered file reader",
			"audioproxygenerator":       "Audio proxy generator",
			"audiofifo":                 "Audio FIFO buffer",
			"loopinfo":                  "Audio loop information",
		},
	},
	{
		markers:  []string{"midi"},
		category: CategoryMIDI,
		label:    "MIDI handling",
		known: map[string]string{
			"midichannel":         "MIDI channel",
			"midicontrollerevent": "MIDI controller event",
			"midiexpression":      "MIDI expression",
			"activenotelist":      "Active MIDI note list",
		},
	},
	{
		markers:  []string{"utilities"},
		category: CategoryUtilities,
		label:    "Utility",
		known: map[string]string{
			"engine":                       "Engine class (main entry point)",
			"enginebehaviour":              "Engine behavior customization",
			"uibehaviour":                  "UI behavior customization",
			"propertystorage":              "Property storage (settings)",
			"temporaryfilemanager":         "Temporary file manager",
			"crashtracer":                  "Crash tracing utilities",
			"threads":                      "Thread utilities",
			"fileutilities":                "File utilities",
			"identifiers":                  "ValueTree identifiers",
			"valuetreeutilities":           "ValueTree utilities",
			"audioutilities":               "Audio utilities",
			"audioscratchbuffer":           "Audio scratch buffer",
			"audiofadecurve":               "Audio fade curve",
			"parameterhelpers":             "Parameter helper functions",
			"oscillators":                  "Oscillator functions",
			"envelope":                     "Envelope functions",
			"pitch":                        "Pitch utilities",
			"spline":                       "Spline interpolation",
			"ditherer":                     "Audio dithering",
			"appfunctions":                 "Application helper functions",
			"plugincomponent":              "Plugin UI component",
			"curveeditor":                  "Automation curve editor",
			"backgroundjobs":               "Background job system",
			"externalplayheadsynchroniser": "External playhead synchronization",
			"sharedtimer":                  "Shared timer",
			"screensaverdefeater":          "Screen saver defeater",
			"cpumeasurement":               "CPU usage measurement",
			"constrainedcachedvalue":       "Constrained cached value",
			"atomicwrapper":                "Atomic wrapper utilities",
			"asyncfunctionutils":           "Async function utilities",
			"safescopedlistener":           "Safe scoped listener",
			"scopedlistener":               "Scoped listener",
			"mousehoverdetector":           "Mouse hover detector",
			"miscutilities":                "Miscellaneous utilities",
			"testutilities":                "Test utilities",
			"types":                        "Type definitions",
			"settingid":                    "Setting ID definitions",
			"binarydata":                   "Binary data embedding",
		},
	},
	{
		markers:  []string{"project"},
		category: CategoryProject,
		label:    "Project management",
		known: map[string]string{
			"project":            "Project class",
			"projectmanager":     "Project manager",
			"projectitem":        "Project item",
			"projectitemid":      "Project item ID",
			"projectsearchindex": "Project search index",
		},
	},
	{
		markers:  []string{"selection"},
		category: CategorySelection,
		label:    "Selection system",
		known: map[string]string{
			"selectable":       "Selectable interface",
			"selectionmanager": "Selection manager",
			"clipboard":        "Clipboard operations",
			"selectableclass":  "Selectable class utilities",
		},
	},
	{markers: []string{"control_surfaces"}, category: CategoryControlSurfaces, label: "Control surface"},
	{
		markers:  []string{"timestretch"},
		category: CategoryTimeStretch,
		label:    "Time stretching",
		known: map[string]string{
			"timestretch":            "Time stretching implementation",
			"readaheadtimestretcher": "Read-ahead time stretcher",
			"tempodetect":            "Tempo detection",
			"beatdetect":             "Beat detection",
		},
	},
	{markers: []string{"testing"}, category: CategoryTesting, label: "Testing utilities"},
}

var graphRules = []rule{
	{
		markers:  []string{"utilities"},
		category: CategoryGraph,
		label:    "Graph utility",
		known: map[string]string{
			"audiobufferpool":        "Audio buffer pool (memory management)",
			"audiobufferstack":       "Audio buffer stack",
			"audiofifo":              "Audio FIFO",
			"midimessagearray":       "MIDI message array",
			"midimessagewithsource":  "MIDI message with source",
			"semaphore":              "Semaphore implementation",
			"threads":                "Thread utilities",
			"realtimespinlock":       "Real-time spin lock",
			"lockfreeobject":         "Lock-free object wrapper",
			"latencyprocessor":       "Latency processor",
			"gluecode":               "Glue code utilities",
			"performancemeasurement": "Performance measurement",
			"allocation":             "Memory allocation utilities",
		},
	},
	{
		markers:  []string{"nodes"},
		category: CategoryGraph,
		label:    "Graph node",
		known: map[string]string{
			"connectednode": "Connected node (graph connections)",
			"latencynode":   "Latency compensation node",
			"summingnode":   "Summing/mixing node",
		},
	},
	{
		markers:  []string{"players"},
		category: CategoryGraph,
		label:    "Node player",
		known: map[string]string{
			"nodeplayerutilities": "Node player utilities",
			"simplenodeplayer":    "Simple node player",
		},
	},
}

var graphCore = rule{
	category: CategoryGraph,
	label:    "Graph core",
	known: map[string]string{
		"node":                            "Base Node class (audio graph node)",
		"nodeplayer":                      "Node player (executes graph)",
		"lockfreemultithreadednodeplayer": "Lock-free multi-threaded node player",
		"multithreadednodeplayer":         "Multi-threaded node player",
		"nodeplayerthreadpools":           "Node player thread pools",
		"playhead":                        "Playhead (playback position tracking)",
		"playheadstate":                   "Playhead state",
		"utility":                         "Graph utility functions",
		"testnodes":                       "Test nodes",
		"testutilities":                   "Test utilities",
	},
}

var coreRule = rule{
	category: CategoryCore,
	label:    "Core utility",
	known: map[string]string{
		"types":                 "Core type definitions",
		"time":                  "Time representation and utilities",
		"timerange":             "Time range class",
		"tempo":                 "Tempo sequence and calculations",
		"maths":                 "Math utilities",
		"hash":                  "Hash functions",
		"bezier":                "Bezier curve utilities",
		"cpu":                   "CPU detection",
		"benchmark":             "Benchmark utilities",
		"algorithmadapters":     "Algorithm adapters",
		"audioreader":           "Audio reader interface",
		"multiplewriterseqlock": "Multiple writer sequence lock",
	},
}
