package model

// GuideEntry describes one corrosion level of the rating guide.
type GuideEntry struct {
	Level       string `json:"level"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// NoDescription is shown for levels the guide does not know.
const NoDescription = "No description available."

var corrosionGuide = map[string]GuideEntry{
	"5": {
		Level:       "5",
		Severity:    "Severe",
		Description: "Severe corrosion with extensive rust formation and material degradation. Large, heavily corroded areas with deep rust penetration. Scribe marks are almost fully covered. Immediate intervention required to prevent structural failure.",
	},
	"6": {
		Level:       "6",
		Severity:    "Significant",
		Description: "Significant corrosion with widespread rust and partial obscuring of scribe marks. Protective measures recommended to slow further degradation.",
	},
	"7": {
		Level:       "7",
		Severity:    "Moderate",
		Description: "Moderate corrosion with noticeable rusting but no severe material loss. Rust around scribe marks is visible but not fully covering. Some rust streaks or discoloration visible. Maintenance is necessary to prevent further deterioration.",
	},
	"8": {
		Level:       "8",
		Severity:    "Light",
		Description: "Light corrosion with minimal surface rust and little to no penetration. Scribe marks are mostly visible with slight corrosion around edges. The overall surface is relatively intact. Regular inspection is advised to monitor potential corrosion spread.",
	},
	"9": {
		Level:       "9",
		Severity:    "Minimal",
		Description: "Minimal corrosion with only faint rust spots visible. Surface remains in good condition with almost no degradation or corrosion spreading. Preventative coatings or treatments can ensure long-term protection.",
	},
}

// guideOrder lists levels from most to least severe.
var guideOrder = []string{"5", "6", "7", "8", "9"}

// LookupGuide returns the guide entry for a corrosion level.
func LookupGuide(level string) (GuideEntry, bool) {
	entry, ok := corrosionGuide[level]
	return entry, ok
}

// DescribeLevel returns the guide description for a level, or NoDescription.
func DescribeLevel(level string) string {
	if entry, ok := corrosionGuide[level]; ok {
		return entry.Description
	}
	return NoDescription
}

// CorrosionGuide returns the guide entries ordered from most to least severe.
// The returned slice is a copy.
func CorrosionGuide() []GuideEntry {
	entries := make([]GuideEntry, 0, len(guideOrder))
	for _, level := range guideOrder {
		entries = append(entries, corrosionGuide[level])
	}
	return entries
}
