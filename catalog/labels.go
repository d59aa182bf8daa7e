package catalog

// FallbackIcon is shown for services without a dedicated icon.
const FallbackIcon = "🔗"

var icons = map[string]string{
	"gemini":           "✨",
	"studio":           "🧠",
	"chatgpt":          "🤖",
	"claude":           "🎭",
	"copilot":          "✈️",
	"vertex":           "🌩️",
	"openai-platform":  "⚙️",
	"azure-ai":         "🔷",
	"watsonx":          "🧠",
	"midjourney":       "🎨",
	"dalle":            "🖼️",
	"stable-diffusion": "🌈",
	"runway":           "🎬",
	"pika":             "⚡",
}

var labels = map[string]string{
	"gemini":           "Gemini",
	"studio":           "AI Studio",
	"chatgpt":          "ChatGPT",
	"claude":           "Claude",
	"copilot":          "Copilot",
	"vertex":           "Vertex AI",
	"openai-platform":  "OpenAI Platform",
	"azure-ai":         "Azure AI",
	"watsonx":          "WatsonX",
	"midjourney":       "Midjourney",
	"dalle":            "DALL-E",
	"stable-diffusion": "Stable Diffusion",
	"runway":           "Runway",
	"pika":             "Pika",
}

var modeTitles = map[string]string{
	ModeStandard:   "Standard",
	ModeEnterprise: "Enterprise",
	ModeMedia:      "Media",
}

// Icon returns the tab icon for a service id.
func Icon(id string) string {
	if icon, ok := icons[id]; ok {
		return icon
	}
	return FallbackIcon
}

// Label returns the tab label for a service id, or the id itself.
func Label(id string) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return id
}

// ModeTitle returns the button caption for a mode name.
func ModeTitle(name string) string {
	if title, ok := modeTitles[name]; ok {
		return title
	}
	return name
}
