package catalog

// Mode names of the built-in catalog.
const (
	ModeStandard   = "standard"
	ModeEnterprise = "enterprise"
	ModeMedia      = "media"
)

var defaultModes = []Mode{
	{
		Name: ModeStandard,
		Services: []ServiceDescriptor{
			{ID: "gemini", URL: "https://gemini.google.com"},
			{ID: "studio", URL: "https://aistudio.google.com"},
			{ID: "chatgpt", URL: "https://chatgpt.com"},
			{ID: "claude", URL: "https://claude.ai"},
			{ID: "copilot", URL: "https://copilot.microsoft.com"},
		},
	},
	{
		Name: ModeEnterprise,
		Services: []ServiceDescriptor{
			{ID: "vertex", URL: "https://console.cloud.google.com/vertex-ai"},
			{ID: "openai-platform", URL: "https://platform.openai.com"},
			{ID: "azure-ai", URL: "https://ai.azure.com"},
			{ID: "watsonx", URL: "https://dataplatform.cloud.ibm.com/"},
		},
	},
	{
		Name: ModeMedia,
		Services: []ServiceDescriptor{
			{ID: "midjourney", URL: "https://www.midjourney.com/"},
			{ID: "dalle", URL: "https://chatgpt.com/?model=gpt-4"},
			{ID: "stable-diffusion", URL: "https://stablediffusionweb.com/"},
			{ID: "runway", URL: "https://runwayml.com/"},
			{ID: "pika", URL: "https://pika.art/"},
		},
	},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultModes)
	if err != nil {
		panic(err)
	}
	return c
}
