package minutes

import (
	"fmt"
	"os"
	"strings"
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-1.5-pro-latest"

// DefaultPrompt asks for minutes with a fixed section structure.
const DefaultPrompt = `Analyze the content of the attached audio file and write structured meeting minutes.

The minutes must contain the following sections:
1.  **Meeting title / topic:** (infer it from the recording)
2.  **Date and time:** (only if mentioned in the recording)
3.  **Participants:** (names or roles mentioned in the recording)
4.  **Key discussion points:** (bullet points grouped by main topic)
5.  **Decisions:** (anything the meeting decided)
6.  **To-dos / action items:** (who does what, and by when)
7.  **Other notes:** (anything else worth recording)

Write the output as readable Markdown.
`

// LoadPrompt returns the prompt stored at path, or DefaultPrompt when path is
// empty.
func LoadPrompt(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPrompt, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("prompt file is empty: %s", path)
	}
	return prompt, nil
}
