package bootstrap

import (
	"fmt"
	"strings"

	"meeting-minutes/internal/domain"
	"meeting-minutes/internal/jobs"
	"meeting-minutes/internal/minutes"
)

var geminiModelCatalog = []domain.ModelOption{
	{
		ID:          minutes.DefaultModel,
		Name:        "Gemini 1.5 Pro",
		Description: "Most accurate minutes for long recordings.",
	},
	{
		ID:          "gemini-1.5-flash-latest",
		Name:        "Gemini 1.5 Flash",
		Description: "Faster and cheaper, slightly less detailed.",
	},
	{
		ID:          "gemini-2.5-pro",
		Name:        "Gemini 2.5 Pro",
		Description: "Newer pro model with stronger reasoning.",
	},
	{
		ID:          "gemini-2.5-flash",
		Name:        "Gemini 2.5 Flash",
		Description: "Newer fast model for quick drafts.",
	},
}

// GetModels returns the built-in Gemini presets with the active one marked.
func (a *App) GetModels() []domain.ModelOption {
	a.mu.Lock()
	selected := a.model
	a.mu.Unlock()

	models := make([]domain.ModelOption, 0, len(geminiModelCatalog)+1)
	found := false
	for _, model := range geminiModelCatalog {
		model.Default = model.ID == minutes.DefaultModel
		model.Selected = model.ID == selected
		found = found || model.Selected
		models = append(models, model)
	}

	// Keep a configured model outside the presets selectable.
	if !found && selected != "" {
		models = append(models, domain.ModelOption{
			ID:          selected,
			Name:        selected,
			Description: "Configured model.",
			Selected:    true,
		})
	}
	return models
}

// SelectModel switches the model used by the next run.
func (a *App) SelectModel(modelID string) (domain.UIState, error) {
	id := strings.TrimSpace(modelID)
	if id == "" {
		return domain.UIState{}, fmt.Errorf("model id is required")
	}
	if a.Jobs.IsRunning() {
		return domain.UIState{}, jobs.ErrJobAlreadyRunning
	}
	if _, ok := getModelByID(id); !ok && id != a.Config.Model {
		return domain.UIState{}, fmt.Errorf("unknown model: %s", id)
	}

	a.mu.Lock()
	a.model = id
	a.mu.Unlock()

	a.log.Info().Str("model", id).Msg("model selected")
	return a.GetState(), nil
}

// getModelByID looks up a preset by ID.
func getModelByID(id string) (domain.ModelOption, bool) {
	for _, model := range geminiModelCatalog {
		if model.ID == id {
			return model, true
		}
	}
	return domain.ModelOption{}, false
}
