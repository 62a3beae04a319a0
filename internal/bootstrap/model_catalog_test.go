package bootstrap

import (
	"errors"
	"testing"

	"meeting-minutes/internal/domain"
	"meeting-minutes/internal/jobs"
	"meeting-minutes/internal/minutes"
)

// TestGetModelByID verifies known model lookup.
func TestGetModelByID(t *testing.T) {
	model, found := getModelByID("gemini-1.5-flash-latest")
	if !found {
		t.Fatal("expected flash model to exist")
	}
	if model.Name != "Gemini 1.5 Flash" {
		t.Fatalf("name = %s, want Gemini 1.5 Flash", model.Name)
	}
	if _, found := getModelByID("whisper-large"); found {
		t.Fatal("unexpected model found")
	}
}

// TestGetModelsMarksDefaultAndSelected checks flags on the returned catalog.
func TestGetModelsMarksDefaultAndSelected(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.model = "gemini-2.5-flash"

	models := app.GetModels()
	if len(models) != len(geminiModelCatalog) {
		t.Fatalf("models = %d, want %d", len(models), len(geminiModelCatalog))
	}
	for _, model := range models {
		if model.Default != (model.ID == minutes.DefaultModel) {
			t.Fatalf("model %s default = %v", model.ID, model.Default)
		}
		if model.Selected != (model.ID == "gemini-2.5-flash") {
			t.Fatalf("model %s selected = %v", model.ID, model.Selected)
		}
	}
}

// TestGetModelsIncludesConfiguredModel keeps a custom configured model visible.
func TestGetModelsIncludesConfiguredModel(t *testing.T) {
	app, _ := newTestApp(t, nil)
	app.Config.Model = "gemini-exp-1206"
	app.model = "gemini-exp-1206"

	models := app.GetModels()
	last := models[len(models)-1]
	if last.ID != "gemini-exp-1206" || !last.Selected {
		t.Fatalf("last model = %+v, want selected gemini-exp-1206", last)
	}
}

// TestSelectModel checks selection and validation.
func TestSelectModel(t *testing.T) {
	app, _ := newTestApp(t, nil)

	state, err := app.SelectModel("gemini-1.5-flash-latest")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if state.Model != "gemini-1.5-flash-latest" {
		t.Fatalf("state model = %q", state.Model)
	}

	if _, err := app.SelectModel("unknown"); err == nil {
		t.Fatal("expected unknown model error")
	}
	if _, err := app.SelectModel(" "); err == nil {
		t.Fatal("expected empty id error")
	}
}

// TestSelectModelBlockedWhileRunning checks the run guard applies.
func TestSelectModelBlockedWhileRunning(t *testing.T) {
	app, _ := newTestApp(t, nil)
	if err := app.Jobs.Start("job-1", "a.mp3"); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := app.SelectModel("gemini-2.5-pro")
	if !errors.Is(err, jobs.ErrJobAlreadyRunning) {
		t.Fatalf("error = %v, want %v", err, jobs.ErrJobAlreadyRunning)
	}
	if app.GetState().Model == "gemini-2.5-pro" {
		t.Fatal("model changed while running")
	}
	if app.Jobs.Current().Status != domain.JobStatusUploading {
		t.Fatalf("status = %s", app.Jobs.Current().Status)
	}
}
