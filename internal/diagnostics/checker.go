// Package diagnostics runs the startup checks shown by both front-ends.
package diagnostics

import (
	"fmt"
	"os"
	"strings"
	"time"

	"meeting-minutes/internal/domain"
	"meeting-minutes/internal/minutes"
)

// Settings lists the configured values the checks inspect.
type Settings struct {
	Credential string
	Model      string
	// UploadDir is checked only when set; the desktop app has none.
	UploadDir string
}

// Checker validates the credential, model and upload directory.
type Checker struct {
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
	now        func() time.Time
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
		now:        time.Now,
	}
}

// NewCheckerForTests creates checker with injectable dependencies.
func NewCheckerForTests(
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
	now func() time.Time,
) *Checker {
	return &Checker{
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
		now:        now,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(settings Settings) domain.DiagnosticReport {
	items := []domain.DiagnosticItem{
		checkCredential(settings.Credential),
		checkModel(settings.Model),
	}
	if strings.TrimSpace(settings.UploadDir) != "" {
		items = append(items, c.checkUploadDir(settings.UploadDir))
	}

	hasFailures := false
	for _, item := range items {
		if item.Status == domain.DiagnosticStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.DiagnosticReport{
		GeneratedAt: c.now().UTC(),
		HasFailures: hasFailures,
		Items:       items,
	}
}

// checkCredential verifies an API key is configured.
func checkCredential(credential string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   domain.CheckCredential,
		Name: "API key",
	}
	if strings.TrimSpace(credential) == "" {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Environment variable %s is not set.", minutes.CredentialEnv)
		item.Hint = fmt.Sprintf("Set %s in the environment or in a .env file, then restart.", minutes.CredentialEnv)
		return item
	}

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("%s is set.", minutes.CredentialEnv)
	return item
}

// checkModel flags empty or non-Gemini model names.
func checkModel(model string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   domain.CheckModel,
		Name: "Model",
	}

	model = strings.TrimSpace(model)
	switch {
	case model == "":
		item.Status = domain.DiagnosticStatusFail
		item.Message = "Model name is empty."
		item.Hint = "Set MINUTES_MODEL or the model key in minutes.yaml."
	case !strings.HasPrefix(model, "gemini-"):
		item.Status = domain.DiagnosticStatusWarn
		item.Message = fmt.Sprintf("Model %q does not look like a Gemini model.", model)
		item.Hint = "Generation may fail if the service does not recognize this model."
	default:
		item.Status = domain.DiagnosticStatusPass
		item.Message = fmt.Sprintf("Using %s", model)
	}
	return item
}

// checkUploadDir validates upload directory existence and write access.
func (c *Checker) checkUploadDir(dir string) domain.DiagnosticItem {
	item := domain.DiagnosticItem{
		ID:   domain.CheckUploadDir,
		Name: "Upload directory",
	}

	if err := c.mkdirAll(dir, 0o755); err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Cannot create upload directory: %s", dir)
		item.Hint = "Choose a writable location or adjust filesystem permissions."
		return item
	}

	tmpFile, err := c.createTemp(dir, ".write-check-*")
	if err != nil {
		item.Status = domain.DiagnosticStatusFail
		item.Message = fmt.Sprintf("Upload directory is not writable: %s", dir)
		item.Hint = "Uploaded recordings are stored here briefly; the directory must be writable."
		return item
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	item.Status = domain.DiagnosticStatusPass
	item.Message = fmt.Sprintf("Writable directory: %s", dir)
	return item
}
