package minutes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// geminiRemote implements Remote on top of the Gemini Files and Models APIs.
type geminiRemote struct {
	client *genai.Client
}

// NewGeminiFactory returns a RemoteFactory backed by google.golang.org/genai.
func NewGeminiFactory() RemoteFactory {
	return func(ctx context.Context, apiKey string) (Remote, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return &geminiRemote{client: client}, nil
	}
}

// Upload sends the local file to the Files API.
func (g *geminiRemote) Upload(ctx context.Context, path, mimeType string) (RemoteFile, error) {
	file, err := g.client.Files.UploadFromPath(ctx, path, &genai.UploadFileConfig{MIMEType: mimeType})
	if err != nil {
		return RemoteFile{}, remoteError("upload file", err)
	}
	return toRemoteFile(file), nil
}

// Get re-reads the remote file metadata.
func (g *geminiRemote) Get(ctx context.Context, name string) (RemoteFile, error) {
	file, err := g.client.Files.Get(ctx, name, nil)
	if err != nil {
		return RemoteFile{}, remoteError("get file", err)
	}
	return toRemoteFile(file), nil
}

// Delete removes the remote file.
func (g *geminiRemote) Delete(ctx context.Context, name string) error {
	if _, err := g.client.Files.Delete(ctx, name, nil); err != nil {
		return remoteError("delete file", err)
	}
	return nil
}

// Generate asks model for content from the uploaded file and the prompt.
func (g *geminiRemote) Generate(ctx context.Context, model string, file RemoteFile, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromURI(file.URI, file.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", remoteError("generate content", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text.String(), nil
}

// toRemoteFile copies the fields a run needs from a genai file.
func toRemoteFile(file *genai.File) RemoteFile {
	if file == nil {
		return RemoteFile{State: FileStateUnspecified}
	}
	state := FileState(file.State)
	if state == "" {
		state = FileStateUnspecified
	}
	return RemoteFile{
		Name:     file.Name,
		URI:      file.URI,
		MIMEType: file.MIMEType,
		State:    state,
	}
}

// remoteError wraps err with ErrPermissionDenied or ErrQuotaExhausted when
// the API reports an auth or quota failure.
func remoteError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden ||
			apiErr.Status == "PERMISSION_DENIED" || apiErr.Status == "UNAUTHENTICATED":
			return fmt.Errorf("%s: %w: %v", op, ErrPermissionDenied, err)
		case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
			return fmt.Errorf("%s: %w: %v", op, ErrQuotaExhausted, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "PERMISSION_DENIED") || strings.Contains(msg, "API_KEY_INVALID"):
		return fmt.Errorf("%s: %w: %v", op, ErrPermissionDenied, err)
	case strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "quota"):
		return fmt.Errorf("%s: %w: %v", op, ErrQuotaExhausted, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
