package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"mediform-service/internal/models"
)

// DraftGenerator produces candidate field lists from a free-text form
// description. Implementations never return an error to the caller: any
// failure degrades to an empty list so authoring is never blocked.
type DraftGenerator interface {
	GenerateFields(ctx context.Context, description string) []models.FormField
}

// HTTPClient is the transport used for generation calls.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds credentials and model selection for the generator.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Generator calls an OpenAI-compatible chat completions endpoint to draft
// form fields. Without an API key it returns a fixed demo pair instead.
type Generator struct {
	cfg    Config
	client HTTPClient
	log    *logrus.Logger
}

// NewGenerator creates a Generator. A nil client falls back to
// http.DefaultClient.
func NewGenerator(cfg Config, client HTTPClient, log *logrus.Logger) *Generator {
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if log == nil {
		log = logrus.New()
	}
	return &Generator{cfg: cfg, client: client, log: log}
}

var _ DraftGenerator = (*Generator)(nil)

// demoFields is returned when no credential is configured, so the builder
// stays usable in demo installs.
func demoFields() []models.FormField {
	return []models.FormField{
		{ID: "f1", Type: models.FieldText, Label: "Patient Name (Demo)", Required: true},
		{ID: "f2", Type: models.FieldTextarea, Label: "Symptoms (Demo)", Required: true},
	}
}

// GenerateFields drafts a field list for the described form. Transport
// errors, bad statuses, and malformed payloads all log a warning and return
// an empty list.
func (g *Generator) GenerateFields(ctx context.Context, description string) []models.FormField {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	if g.cfg.APIKey == "" {
		g.log.Warn("No AI API key configured, returning demo draft fields")
		return demoFields()
	}

	payload := map[string]interface{}{
		"model":       g.cfg.Model,
		"temperature": 0.2,
		"messages": []map[string]string{
			{"role": "system", "content": draftPrompt()},
			{"role": "user", "content": description},
		},
		"response_format": map[string]string{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		g.log.Warnf("Failed to marshal draft request: %v", err)
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL(g.cfg.BaseURL), bytes.NewReader(body))
	if err != nil {
		g.log.Warnf("Failed to build draft request: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Warnf("Draft generation call failed: %v", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		g.log.Warnf("Draft generation returned status %d: %s", resp.StatusCode, string(raw))
		return nil
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		g.log.Warnf("Failed to decode draft completion: %v", err)
		return nil
	}
	if len(completion.Choices) == 0 {
		g.log.Warn("Draft completion contained no choices")
		return nil
	}

	var out struct {
		Fields []models.FormField `json:"fields"`
	}
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &out); err != nil {
		g.log.Warnf("Draft completion was not valid JSON: %v", err)
		return nil
	}
	return sanitizeFields(out.Fields)
}

// sanitizeFields drops entries the model got wrong rather than failing the
// whole draft: missing labels, unsupported types, option fields without
// options.
func sanitizeFields(fields []models.FormField) []models.FormField {
	var clean []models.FormField
	for i, f := range fields {
		if f.Label == "" || !models.IsValidFieldType(f.Type) {
			continue
		}
		if models.RequiresOptions(f.Type) && len(f.Options) == 0 {
			continue
		}
		if f.ID == "" {
			f.ID = fmt.Sprintf("f%d", i+1)
		}
		clean = append(clean, f)
	}
	return clean
}

func draftPrompt() string {
	return `Create a hospital form structure based on the user's description. ` +
		`Use Thai language for labels. ` +
		`Respond with a JSON object {"fields": [...]} where each field has ` +
		`"id" (unique string), "type", "label", optional "required" (boolean), ` +
		`and "options" (array of strings, mandatory for dropdown/checkbox). ` +
		`Supported types: text, number, textarea, dropdown, checkbox, date, signature, file.`
}

func chatCompletionsURL(base string) string {
	if base == "" {
		base = "https://api.openai.com"
	}
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}
