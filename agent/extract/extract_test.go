package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

type fakeChatModel struct {
	content string
	err     error
	inputs  [][]*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestEinoExtractorParsesJSON(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"identifier":"+55 (12) 3923-5555"}`}
	ex, err := NewEino(context.Background(), fake, IdentifierDefinition("extract the identifier"))
	if err != nil {
		t.Fatalf("NewEino() error = %v", err)
	}

	out, err := ex.Extract(context.Background(), "my phone is +55 (12) 3923-5555")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out.Identifier != "+55 (12) 3923-5555" {
		t.Fatalf("Identifier = %q", out.Identifier)
	}
	if len(fake.inputs) != 1 || len(fake.inputs[0]) != 2 {
		t.Fatalf("model should see system + user message, got %v", fake.inputs)
	}
	if fake.inputs[0][1].Content != "my phone is +55 (12) 3923-5555" {
		t.Fatalf("user message = %q", fake.inputs[0][1].Content)
	}
}

func TestEinoExtractorAcceptsCodeFence(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: "```json\n{\"customer_id\":\"1\",\"music_preferences\":[\"jazz\"]}\n```"}
	ex, err := NewEino(context.Background(), fake, ProfileDefinition("extract the profile"))
	if err != nil {
		t.Fatalf("NewEino() error = %v", err)
	}
	out, err := ex.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out.MusicPreferences) != 1 || out.MusicPreferences[0] != "jazz" {
		t.Fatalf("MusicPreferences = %v", out.MusicPreferences)
	}
}

func TestEinoExtractorErrors(t *testing.T) {
	t.Parallel()

	bad := &fakeChatModel{content: "I could not find anything"}
	ex, _ := NewEino(context.Background(), bad, IdentifierDefinition("p"))
	if _, err := ex.Extract(context.Background(), "x"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("Extract(non-json) error = %v, want ErrSchemaViolation", err)
	}

	down := &fakeChatModel{err: errors.New("503")}
	ex, _ = NewEino(context.Background(), down, IdentifierDefinition("p"))
	if _, err := ex.Extract(context.Background(), "x"); !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("Extract(model down) error = %v, want ErrModelInvoke", err)
	}
}

func TestNewEinoRequiresPrompt(t *testing.T) {
	t.Parallel()

	if _, err := NewEino(context.Background(), &fakeChatModel{}, IdentifierDefinition(" ")); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("NewEino() error = %v, want ErrPromptMissing", err)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Backend("bogus"), Deps{}, IdentifierDefinition("p"))
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("New() error = %v, want ErrValidation", err)
	}
}

func newTestOpenAIClient(t *testing.T, content string, gotBody *map[string]any) *openai.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if gotBody != nil {
			_ = json.NewDecoder(r.Body).Decode(gotBody)
		}
		encoded, _ := json.Marshal(content)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"id":"cmpl-1","object":"chat.completion","created":0,"model":"m","choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`, encoded)
	}))
	t.Cleanup(server.Close)

	client := openai.NewClient(
		option.WithBaseURL(server.URL),
		option.WithAPIKey("test"),
		option.WithMaxRetries(0),
	)
	return &client
}

func TestOpenAIExtractorSendsStrictSchema(t *testing.T) {
	t.Parallel()

	var body map[string]any
	client := newTestOpenAIClient(t, `{"identifier":"luisg@embraer.com.br"}`, &body)

	ex, err := NewOpenAI(client, "openai/gpt-4o-mini", 0, IdentifierDefinition("extract the identifier"))
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	out, err := ex.Extract(context.Background(), "email luisg@embraer.com.br")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if out.Identifier != "luisg@embraer.com.br" {
		t.Fatalf("Identifier = %q", out.Identifier)
	}

	format, _ := body["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Fatalf("response_format = %v", body["response_format"])
	}
	js, _ := format["json_schema"].(map[string]any)
	if js["name"] != "identifier" || js["strict"] != true {
		t.Fatalf("json_schema = %v", js)
	}
}

func TestOpenAIExtractorSchemaViolation(t *testing.T) {
	t.Parallel()

	client := newTestOpenAIClient(t, `not json`, nil)
	ex, err := NewOpenAI(client, "m", 0, IdentifierDefinition("p"))
	if err != nil {
		t.Fatalf("NewOpenAI() error = %v", err)
	}
	if _, err := ex.Extract(context.Background(), "x"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("Extract() error = %v, want ErrSchemaViolation", err)
	}
}

func TestProfileDefinitionNormalize(t *testing.T) {
	t.Parallel()

	def := ProfileDefinition("p")
	out := def.Normalize(contractx.ProfileOutput{
		CustomerID:       " 7 ",
		MusicPreferences: []string{"classic\nrock", "  ", "jazz\r\n  fusion "},
	})
	if out.CustomerID != "7" {
		t.Fatalf("CustomerID = %q", out.CustomerID)
	}
	if len(out.MusicPreferences) != 2 || out.MusicPreferences[0] != "classic rock" || out.MusicPreferences[1] != "jazz fusion" {
		t.Fatalf("MusicPreferences = %q", out.MusicPreferences)
	}
}

func TestEinoExtractorNormalizesMultiLinePreference(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: `{"customer_id":"1","music_preferences":["hard\nrock"]}`}
	ex, err := NewEino(context.Background(), fake, ProfileDefinition("extract the profile"))
	if err != nil {
		t.Fatalf("NewEino() error = %v", err)
	}
	out, err := ex.Extract(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(out.MusicPreferences) != 1 || out.MusicPreferences[0] != "hard rock" {
		t.Fatalf("MusicPreferences = %q", out.MusicPreferences)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`{"a":1}`:                 `{"a":1}`,
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}```":       `{"a":1}`,
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
