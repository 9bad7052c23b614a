package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-report-ai-api/internal/config"
	wfnode "daily-report-ai-api/internal/workflow/node"
)

type fakeChatModel struct {
	replies []string
	errs    []error
	calls   int
	optLens []int
}

func (m *fakeChatModel) Generate(_ context.Context, _ []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	i := m.calls
	m.calls++
	m.optLens = append(m.optLens, len(opts))
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	return schema.AssistantMessage(m.replies[i], nil), nil
}

func (m *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

type fakeFactory struct {
	model model.BaseChatModel
	err   error
}

func (f *fakeFactory) Get(context.Context, string) (model.BaseChatModel, error) {
	return f.model, f.err
}

func TestChatClient_Generate(t *testing.T) {
	m := &fakeChatModel{replies: []string{"  안녕하세요  "}}
	c := NewChatClient(&fakeFactory{model: m}, "p", config.ProviderKindOpenAI, WorkflowRespond)

	out, err := c.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", out)
}

func TestChatClient_GenerateEmpty(t *testing.T) {
	m := &fakeChatModel{replies: []string{"   "}}
	c := NewChatClient(&fakeFactory{model: m}, "p", config.ProviderKindOpenAI, WorkflowRespond)

	_, err := c.Generate(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChatClient_GenerateJSONFallsBackWithoutResponseFormat(t *testing.T) {
	m := &fakeChatModel{
		replies: []string{"", "```json\n[{\"category\":\"work_done\"}]\n```"},
		errs:    []error{errors.New("400 unknown parameter: response_format"), nil},
	}
	c := NewChatClient(&fakeFactory{model: m}, "p", config.ProviderKindOpenAI, WorkflowClassify)

	out, err := c.GenerateJSON(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.NoError(t, err)
	assert.Equal(t, `[{"category":"work_done"}]`, out)
	assert.Equal(t, 2, m.calls)
	assert.Equal(t, []int{1, 0}, m.optLens)
}

func TestChatClient_GenerateJSONKeepsObjectWrapper(t *testing.T) {
	reply := `{"units":[{"category":"blockers","content":"엎었어","profanity_detected":false},` +
		`{"category":"tomorrow_plan","content":"다시 시작","profanity_detected":false}]}`
	m := &fakeChatModel{replies: []string{"결과입니다:\n" + reply}}
	c := NewChatClient(&fakeFactory{model: m}, "p", config.ProviderKindOpenAI, WorkflowClassify).
		WithJSONSchema(wfnode.TriageSchemaName, wfnode.TriageJSONSchema())

	out, err := c.GenerateJSON(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.NoError(t, err)
	assert.JSONEq(t, reply, out)
	assert.Equal(t, []int{1}, m.optLens)
}

func TestChatClient_ResponseFormat(t *testing.T) {
	plain := NewChatClient(&fakeFactory{}, "p", config.ProviderKindOpenAI, WorkflowRespond)
	assert.Equal(t, map[string]any{"type": "json_object"}, plain.responseFormatField())

	withSchema := plain.WithJSONSchema(wfnode.TriageSchemaName, wfnode.TriageJSONSchema())
	format := withSchema.responseFormatField()
	assert.Equal(t, "json_schema", format["type"])
	spec, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, wfnode.TriageSchemaName, spec["name"])
	root, ok := spec["schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "object", root["type"])
	assert.Equal(t, []string{"units"}, root["required"])

	// 副本不影响原客户端
	assert.Nil(t, plain.schema)
}

func TestChatClient_GenerateJSONPropagatesOtherErrors(t *testing.T) {
	m := &fakeChatModel{replies: []string{""}, errs: []error{errors.New("connection refused")}}
	c := NewChatClient(&fakeFactory{model: m}, "p", config.ProviderKindOpenAI, WorkflowClassify)

	_, err := c.GenerateJSON(context.Background(), nil)
	assert.EqualError(t, err, "connection refused")
	assert.Equal(t, 1, m.calls)
}

func TestToGenAIContents(t *testing.T) {
	contents, system := toGenAIContents([]*schema.Message{
		schema.SystemMessage("rules"),
		schema.UserMessage("q"),
		schema.AssistantMessage("a", nil),
	})
	assert.Equal(t, "rules", system)
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestEinoFactory_Provider(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{
		DefaultProvider: "main",
		Providers: map[string]config.ProviderConfig{
			"main": {Model: "gpt"},
			"gem":  {Kind: config.ProviderKindGemini, Model: "gemini"},
		},
	}}
	f := NewEinoFactory(cfg)

	name, p, err := f.Provider("")
	require.NoError(t, err)
	assert.Equal(t, "main", name)
	assert.Equal(t, config.ProviderKindOpenAI, p.Kind)

	_, _, err = f.Provider("missing")
	assert.Error(t, err)

	roles := NewRoleClients(&config.Config{LLM: config.LLMConfig{
		DefaultProvider: "main",
		Providers:       cfg.LLM.Providers,
		Roles:           config.LLMRolesConfig{Classifier: "gem"},
	}}, f)
	assert.Equal(t, config.ProviderKindGemini, roles.Classifier.kind)
	assert.Equal(t, "main", roles.Reporter.provider)
	require.NotNil(t, roles.Classifier.schema)
	assert.Equal(t, wfnode.TriageSchemaName, roles.Classifier.schema.name)
	assert.Nil(t, roles.Responder.schema)
}
