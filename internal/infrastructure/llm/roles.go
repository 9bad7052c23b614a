package llm

import (
	"daily-report-ai-api/internal/config"
	wfnode "daily-report-ai-api/internal/workflow/node"
)

// 工作流名称（指标与追踪标签）
const (
	WorkflowClassify = "classify"
	WorkflowRespond  = "respond"
	WorkflowReport   = "report"
)

// RoleClients 各环节绑定的模型客户端
type RoleClients struct {
	Classifier *ChatClient
	Responder  *ChatClient
	Reporter   *ChatClient
}

// NewRoleClients 按配置的角色绑定创建客户端
func NewRoleClients(cfg *config.Config, factory *EinoFactory) *RoleClients {
	bind := func(role, workflow string) *ChatClient {
		name := cfg.LLM.ProviderFor(role)
		kind := config.ProviderKindOpenAI
		if _, p, err := factory.Provider(name); err == nil {
			kind = p.Kind
		}
		return NewChatClient(factory, name, kind, workflow)
	}
	return &RoleClients{
		Classifier: bind(cfg.LLM.Roles.Classifier, WorkflowClassify).
			WithJSONSchema(wfnode.TriageSchemaName, wfnode.TriageJSONSchema()),
		Responder:  bind(cfg.LLM.Roles.Responder, WorkflowRespond),
		Reporter:   bind(cfg.LLM.Roles.Reporter, WorkflowReport),
	}
}
