// Package prompt 管理内嵌的提示词模板
// 每个模板由 templates/<id>.system.txt 与 templates/<id>.user.txt 组成，
// 占位符使用 FString 语法，字面量花括号需写成双花括号
package prompt

import (
	"embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// PromptID 模板标识，带版本后缀
type PromptID string

const (
	// PromptTriageV1 话语切分与分类（JSON 数组输出）
	PromptTriageV1 PromptID = "triage_v1"
	// PromptFollowUpV1 针对缺失分类的追问
	PromptFollowUpV1 PromptID = "followup_v1"
	// PromptCloseOutV1 资料齐全后的收尾回复
	PromptCloseOutV1 PromptID = "closeout_v1"
	PromptReportV1   PromptID = "report_v1"
	PromptTitleV1    PromptID = "title_v1"
)

// AllPromptIDs 全部已注册的提示词
var AllPromptIDs = []PromptID{
	PromptTriageV1,
	PromptFollowUpV1,
	PromptCloseOutV1,
	PromptReportV1,
	PromptTitleV1,
}

// Registry 按需解析并缓存模板，可并发使用
type Registry struct {
	mu        sync.Mutex
	templates map[PromptID]einoprompt.ChatTemplate
}

func NewRegistry() *Registry {
	return &Registry{templates: make(map[PromptID]einoprompt.ChatTemplate, len(AllPromptIDs))}
}

// ChatTemplate 返回 system + user 两条消息组成的模板，同一 id 返回同一实例
func (r *Registry) ChatTemplate(id PromptID) (einoprompt.ChatTemplate, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if tpl, ok := r.templates[id]; ok {
		return tpl, nil
	}
	if !known(id) {
		return nil, fmt.Errorf("unknown prompt id: %s", id)
	}

	system, err := load(id, "system")
	if err != nil {
		return nil, err
	}
	user, err := load(id, "user")
	if err != nil {
		return nil, err
	}
	tpl := einoprompt.FromMessages(schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	r.templates[id] = tpl
	return tpl, nil
}

func known(id PromptID) bool {
	return slices.Contains(AllPromptIDs, id)
}

func load(id PromptID, part string) (string, error) {
	path := fmt.Sprintf("templates/%s.%s.txt", id, part)
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", path, err)
	}
	return strings.TrimSpace(string(b)), nil
}
