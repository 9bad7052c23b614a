package eino

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
)

var registerOnce sync.Once

// Init 注册模型调用的全局回调，重复调用无副作用
func Init() {
	registerOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(
			cbtemplate.NewHandlerHelper().
				ChatModel(newChatModelCallbackHandler()).
				Handler(),
		)
	})
}
