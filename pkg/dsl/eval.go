// Package dsl 提供基于 CEL (Common Expression Language) 的规则表达式求值，
// 驱动 filter.Rule 等策略节点。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shopkit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	var err error
	celEnvOnce.Do(func() {
		celEnv, err = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, err
}

// Eval 对单个候选商品求值规则表达式。
//
// 表达式语法（CEL 标准语法）：
//   - 基础：label.recall_source == "popular"
//   - 数值：item.score > 0.7
//   - 逻辑：label.recall_source == "content" && item.score > 0.3
//   - 存在性：label.fallback != null
//
// 注意：CEL 访问不存在的 key 会报错，检查存在性应使用 label.key != null。
type Eval struct {
	item *core.Item
	rctx *core.RecommendContext
	env  *cel.Env
}

// NewEval 创建一个规则求值器。
func NewEval(item *core.Item, rctx *core.RecommendContext) *Eval {
	env, _ := getCELEnv()
	return &Eval{item: item, rctx: rctx, env: env}
}

// Evaluate 编译并执行表达式，返回布尔结果。空表达式恒为 true。
func (e *Eval) Evaluate(expr string) (bool, error) {
	if expr == "" {
		return true, nil
	}
	if e.env == nil {
		return false, fmt.Errorf("cel env unavailable")
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return false, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return false, fmt.Errorf("program error: %v", err)
	}

	out, _, err := prg.Eval(e.buildInput())
	if err != nil {
		return false, fmt.Errorf("eval error: %v", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
// label 暴露为顶层访问器：label.recall_source 直接取 Label.Value。
func (e *Eval) buildInput() map[string]any {
	labels := make(map[string]any)
	for k, v := range e.item.Labels {
		labels[k] = v.Value
	}

	item := map[string]any{
		"id":    e.item.ID,
		"score": e.item.Score,
		"meta":  e.item.Meta,
	}

	rctx := map[string]any{}
	if e.rctx != nil {
		rctx["user_id"] = e.rctx.UserID
		rctx["scene"] = e.rctx.Scene
		rctx["params"] = e.rctx.Params
	}

	return map[string]any{
		"item":  item,
		"label": labels,
		"rctx":  rctx,
	}
}
