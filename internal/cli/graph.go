package cli

import (
	"fmt"

	"buildforge/internal/executor"
	"buildforge/internal/graph"
	"buildforge/internal/parser"
	"buildforge/pkg/types"
)

// BuildGraph 根据构建定义装配任务图。targets 非空时只包含目标任务
// 及其传递依赖，保持声明顺序。
func BuildGraph(build *parser.BuildFile, targets []string) (*graph.TaskGraph, error) {
	defs := make(map[string]*parser.TaskDef, len(build.Tasks))
	for i := range build.Tasks {
		defs[build.Tasks[i].ID] = &build.Tasks[i]
	}

	include := make(map[string]bool, len(defs))
	if len(targets) == 0 {
		for id := range defs {
			include[id] = true
		}
	} else {
		var visit func(id string) error
		visit = func(id string) error {
			if include[id] {
				return nil
			}
			def, ok := defs[id]
			if !ok {
				return fmt.Errorf("未知的目标任务: %s", id)
			}
			include[id] = true
			for _, dep := range def.DependsOn {
				if err := visit(dep); err != nil {
					return err
				}
			}
			return nil
		}
		for _, target := range targets {
			if err := visit(target); err != nil {
				return nil, err
			}
		}
	}

	g := graph.New()
	for i := range build.Tasks {
		def := &build.Tasks[i]
		if !include[def.ID] {
			continue
		}
		action, err := buildAction(def)
		if err != nil {
			return nil, fmt.Errorf("装配任务 %s 失败: %w", def.ID, err)
		}
		node, err := g.AddTask(def.ID, action, def.DependsOn...)
		if err != nil {
			return nil, fmt.Errorf("装配任务 %s 失败: %w", def.ID, err)
		}
		if def.OnlyIf != "" {
			node.SetCondition(def.OnlyIf)
		}
	}
	if err := g.Finalize(); err != nil {
		return nil, err
	}
	return g, nil
}

// buildAction 构建任务的动作，pre/post 存在时包装为复合动作。
func buildAction(def *parser.TaskDef) (types.Action, error) {
	main, err := executor.DefaultRegistry.Build(def.Type, def.Config)
	if err != nil {
		return nil, err
	}
	if len(def.Pre) == 0 && len(def.Post) == 0 {
		return main, nil
	}

	buildList := func(defs []parser.ActionDef) ([]types.Action, error) {
		actions := make([]types.Action, 0, len(defs))
		for _, d := range defs {
			act, err := executor.DefaultRegistry.Build(d.Type, d.Config)
			if err != nil {
				return nil, err
			}
			actions = append(actions, act)
		}
		return actions, nil
	}

	pre, err := buildList(def.Pre)
	if err != nil {
		return nil, err
	}
	post, err := buildList(def.Post)
	if err != nil {
		return nil, err
	}
	return executor.NewCompositeAction(main, pre, post)
}
