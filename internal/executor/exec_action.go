package executor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"buildforge/pkg/types"
)

const (
	// ExecActionKind 是 shell 命令动作的类型标识符。
	ExecActionKind = "exec"

	// 命令执行的默认超时时间。
	defaultExecTimeout = 60 * time.Second
)

// execAction 通过系统 shell 执行一条构建命令。
type execAction struct {
	command   string
	shell     string
	shellArgs []string
	env       map[string]string
	dir       string
	timeout   time.Duration
}

// ExecOutput 表示命令执行的输出。
type ExecOutput struct {
	ExitCode int `json:"exit_code"`
}

// newExecAction 从任务配置构建 exec 动作。
func newExecAction(config map[string]any) (types.Action, error) {
	a := &execAction{
		command: configString(config, "command", ""),
		env:     configStringMap(config, "env"),
		dir:     configString(config, "work_dir", ""),
		timeout: configDuration(config, "timeout", defaultExecTimeout),
	}
	if a.command == "" {
		return nil, NewConfigError("exec action requires 'command' configuration", nil)
	}

	// 根据操作系统确定 shell
	a.shell = configString(config, "shell", "")
	if a.shell == "" {
		if runtime.GOOS == "windows" {
			a.shell = "cmd"
			a.shellArgs = []string{"/C"}
		} else {
			a.shell = "/bin/sh"
			a.shellArgs = []string{"-c"}
		}
	} else {
		// 常见 shell 的默认参数
		switch {
		case strings.Contains(a.shell, "powershell"):
			a.shellArgs = []string{"-Command"}
		case strings.Contains(a.shell, "cmd"):
			a.shellArgs = []string{"/C"}
		default:
			a.shellArgs = []string{"-c"}
		}
	}

	return a, nil
}

// Run 执行命令，stdout/stderr 写入执行上下文的捕获缓冲区。
func (a *execAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	args := append(append([]string(nil), a.shellArgs...), a.command)
	cmd := exec.CommandContext(cmdCtx, a.shell, args...)

	// 环境变量：继承进程环境 + 配置项 + 运行变量（BF_ 前缀）
	cmd.Env = os.Environ()
	for k, v := range a.env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	for k, v := range ec.Vars().Snapshot() {
		cmd.Env = append(cmd.Env, fmt.Sprintf("BF_%s=%v", strings.ToUpper(k), v))
	}

	// 工作目录：任务配置优先于运行配置
	cmd.Dir = a.dir
	if cmd.Dir == "" {
		cmd.Dir = ec.WorkDir
	}

	cmd.Stdout = ec.Stdout()
	cmd.Stderr = ec.Stderr()

	err := cmd.Run()
	output := &ExecOutput{}

	if err != nil {
		// 检查是否超时
		if cmdCtx.Err() == context.DeadlineExceeded {
			return output, NewTimeoutError(ec.TaskName, a.timeout)
		}

		if exitErr, ok := err.(*exec.ExitError); ok {
			output.ExitCode = exitErr.ExitCode()
		} else {
			output.ExitCode = -1
		}
		return output, NewExecutionError(ec.TaskName, "command failed", err)
	}

	return output, nil
}

// init 在默认注册表中注册 exec 动作。
func init() {
	MustRegister(ExecActionKind, newExecAction)
	RegisterAlias("shell", ExecActionKind)
}
