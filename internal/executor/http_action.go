package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/valyala/fasthttp"

	"buildforge/pkg/types"
)

const (
	// HTTPActionKind 是 HTTP 请求动作的类型标识符。
	HTTPActionKind = "http"

	// HTTP 请求的默认超时时间。
	defaultHTTPTimeout = 30 * time.Second
)

// httpAction 使用 fasthttp 执行一次 HTTP 请求，可选地用 JSONPath
// 把响应字段提取到运行变量中，供下游任务使用。
type httpAction struct {
	url     string
	method  string
	headers map[string]string
	body    string
	timeout time.Duration
	extract map[string]jp.Expr

	client *fasthttp.Client
}

// HTTPOutput 表示 HTTP 请求动作的输出。
type HTTPOutput struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

// newHTTPAction 从任务配置构建 http 动作。
// JSONPath 表达式在构建期解析，无效表达式在图构建阶段即失败。
func newHTTPAction(config map[string]any) (types.Action, error) {
	a := &httpAction{
		url:     configString(config, "url", ""),
		method:  strings.ToUpper(configString(config, "method", "GET")),
		headers: configStringMap(config, "headers"),
		body:    configString(config, "body", ""),
		timeout: configDuration(config, "timeout", defaultHTTPTimeout),
		extract: make(map[string]jp.Expr),
	}
	if a.url == "" {
		return nil, NewConfigError("http action requires 'url' configuration", nil)
	}

	for name, expr := range configStringMap(config, "extract") {
		path, err := jp.ParseString(expr)
		if err != nil {
			return nil, NewConfigError(fmt.Sprintf("invalid JSONPath expression %q", expr), err)
		}
		a.extract[name] = path
	}

	a.client = &fasthttp.Client{
		ReadTimeout:  a.timeout,
		WriteTimeout: a.timeout,
	}
	return a, nil
}

// Run 执行 HTTP 请求。
func (a *httpAction) Run(ctx context.Context, ec *types.ExecutionContext) (any, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(a.url)
	req.Header.SetMethod(a.method)
	for k, v := range a.headers {
		req.Header.Set(k, v)
	}
	if a.body != "" {
		req.SetBodyString(a.body)
	}

	if err := a.client.DoTimeout(req, resp, a.timeout); err != nil {
		if err == fasthttp.ErrTimeout {
			return nil, NewTimeoutError(ec.TaskName, a.timeout)
		}
		return nil, NewExecutionError(ec.TaskName, "http request failed", err)
	}

	output := &HTTPOutput{
		StatusCode: resp.StatusCode(),
		Body:       string(resp.Body()),
	}

	if output.StatusCode >= fasthttp.StatusBadRequest {
		return output, NewExecutionError(ec.TaskName, fmt.Sprintf("http request returned status %d", output.StatusCode), nil)
	}

	if len(a.extract) > 0 {
		if err := a.extractVariables(output.Body, ec); err != nil {
			return output, err
		}
	}

	return output, nil
}

// extractVariables 用 JSONPath 从响应体提取值写入运行变量。
func (a *httpAction) extractVariables(body string, ec *types.ExecutionContext) error {
	data, err := oj.ParseString(body)
	if err != nil {
		return NewExecutionError(ec.TaskName, "response body is not valid JSON", err)
	}

	for name, path := range a.extract {
		results := path.Get(data)
		if len(results) == 0 {
			return NewExecutionError(ec.TaskName, fmt.Sprintf("JSONPath for variable %q returned no results", name), nil)
		}
		ec.Vars().Set(name, results[0])
	}
	return nil
}

// init 在默认注册表中注册 http 动作。
func init() {
	MustRegister(HTTPActionKind, newHTTPAction)
}
