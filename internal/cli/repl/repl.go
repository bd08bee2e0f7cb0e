// Package repl implements the interactive playground client.
package repl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/google/shlex"

	httpclient "codepad/internal/cli/http"
)

// extensionLanguages infers a language id from a source file extension.
var extensionLanguages = map[string]string{
	".py":   "python",
	".js":   "javascript",
	".c":    "c",
	".cpp":  "cpp",
	".cc":   "cpp",
	".go":   "go",
	".java": "java",
}

// Session holds REPL state.
type Session struct {
	client *httpclient.Client
	rl     *readline.Instance
}

// envelope mirrors the server's standard response shape.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type runData struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Output  string `json:"output"`
	Error   string `json:"error"`
	Stderr  string `json:"stderr"`
}

func New(client *httpclient.Client) (*Session, error) {
	rl, err := readline.New("codepad> ")
	if err != nil {
		return nil, fmt.Errorf("init readline failed: %w", err)
	}
	return &Session{client: client, rl: rl}, nil
}

// Run reads commands until EOF or exit.
func (s *Session) Run(ctx context.Context) {
	defer func() { _ = s.rl.Close() }()
	for {
		line, err := s.rl.Readline()
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			s.printLine("bye")
			return
		}
		if line == "help" {
			s.printHelp()
			continue
		}
		if err := s.handleCommand(ctx, line); err != nil {
			s.printLine("error: %v", err)
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, line string) error {
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	switch tokens[0] {
	case "run":
		return s.handleRun(ctx, tokens[1:])
	case "langs":
		return s.handleLangs(ctx)
	case "template":
		if len(tokens) < 2 {
			return fmt.Errorf("usage: template <language>")
		}
		return s.handleTemplate(ctx, tokens[1])
	case "share":
		return s.handleShare(ctx, tokens[1:])
	case "get":
		if len(tokens) < 2 {
			return fmt.Errorf("usage: get <snippet-id>")
		}
		return s.handleGet(ctx, tokens[1])
	case "set":
		return s.handleSet(tokens[1:])
	default:
		return fmt.Errorf("unknown command: %s (try help)", tokens[0])
	}
}

func (s *Session) readSource(args []string) (language, code string, err error) {
	if len(args) == 0 {
		return "", "", fmt.Errorf("usage: run|share <file> [language]")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read source file failed: %w", err)
	}
	if len(args) > 1 {
		return args[1], string(data), nil
	}
	ext := filepath.Ext(args[0])
	language, ok := extensionLanguages[ext]
	if !ok {
		return "", "", fmt.Errorf("cannot infer language from %q, pass it explicitly", ext)
	}
	return language, string(data), nil
}

func (s *Session) handleRun(ctx context.Context, args []string) error {
	language, code, err := s.readSource(args)
	if err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]string{"language": language, "code": code})
	resp, err := s.client.Do(ctx, http.MethodPost, "/api/v1/run", body)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return err
	}
	var run runData
	if err := json.Unmarshal(env.Data, &run); err != nil {
		return fmt.Errorf("decode run result failed: %w", err)
	}
	if run.Success {
		s.printLine("ok (%s)", resp.Duration.Round(time.Millisecond))
		if run.Output != "" {
			s.print(run.Output)
		}
		if run.Stderr != "" {
			s.printLine("--- stderr ---")
			s.print(run.Stderr)
		}
		return nil
	}
	s.printLine("%s:", run.Kind)
	if run.Error != "" {
		s.print(run.Error)
		if !strings.HasSuffix(run.Error, "\n") {
			s.printLine("")
		}
	}
	return nil
}

func (s *Session) handleLangs(ctx context.Context) error {
	resp, err := s.client.Do(ctx, http.MethodGet, "/api/v1/languages", nil)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return err
	}
	var langs []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Extension string `json:"extension"`
	}
	if err := json.Unmarshal(env.Data, &langs); err != nil {
		return fmt.Errorf("decode languages failed: %w", err)
	}
	for _, lang := range langs {
		s.printLine("%-12s %s (%s)", lang.ID, lang.Name, lang.Extension)
	}
	return nil
}

func (s *Session) handleTemplate(ctx context.Context, language string) error {
	resp, err := s.client.Do(ctx, http.MethodGet, "/api/v1/templates/"+language, nil)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return err
	}
	var tpl struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(env.Data, &tpl); err != nil {
		return fmt.Errorf("decode template failed: %w", err)
	}
	s.print(tpl.Source)
	return nil
}

func (s *Session) handleShare(ctx context.Context, args []string) error {
	language, code, err := s.readSource(args)
	if err != nil {
		return err
	}
	body, _ := json.Marshal(map[string]string{"language": language, "code": code})
	resp, err := s.client.Do(ctx, http.MethodPost, "/api/v1/snippets", body)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return err
	}
	var saved struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &saved); err != nil {
		return fmt.Errorf("decode snippet id failed: %w", err)
	}
	s.printLine("snippet saved: %s", saved.ID)
	return nil
}

func (s *Session) handleGet(ctx context.Context, id string) error {
	resp, err := s.client.Do(ctx, http.MethodGet, "/api/v1/snippets/"+id, nil)
	if err != nil {
		return err
	}
	env, err := decodeEnvelope(resp)
	if err != nil {
		return err
	}
	var snip struct {
		Language string `json:"language"`
		Code     string `json:"code"`
	}
	if err := json.Unmarshal(env.Data, &snip); err != nil {
		return fmt.Errorf("decode snippet failed: %w", err)
	}
	s.printLine("language: %s", snip.Language)
	s.print(snip.Code)
	return nil
}

func (s *Session) handleSet(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set base|timeout <value>")
	}
	switch args[0] {
	case "base":
		s.client.SetBaseURL(args[1])
		s.printLine("base set to %s", args[1])
	case "timeout":
		dur, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		s.client.SetTimeout(dur)
		s.printLine("timeout set to %s", dur)
	default:
		return fmt.Errorf("unknown set command: %s", args[0])
	}
	return nil
}

func decodeEnvelope(resp httpclient.ResponseInfo) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return env, fmt.Errorf("decode response failed (HTTP %d)", resp.StatusCode)
	}
	if env.Code != 10000 {
		return env, fmt.Errorf("server: %s (code %d)", env.Message, env.Code)
	}
	return env, nil
}

func (s *Session) printHelp() {
	s.printLine("commands:")
	s.printLine("  run <file> [language]    execute a source file")
	s.printLine("  langs                    list supported languages")
	s.printLine("  template <language>      print the starter source")
	s.printLine("  share <file> [language]  save a snippet, print its id")
	s.printLine("  get <snippet-id>         print a saved snippet")
	s.printLine("  set base <url>           change the server base URL")
	s.printLine("  set timeout <duration>   change the HTTP timeout")
	s.printLine("  exit")
}

func (s *Session) print(text string) {
	fmt.Fprint(s.rl.Stdout(), text)
}

func (s *Session) printLine(format string, args ...interface{}) {
	fmt.Fprintf(s.rl.Stdout(), format+"\n", args...)
}
