package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestKeywordInterpreter(t *testing.T) {
	k := NewKeywordInterpreter()
	cases := []struct {
		text   string
		action Action
		title  string
	}{
		{"Create a task to review the budget", ActionCreateTask, "review the budget"},
		{"crea una tarea para revisar emails", ActionCreateTask, "revisar emails"},
		{"creat groceries", ActionCreateTask, "groceries"},
		{"Marca la tarea como completada", ActionCompleteTask, ""},
		{"¿Qué tareas tengo pendientes?", ActionListTasks, ""},
		{"ayuda", ActionHelp, ""},
		{"what is the weather", ActionUnknown, ""},
	}
	for _, c := range cases {
		res, err := k.Interpret(context.Background(), c.text)
		if err != nil {
			t.Fatalf("%q: %v", c.text, err)
		}
		if res.Action != c.action || res.Data.Title != c.title {
			t.Errorf("%q: got %s %q, want %s %q", c.text, res.Action, res.Data.Title, c.action, c.title)
		}
	}
}

func TestParseCommand(t *testing.T) {
	res, err := parseCommand("Sure!\n```json\n{\"action\":\"create_task\",\"data\":{\"title\":\"Call mom\",\"priority\":\"high\"}}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ActionCreateTask || res.Data.Title != "Call mom" || res.Data.Priority != "high" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Confidence != 0.5 || res.Message == "" {
		t.Fatalf("defaults not applied: %+v", res)
	}

	res, err = parseCommand(`{"action":"launch_rocket","confidence":0.9}`)
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ActionUnknown || res.Confidence != 0.9 {
		t.Fatalf("unexpected result %+v", res)
	}

	if _, err := parseCommand("no json here"); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenAIServiceInterpret(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" || r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected request %s %s", r.URL.Path, r.Header.Get("Authorization"))
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) != 2 {
			t.Errorf("bad request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": `{"action":"list_tasks","message":"ok","confidence":0.8}`}},
			},
		})
	}))
	defer srv.Close()

	o := NewOpenAIService("sk-test", "")
	o.baseURL = srv.URL
	o.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	res, err := o.Interpret(context.Background(), "what is pending?")
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ActionListTasks || res.Confidence != 0.8 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestOllamaServiceInterpretAndPing(t *testing.T) {
	const model = "mistral"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Write([]byte(`{"models":[]}`))
		case "/api/generate":
			var req map[string]interface{}
			json.NewDecoder(r.Body).Decode(&req)
			if req["model"] != model {
				t.Errorf("model = %v, want %s", req["model"], model)
			}
			w.Write([]byte(`{"response":"{\"action\":\"help\",\"message\":\"hi\",\"confidence\":1}","done":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	o := NewOllamaServiceWithGetters(func() string { return srv.URL }, func() string { return model })
	if err := o.Ping(context.Background(), ""); err != nil {
		t.Fatalf("ping: %v", err)
	}

	res, err := o.Interpret(context.Background(), "help")
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ActionHelp {
		t.Fatalf("unexpected result %+v", res)
	}
}

type stubInterpreter struct {
	res   *CommandResult
	err   error
	calls int
}

func (s *stubInterpreter) Interpret(context.Context, string) (*CommandResult, error) {
	s.calls++
	return s.res, s.err
}

func TestFallbackServiceWalksChain(t *testing.T) {
	quota := &stubInterpreter{err: errors.New("API error (429): RESOURCE_EXHAUSTED")}
	garbage := &stubInterpreter{err: errors.New("no JSON object in model answer")}
	f := NewFallbackService(Provider{Name: "gemini", Interpreter: quota}, Provider{Name: "ollama", Interpreter: garbage})

	res, err := f.Interpret(context.Background(), "help")
	if err != nil {
		t.Fatal(err)
	}
	if res.Action != ActionHelp || quota.calls != 1 || garbage.calls != 1 {
		t.Fatalf("keyword fallback not reached: %+v (%d, %d)", res, quota.calls, garbage.calls)
	}

	good := &stubInterpreter{res: &CommandResult{Action: ActionListTasks}}
	f = NewFallbackService(Provider{Name: "openai", Interpreter: good}, Provider{Name: "ollama", Interpreter: garbage})
	res, _ = f.Interpret(context.Background(), "help")
	if res.Action != ActionListTasks || garbage.calls != 1 {
		t.Fatalf("chain did not stop at first success: %+v", res)
	}
}

func TestErrorClassification(t *testing.T) {
	if !isQuotaError(errors.New("Too Many Requests")) || isQuotaError(nil) {
		t.Fatal("quota classification")
	}
	if !isConnectionError(errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")) || isConnectionError(errors.New("bad json")) {
		t.Fatal("connection classification")
	}
}

func TestNewInterpreter(t *testing.T) {
	if _, err := NewInterpreter(Config{Provider: ProviderOpenAI}); err == nil {
		t.Fatal("openai without key should fail")
	}
	if _, err := NewInterpreter(Config{Provider: "mystery"}); err == nil {
		t.Fatal("unknown provider should fail")
	}

	f, err := NewInterpreter(Config{Provider: ProviderAuto, GeminiAPIKey: "g"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"gemini", "ollama", "keyword"}
	got := f.Providers()
	if len(got) != len(want) {
		t.Fatalf("providers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("providers = %v, want %v", got, want)
		}
	}

	f, _ = NewInterpreter(Config{Provider: ProviderKeyword})
	if got := f.Providers(); len(got) != 1 {
		t.Fatalf("keyword chain = %v", got)
	}
}
