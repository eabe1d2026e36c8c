package notifiers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := writeFile(t, "notifiers.yaml", `
notifiers:
  - id: hook
    type: http
    enabled: false
    http:
      url: https://example.com/hook
  - id: local
    type: LOG
  - id: push
    type: sns
    sns:
      topic_arn: arn:aws:sns:ap-south-1:123:news
      region: ap-south-1
      access_key_id: AKID
      secret_access_key: secret
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "local" || enabled[1].ID != "push" {
		t.Fatalf("expected local and push enabled, got %#v", enabled)
	}
	if enabled[0].Type != TypeLog {
		t.Fatalf("type not normalized: %q", enabled[0].Type)
	}
	push, ok := reg.ByID("push")
	if !ok || push.SNS.AccessKeyID != "AKID" || push.SNS.SecretAccessKey != "secret" {
		t.Fatalf("inline credentials not decoded: %#v", push.SNS)
	}
	hook, _ := reg.ByID("hook")
	if hook.HTTP.Method != "POST" || hook.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", hook.HTTP)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "notifiers.json", `{"notifiers":[{"id":"q","type":"sqs","sqs":{"uri":"https://sqs/queue","region":"us-east-1"}}]}`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("q")
	if !ok || cfg.SQS.QueueURL != "https://sqs/queue" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	if _, err := LoadRegistry(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := LoadRegistry(writeFile(t, "empty.yaml", "notifiers: []\n")); err == nil {
		t.Fatalf("expected error for empty registry")
	}
	dup := `
notifiers:
  - id: a
    type: log
  - id: a
    type: log
`
	if _, err := LoadRegistry(writeFile(t, "dup.yaml", dup)); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestValidateNotifierConfig(t *testing.T) {
	cases := map[string]NotifierConfig{
		"missing id":   {Type: TypeLog},
		"missing type": {ID: "x"},
		"unknown type": {ID: "x", Type: "pager"},
		"http no url":  {ID: "x", Type: TypeHTTP, HTTP: &HTTPConfig{}},
		"sns both arns": {ID: "x", Type: TypeSNS, SNS: &SNSConfig{
			TopicARN: "arn:topic", TargetARN: "arn:target", Region: "us-east-1",
		}},
		"sns no arn":      {ID: "x", Type: TypeSNS, SNS: &SNSConfig{Region: "us-east-1"}},
		"sqs no region":   {ID: "x", Type: TypeSQS, SQS: &SQSConfig{QueueURL: "https://q"}},
		"pubsub no topic": {ID: "x", Type: TypePubSub, PubSub: &PubSubConfig{ProjectID: "p"}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			if err := validateNotifierConfig(sanitizeNotifierConfig(cfg)); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestBuildAllUsesRegistry(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(TypeLog, newLogNotifier)

	ns, err := BuildAll(context.Background(), reg, []NotifierConfig{{ID: "local", Type: TypeLog}}, noopLogger{})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(ns) != 1 || ns[0].ID() != "local" || ns[0].Type() != TypeLog {
		t.Fatalf("unexpected notifiers %#v", ns)
	}

	if _, err := BuildAll(context.Background(), reg, []NotifierConfig{{ID: "hook", Type: TypeHTTP}}, nil); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}

type recordingLogger struct {
	noopLogger
	msgs []string
}

func (r *recordingLogger) InfoObj(msg, _ string, _ interface{}) { r.msgs = append(r.msgs, msg) }

func TestLogNotifierWritesBody(t *testing.T) {
	log := &recordingLogger{}
	n := NewLogNotifier("local", log)

	if err := n.Notify(context.Background(), sampleNotification()); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "New article: Markets rally" {
		t.Fatalf("unexpected log lines %v", log.msgs)
	}
}

type closingNotifier struct {
	stubNotifier
	closed bool
}

func (c *closingNotifier) Close() error {
	c.closed = true
	return nil
}

func TestBuildAllClosesBuiltNotifiersOnFailure(t *testing.T) {
	built := &closingNotifier{stubNotifier: stubNotifier{id: "gcp", typ: TypePubSub}}
	reg := NewRegistry(map[string]Builder{
		TypePubSub: func(context.Context, NotifierConfig, Logger) (Notifier, error) { return built, nil },
		TypeHTTP: func(context.Context, NotifierConfig, Logger) (Notifier, error) {
			return nil, errors.New("bad webhook")
		},
	})

	_, err := BuildAll(context.Background(), reg, []NotifierConfig{
		{ID: "gcp", Type: TypePubSub},
		{ID: "hook", Type: TypeHTTP},
	}, nil)
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !built.closed {
		t.Fatalf("notifier built before the failure was not closed")
	}
}
