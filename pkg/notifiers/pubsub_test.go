package notifiers

import (
	"context"
	"encoding/json"
	"testing"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/pubsub/pstest"
)

func TestPubSubNotifierPublishes(t *testing.T) {
	// Use the in-memory Pub/Sub emulator.
	server := pstest.NewServer()
	defer server.Close()
	t.Setenv("PUBSUB_EMULATOR_HOST", server.Addr)

	ctx := context.Background()
	client, err := pubsub.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	defer client.Close()
	if _, err := client.CreateTopic(ctx, "reader-alerts"); err != nil {
		t.Fatalf("create topic: %v", err)
	}

	n, err := newPubSubNotifier(ctx, NotifierConfig{
		ID:     "gcp",
		Type:   TypePubSub,
		PubSub: &PubSubConfig{ProjectID: "test-project", Topic: "reader-alerts"},
	}, nil)
	if err != nil {
		t.Fatalf("newPubSubNotifier: %v", err)
	}
	defer n.(*pubsubNotifier).Close()

	if err := n.Notify(ctx, sampleNotification()); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	msgs := server.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	var got Notification
	if err := json.Unmarshal(msgs[0].Data, &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.Title != "Markets rally" || msgs[0].Attributes["category"] != "Business" {
		t.Fatalf("unexpected message %+v attrs=%v", got, msgs[0].Attributes)
	}
}
