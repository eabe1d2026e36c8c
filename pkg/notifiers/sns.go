package notifiers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// snsSubjectLimit is the maximum subject length SNS accepts for email
// subscribers.
const snsSubjectLimit = 100

// snsClient defines the minimal subset of the SNS client used by snsNotifier.
type snsClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// snsNotifier pushes notifications to an SNS topic or a single mobile
// platform endpoint.
type snsNotifier struct {
	id        string
	topicARN  string
	targetARN string
	client    snsClient
	log       Logger
}

func newSNSNotifier(ctx context.Context, cfg NotifierConfig, log Logger) (Notifier, error) {
	if cfg.SNS == nil {
		return nil, fmt.Errorf("notifier %q missing sns configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SNS.Region, cfg.SNS.AWSCredentials)
	if err != nil {
		return nil, err
	}

	return &snsNotifier{
		id:        cfg.ID,
		topicARN:  cfg.SNS.TopicARN,
		targetARN: cfg.SNS.TargetARN,
		client:    sns.NewFromConfig(awsCfg),
		log:       ensureLogger(log),
	}, nil
}

func (s *snsNotifier) ID() string   { return s.id }
func (s *snsNotifier) Type() string { return TypeSNS }

// Notify publishes n as a JSON message.
func (s *snsNotifier) Notify(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	input := &sns.PublishInput{
		Message: aws.String(string(payload)),
		Subject: stringAttribute(truncate(n.Title, snsSubjectLimit)),
	}
	if s.topicARN != "" {
		input.TopicArn = aws.String(s.topicARN)
	} else {
		input.TargetArn = aws.String(s.targetARN)
	}
	if category := stringAttribute(string(n.Category)); category != nil {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"category": {
				DataType:    aws.String("String"),
				StringValue: category,
			},
		}
	}

	out, err := s.client.Publish(ctx, input)
	if err != nil {
		s.log.ErrorObj("sns notifier publish failed", "notifier_sns_error", map[string]any{
			"notifier_id": s.id,
			"error":       err.Error(),
		})
		return fmt.Errorf("publish to sns: %w", err)
	}
	s.log.DebugObj("sns notifier delivered notification", "notifier_sns_delivery", map[string]any{
		"notifier_id": s.id,
		"message_id":  aws.ToString(out.MessageId),
	})
	return nil
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
