package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/phuslu/log"
	"github.com/pliu/splayedit/pkg/clients"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kmsg"
)

const visibleConfirmations = 5

// TopicManager creates the topics a session reads and writes. Edit topics
// get exactly one partition so that every consumer sees edits in the same
// order.
type TopicManager struct {
	client       clients.KgoClient
	admClient    clients.KadmClient
	pollInterval time.Duration
}

func NewTopicManagerWithClients(client clients.KgoClient, admClient clients.KadmClient) *TopicManager {
	return &TopicManager{
		client:       client,
		admClient:    admClient,
		pollInterval: 200 * time.Millisecond,
	}
}

// EnsureTopic creates topic with a single partition if it does not exist and
// waits until brokers report it.
func (tm *TopicManager) EnsureTopic(ctx context.Context, topic string) error {
	numPartitions, err := tm.getTopicNumPartitions(ctx, topic)
	if err != nil {
		return err
	}
	if numPartitions > 0 {
		if numPartitions != 1 {
			log.Warn().Msgf("Topic %s has %d partitions, edits are only ordered within a partition", topic, numPartitions)
		}
		return nil
	}

	if err := tm.createTopic(ctx, topic); err != nil {
		return err
	}
	return tm.waitUntilTopicExists(ctx, topic)
}

func (tm *TopicManager) getTopicNumPartitions(ctx context.Context, topic string) (int, error) {
	topicDetails, err := tm.admClient.ListTopics(ctx, topic)
	if err != nil {
		return 0, err
	}

	if td, exists := topicDetails[topic]; exists {
		if td.Err == nil {
			return len(td.Partitions.Numbers()), nil
		}
		if errors.Is(td.Err, kerr.UnknownTopicOrPartition) {
			return 0, nil
		}
		return 0, td.Err
	}

	return 0, nil
}

func (tm *TopicManager) createTopic(ctx context.Context, topic string) error {
	log.Info().Msgf("Creating topic %s", topic)

	createTopicsRequest := kmsg.NewCreateTopicsRequest()
	t := kmsg.NewCreateTopicsRequestTopic()
	t.Topic = topic
	t.NumPartitions = 1
	t.ReplicationFactor = -1
	t.Configs = generateTopicConfigs()
	createTopicsRequest.Topics = append(createTopicsRequest.Topics, t)

	resp, err := createTopicsRequest.RequestWith(ctx, tm.client)
	if err != nil {
		if errors.Is(err, kerr.TopicAlreadyExists) {
			return nil
		}
		return err
	}
	if len(resp.Topics) != 1 {
		return fmt.Errorf("unexpected create topics response for %s", topic)
	}
	if code := resp.Topics[0].ErrorCode; code != 0 && code != kerr.TopicAlreadyExists.Code {
		return fmt.Errorf("failed to create topic %s: %w", topic, kerr.ErrorForCode(code))
	}
	return nil
}

// Edit logs are replayed from the start on every session, so they are never
// deleted by retention.
func generateTopicConfigs() []kmsg.CreateTopicsRequestTopicConfig {
	topicConfigs := []kmsg.CreateTopicsRequestTopicConfig{}
	configs := map[string]string{
		"message.timestamp.type": "LogAppendTime",
		"retention.ms":           "-1",
		"cleanup.policy":         "delete",
	}
	for k, v := range configs {
		topicConfig := kmsg.NewCreateTopicsRequestTopicConfig()
		topicConfig.Name = k
		topicConfig.Value = &v
		topicConfigs = append(topicConfigs, topicConfig)
	}
	return topicConfigs
}

// Each ListTopics is a metadata call to a random broker and creation
// propagates eventually, so several consecutive sightings are required.
func (tm *TopicManager) waitUntilTopicExists(ctx context.Context, topic string) error {
	for i := 0; i < visibleConfirmations; {
		topics, err := tm.admClient.ListTopics(ctx, topic)
		if err == nil {
			td, exists := topics[topic]
			if exists && td.Err == nil {
				i += 1
			}
		} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tm.pollInterval):
		}
	}
	return nil
}
