// Package stream runs an editing session whose edits arrive on a Kafka topic
// and whose sequence snapshots are published to another.
package stream

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"
	"github.com/pliu/splayedit/pkg/clients"
	"github.com/pliu/splayedit/pkg/config"
	"github.com/pliu/splayedit/pkg/edit"
	"github.com/pliu/splayedit/pkg/splay"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	appliedHeader          = "applied"
	finalSnapshotTimeout   = 5 * time.Second
	rejectReasonMalformed  = "malformed"
	rejectReasonOutOfRange = "out_of_range"
)

type Session struct {
	client        clients.KgoClient
	editTopic     string
	resultTopic   string
	instanceUUID  string
	tree          *splay.Tree
	snapshotEvery int
	applied       int
}

func NewSessionWithClient(client clients.KgoClient, editTopic, resultTopic, sequence, instanceUUID string, snapshotEvery int) *Session {
	return &Session{
		client:        client,
		editTopic:     editTopic,
		resultTopic:   resultTopic,
		instanceUUID:  instanceUUID,
		tree:          splay.NewString(sequence),
		snapshotEvery: snapshotEvery,
	}
}

// NewSessionFromConfig connects to the configured brokers and makes sure the
// edit and result topics exist before returning.
func NewSessionFromConfig(ctx context.Context, cfg *config.StreamConfig) (*Session, error) {
	client, err := clients.GetFranzGoClient(cfg.KafkaConfig, cfg.GetEditTopic())
	if err != nil {
		return nil, err
	}

	// Closing the kadm client would close the shared kgo client, so it is
	// left to the session.
	tm := NewTopicManagerWithClients(client, clients.NewKadmClient(client))
	for _, topic := range []string{cfg.GetEditTopic(), cfg.GetResultTopic()} {
		if err := tm.EnsureTopic(ctx, topic); err != nil {
			client.Close()
			return nil, err
		}
	}

	return NewSessionWithClient(client, cfg.GetEditTopic(), cfg.GetResultTopic(), cfg.Sequence, uuid.NewString(), cfg.GetSnapshotEvery()), nil
}

// Run applies edits until ctx is cancelled, then publishes a final snapshot.
func (s *Session) Run(ctx context.Context) error {
	defer s.client.Close()
	log.Info().Msgf("Starting session %s on %s (%d elements)", s.instanceUUID, s.editTopic, s.tree.Len())

	for {
		fetches := s.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			log.Info().Msgf("Session %s client closed", s.instanceUUID)
			return nil
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			FetchErrorCount.Inc()
			log.Error().Err(err).Msgf("fetch error on %s/%d", topic, partition)
		})
		fetches.EachRecord(func(record *kgo.Record) {
			s.handleRecord(ctx, record)
		})

		if ctx.Err() != nil {
			s.publishFinalSnapshot()
			log.Info().Msgf("Stopping session %s after %d edits", s.instanceUUID, s.applied)
			return nil
		}
	}
}

func (s *Session) Applied() int {
	return s.applied
}

func (s *Session) handleRecord(ctx context.Context, record *kgo.Record) {
	e, err := edit.Parse(string(record.Value))
	if err != nil {
		RejectedEditCount.WithLabelValues(rejectReasonMalformed).Inc()
		log.Debug().Err(err).Msgf("skipping record at offset %d", record.Offset)
		return
	}
	if err := e.Validate(s.tree.Len()); err != nil {
		RejectedEditCount.WithLabelValues(rejectReasonOutOfRange).Inc()
		log.Debug().Err(err).Msgf("skipping record at offset %d", record.Offset)
		return
	}

	s.tree.Process(e.I, e.J, e.K)
	s.applied++
	AppliedEditCount.Inc()

	if s.snapshotEvery > 0 && s.applied%s.snapshotEvery == 0 {
		s.publishSnapshot(ctx)
	}
}

func (s *Session) publishSnapshot(ctx context.Context) {
	record := &kgo.Record{
		Topic: s.resultTopic,
		Key:   []byte(s.instanceUUID),
		Value: []byte(s.tree.String()),
		Headers: []kgo.RecordHeader{
			{Key: appliedHeader, Value: []byte(strconv.Itoa(s.applied))},
		},
	}

	s.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			SnapshotFailureCount.Inc()
			log.Error().Err(err).Msgf("failed to publish snapshot to %s", r.Topic)
			return
		}
		SnapshotCount.Inc()
	})
}

func (s *Session) publishFinalSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), finalSnapshotTimeout)
	defer cancel()

	s.publishSnapshot(ctx)
	if err := s.client.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("failed to flush final snapshot")
	}
}
