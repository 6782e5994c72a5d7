package clients

import (
	"context"

	"github.com/pliu/splayedit/pkg/config"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/kmsg"
)

// KgoClient is the subset of *kgo.Client used by the stream session. It is
// also a kmsg.Requestor so raw admin requests can be issued through it.
type KgoClient interface {
	Produce(context.Context, *kgo.Record, func(*kgo.Record, error))
	PollFetches(context.Context) KgoFetches
	Flush(context.Context) error
	Request(context.Context, kmsg.Request) (kmsg.Response, error)
	Close()
}

type KgoFetches interface {
	IsClientClosed() bool
	EachError(func(string, int32, error))
	EachRecord(func(*kgo.Record))
}

type KadmClient interface {
	ListTopics(context.Context, ...string) (kadm.TopicDetails, error)
	Close()
}

// FranzGoClient adapts *kgo.Client to KgoClient.
type FranzGoClient struct {
	*kgo.Client
}

func (c *FranzGoClient) PollFetches(ctx context.Context) KgoFetches {
	fetches := c.Client.PollFetches(ctx)
	return &fetches
}

// GetFranzGoClient returns a new franz-go kafka client. Any topics given are
// consumed from their earliest offset.
func GetFranzGoClient(cfg *config.KafkaConfig, topics ...string) (*FranzGoClient, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.SeedBrokers...),
	}
	if len(topics) > 0 {
		opts = append(opts,
			kgo.ConsumeTopics(topics...),
			kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		)
	}
	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	return &FranzGoClient{Client: client}, nil
}

func NewKadmClient(client *FranzGoClient) *kadm.Client {
	return kadm.NewClient(client.Client)
}
