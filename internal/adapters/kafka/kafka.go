package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"sync/atomic"

	"poll-service/internal/models"

	"github.com/IBM/sarama"
	kafkago "github.com/segmentio/kafka-go"
)

const clientID = "poll-service"

// NewProducerConfig returns the producer settings used for vote events.
func NewProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Partitioner = sarama.NewHashPartitioner // same option, same partition
	config.Version = sarama.V2_0_0_0
	config.ClientID = clientID
	config.Producer.MaxMessageBytes = 1000000
	return config
}

func InitKafkaProducer(brokers []string) (sarama.AsyncProducer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	return sarama.NewAsyncProducer(brokers, NewProducerConfig())
}

var ErrProducerClosed = errors.New("kafka: producer closed")

// VoteProducer publishes committed votes, keyed by option id so that the
// events of one option stay ordered. Delivery results arrive on the
// producer's channels and are logged.
type VoteProducer struct {
	producer sarama.AsyncProducer
	topic    string

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	published atomic.Int64
	failed    atomic.Int64
}

func NewVoteProducer(producer sarama.AsyncProducer, topic string) *VoteProducer {
	p := &VoteProducer{producer: producer, topic: topic}
	p.wg.Add(2)
	go p.drainSuccesses()
	go p.drainErrors()
	return p
}

// PublishVote hands the event to the producer. It gives up when ctx is done
// before the producer accepts the message.
func (p *VoteProducer) PublishVote(ctx context.Context, event models.VoteEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal vote event: %w", err)
	}
	msg := &sarama.ProducerMessage{
		Topic:    p.topic,
		Key:      sarama.StringEncoder(strconv.FormatUint(uint64(event.OptionID), 10)),
		Value:    sarama.ByteEncoder(payload),
		Metadata: event.VoteID,
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrProducerClosed
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish vote %d: %w", event.VoteID, ctx.Err())
	}
}

func (p *VoteProducer) drainSuccesses() {
	defer p.wg.Done()
	for msg := range p.producer.Successes() {
		p.published.Add(1)
		slog.Debug("Vote event published", "voteID", msg.Metadata, "partition", msg.Partition, "offset", msg.Offset)
	}
}

func (p *VoteProducer) drainErrors() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		p.failed.Add(1)
		var voteID interface{}
		if perr.Msg != nil {
			voteID = perr.Msg.Metadata
		}
		slog.Warn("Failed to publish vote event", "voteID", voteID, "error", perr.Err)
	}
}

// Stats reports delivered and failed events so far.
func (p *VoteProducer) Stats() (published, failed int64) {
	return p.published.Load(), p.failed.Load()
}

// Close stops accepting events, flushes what the producer holds and waits
// for every delivery result.
func (p *VoteProducer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.producer.AsyncClose()
	p.wg.Wait()

	published, failed := p.Stats()
	slog.Info("Vote producer closed", "published", published, "failed", failed)
	return nil
}

// EnsureTopic creates the vote topic through the cluster controller if it
// does not exist yet.
func EnsureTopic(ctx context.Context, brokers []string, topic string, partitions int) error {
	if len(brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}

	conn, err := kafkago.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("find kafka controller: %w", err)
	}

	controllerConn, err := kafkago.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return fmt.Errorf("dial kafka controller: %w", err)
	}
	defer controllerConn.Close()

	err = controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil && !errors.Is(err, kafkago.TopicAlreadyExists) {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}

	slog.Info("Kafka topic ready", "topic", topic, "partitions", partitions)
	return nil
}
