package mqtt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"greenspring/core/logger"
	"greenspring/core/reconcile"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client is the subset of the paho client used by the bridge.
type Client interface {
	Connect() paho.Token
	Disconnect(quiesce uint)
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
	Unsubscribe(topics ...string) paho.Token
}

// CommandHandler receives a decoded command for an output pin.
type CommandHandler func(number, value int)

const (
	PayloadOn  = "ON"
	PayloadOff = "OFF"
)

// Bridge mirrors pin values to a broker and turns inbound commands into pin writes.
//
// Every broker operation is queued and performed by a single worker, so callers never
// wait on the network. Operations are dropped and logged when the queue is full.
type Bridge struct {
	client  Client
	prefix  string
	qos     byte
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	subscribed map[int]bool
	handler    CommandHandler

	ops       chan func()
	done      chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a bridge backed by a paho client built from cfg. The client reconnects
// on its own and every current subscription is restored after each connection.
func New(cfg Config, l *zap.Logger) *Bridge {
	b := newBridge(cfg, l)

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "greenspring-" + uuid.NewString()
	}

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectTimeout(b.timeout).
		SetOnConnectHandler(func(paho.Client) {
			b.logger.Info("Connected to MQTT broker", zap.String("broker", cfg.Broker))
			b.resubscribe()
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			b.logger.Warn("Lost connection to MQTT broker", zap.Error(err))
		})
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	b.client = paho.NewClient(opts)
	return b
}

// NewWithClient creates a bridge over an existing client.
func NewWithClient(client Client, cfg Config, l *zap.Logger) *Bridge {
	b := newBridge(cfg, l)
	b.client = client
	return b
}

func newBridge(cfg Config, l *zap.Logger) *Bridge {
	if l == nil {
		l = zap.NewNop()
	}
	prefix := strings.TrimSuffix(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "home/gpio"
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 5
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 256
	}
	qos := cfg.QoS
	if qos < 0 || qos > 2 {
		qos = 1
	}

	return &Bridge{
		prefix:     prefix,
		qos:        byte(qos),
		timeout:    time.Duration(timeout) * time.Second,
		logger:     l.With(zap.String("component", "mqtt")),
		subscribed: make(map[int]bool),
		ops:        make(chan func(), size),
		done:       make(chan struct{}),
	}
}

// StateTopic returns the topic a pin's value is published on.
func (b *Bridge) StateTopic(number int) string {
	return fmt.Sprintf("%s/%d/state", b.prefix, number)
}

// SetTopic returns the topic a pin's commands are received on.
func (b *Bridge) SetTopic(number int) string {
	return fmt.Sprintf("%s/%d/set", b.prefix, number)
}

// OnCommand installs the handler for inbound commands.
func (b *Bridge) OnCommand(h CommandHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = h
}

// Connect starts the worker and initiates the connection without waiting for it.
func (b *Bridge) Connect() {
	b.startOnce.Do(func() {
		go b.run()
		token := b.client.Connect()
		go func() {
			<-token.Done()
			if err := token.Error(); err != nil {
				b.logger.Warn("MQTT connect failed", zap.Error(err))
			}
		}()
	})
}

// Close stops the worker and disconnects. Queued operations are discarded.
func (b *Bridge) Close() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.client.Disconnect(250)
	})
}

// PublishState queues a retained ON/OFF message for a pin.
func (b *Bridge) PublishState(number, value int) {
	payload := PayloadOff
	if value != 0 {
		payload = PayloadOn
	}
	topic := b.StateTopic(number)
	b.enqueue("publish", func() {
		b.await(b.client.Publish(topic, b.qos, true, payload), "publish", topic)
	})
}

// Sync makes the set of command subscriptions match outputs: topics of pins no longer
// listed are unsubscribed and every listed pin is subscribed again, which retries any
// subscription the broker rejected earlier.
func (b *Bridge) Sync(outputs []int) {
	want := make(map[int]bool, len(outputs))
	for _, n := range outputs {
		want[n] = true
	}

	b.mu.Lock()
	var stale []int
	for n := range b.subscribed {
		if !want[n] {
			stale = append(stale, n)
		}
	}
	b.subscribed = want
	b.mu.Unlock()

	sort.Ints(stale)

	if len(stale) > 0 {
		topics := make([]string, 0, len(stale))
		for _, n := range stale {
			topics = append(topics, b.SetTopic(n))
		}
		b.enqueue("unsubscribe", func() {
			b.await(b.client.Unsubscribe(topics...), "unsubscribe", strings.Join(topics, ","))
		})
	}
	b.resubscribe()
}

// Subscribed returns the pins whose command topic is currently wanted, ascending.
func (b *Bridge) Subscribed() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int, 0, len(b.subscribed))
	for n := range b.subscribed {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (b *Bridge) resubscribe() {
	for _, n := range b.Subscribed() {
		b.subscribe(n)
	}
}

func (b *Bridge) subscribe(number int) {
	topic := b.SetTopic(number)
	b.enqueue("subscribe", func() {
		b.await(b.client.Subscribe(topic, b.qos, b.handleMessage), "subscribe", topic)
	})
}

func (b *Bridge) handleMessage(_ paho.Client, msg paho.Message) {
	number, ok := b.parseSetTopic(msg.Topic())
	if !ok {
		b.logger.Debug("Ignoring message on unexpected topic", zap.String("topic", msg.Topic()))
		return
	}
	value := reconcile.ParsePayload(string(msg.Payload()))

	b.mu.Lock()
	h := b.handler
	b.mu.Unlock()
	if h == nil {
		return
	}
	b.logger.Debug("Received command", logger.Pin(number), zap.Int("value", value))
	h(number, value)
}

// parseSetTopic extracts the pin number from <prefix>/<number>/set.
func (b *Bridge) parseSetTopic(topic string) (int, bool) {
	rest, ok := strings.CutPrefix(topic, b.prefix+"/")
	if !ok {
		return 0, false
	}
	raw, ok := strings.CutSuffix(rest, "/set")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (b *Bridge) enqueue(op string, fn func()) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.ops <- fn:
	default:
		b.logger.Warn("MQTT queue full, dropping operation", zap.String("op", op))
	}
}

func (b *Bridge) run() {
	for {
		select {
		case <-b.done:
			return
		case fn := <-b.ops:
			fn()
		}
	}
}

func (b *Bridge) await(token paho.Token, op, topic string) {
	if !token.WaitTimeout(b.timeout) {
		b.logger.Warn("MQTT operation timed out", zap.String("op", op), zap.String("topic", topic))
		return
	}
	if err := token.Error(); err != nil {
		b.logger.Warn("MQTT operation failed", zap.String("op", op), zap.String("topic", topic), zap.Error(err))
	}
}
