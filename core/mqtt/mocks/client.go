package mocks

import (
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of mqtt.Client.
type Client struct {
	mock.Mock
}

func (m *Client) Connect() paho.Token {
	args := m.Called()
	return args.Get(0).(paho.Token)
}

func (m *Client) Disconnect(quiesce uint) {
	m.Called(quiesce)
}

func (m *Client) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Client) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(paho.Token)
}

func (m *Client) Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token {
	args := m.Called(topic, qos, callback)
	return args.Get(0).(paho.Token)
}

func (m *Client) Unsubscribe(topics ...string) paho.Token {
	args := m.Called(topics)
	return args.Get(0).(paho.Token)
}

// Token is a completed paho.Token carrying a fixed error.
type Token struct {
	Err  error
	once sync.Once
	done chan struct{}
}

// NewToken returns a completed token.
func NewToken(err error) *Token {
	return &Token{Err: err}
}

func (t *Token) closed() chan struct{} {
	t.once.Do(func() {
		t.done = make(chan struct{})
		close(t.done)
	})
	return t.done
}

func (t *Token) Wait() bool                       { return true }
func (t *Token) WaitTimeout(_ time.Duration) bool { return true }
func (t *Token) Done() <-chan struct{}            { return t.closed() }
func (t *Token) Error() error                     { return t.Err }

// Message is a static paho.Message.
type Message struct {
	TopicName string
	Body      []byte
}

func (m Message) Duplicate() bool   { return false }
func (m Message) Qos() byte         { return 1 }
func (m Message) Retained() bool    { return false }
func (m Message) Topic() string     { return m.TopicName }
func (m Message) MessageID() uint16 { return 0 }
func (m Message) Payload() []byte   { return m.Body }
func (m Message) Ack()              {}
