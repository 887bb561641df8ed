package telemetry

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pigdevice/src/helpers"
	"pigdevice/src/interfaces"
	"pigdevice/src/logger"
	"pigdevice/src/models"
	"pigdevice/src/observability"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// MQTTAdapter
// -----------------------------------------------------------------------------

const (
	connectTimeout    = 30 * time.Second
	disconnectQuiesce = 250 // milliseconds, paho convention
	balanceTopicQoS   = 1   // at-least-once, matching the device firmware
)

// MQTTAdapter holds a single long-lived AWS-IoT-style MQTT connection and
// the balance-topic subscription. All failure modes are non-fatal: a missing
// configuration or a failed connection leaves the adapter degraded and the
// rest of the process fully functional.
type MQTTAdapter struct {
	cfg     models.MTelemetryConfig
	logger  *logger.Logger
	metrics *observability.Metrics
	client  mqtt.Client
}

var _ interfaces.ITelemetryAdapter = (*MQTTAdapter)(nil)

// -----------------------------------------------------------------------------

func NewMQTTAdapter(cfg models.MTelemetryConfig, log *logger.Logger, metrics *observability.Metrics) *MQTTAdapter {
	return &MQTTAdapter{
		cfg:     cfg,
		logger:  log,
		metrics: metrics,
	}
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

// Start connects and subscribes to "<prefix>/+/state". Missing configuration
// or certificates put the adapter in degraded mode with a nil return; the
// caller keeps running either way.
func (a *MQTTAdapter) Start(sink interfaces.MutationSink) error {
	if a.cfg.Endpoint == "" || a.cfg.Region == "" {
		a.logger.Error("Missing IoT configuration. Please set IOT_ENDPOINT and IOT_REGION")
		a.logger.Info("Running without telemetry connection.")
		return nil
	}

	tlsConfig, err := a.loadCertificates()
	if err != nil {
		a.logger.Error("Certificate setup failed: %v", err)
		a.logger.Info("Running without telemetry connection.")
		return nil
	}

	clientID := a.cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("pigdevice-%s", uuid.NewString()[:8])
	}

	a.logger.Info("Connecting to IoT endpoint %s (region %s, client %s)", a.cfg.Endpoint, a.cfg.Region, clientID)

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tls://%s:8883", a.cfg.Endpoint)).
		SetClientID(clientID).
		SetTLSConfig(tlsConfig).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		a.logger.Error("IoT connection failed: %v", token.Error())
		a.logger.Info("Running without telemetry connection - messages will not be received")
		return nil
	}
	a.client = client

	topic := fmt.Sprintf("%s/+/state", a.cfg.TopicPrefix)
	token := client.Subscribe(topic, balanceTopicQoS, func(_ mqtt.Client, msg mqtt.Message) {
		a.handleMessage(msg.Topic(), msg.Payload(), sink)
	})
	if token.Wait() && token.Error() != nil {
		a.logger.Error("Subscribe to %s failed: %v", topic, token.Error())
		return nil
	}

	a.logger.Info("Subscribed to topic pattern: %s", topic)
	return nil
}

// -----------------------------------------------------------------------------

func (a *MQTTAdapter) Stop() {
	if a.client != nil && a.client.IsConnected() {
		a.client.Disconnect(disconnectQuiesce)
	}
}

// -----------------------------------------------------------------------------

func (a *MQTTAdapter) Connected() bool {
	return a.client != nil && a.client.IsConnected()
}

// -----------------------------------------------------------------------------
// Inbound Path
// -----------------------------------------------------------------------------

// handleMessage decodes one inbound balance message and hands the mutation
// to the sink. Decode failures are logged and dropped; the subscription
// must survive any malformed message.
func (a *MQTTAdapter) handleMessage(topic string, payload []byte, sink interfaces.MutationSink) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Telemetry handler panic on topic %s: %v", topic, r)
		}
	}()

	deviceID, ok := DeviceIDFromTopic(topic)
	if !ok {
		a.logger.Error("Telemetry message on malformed topic: %s", topic)
		a.metrics.TelemetryMessages.WithLabelValues("dropped").Inc()
		return
	}

	m, err := DecodeMutation(payload)
	if err != nil {
		a.logger.Error("Telemetry message parsing error on %s: %v", topic, err)
		a.metrics.TelemetryMessages.WithLabelValues("dropped").Inc()
		return
	}

	a.logger.Debug("Telemetry message received on topic: %s", topic)
	a.metrics.TelemetryMessages.WithLabelValues("applied").Inc()
	sink(deviceID, m)
}

// -----------------------------------------------------------------------------
// Outbound Path
// -----------------------------------------------------------------------------

// Publish sends a payload on the given topic over the held connection.
func (a *MQTTAdapter) Publish(topic string, payload interface{}) error {
	if !a.Connected() {
		return helpers.NewTransportError("cannot publish: telemetry connection not established", nil)
	}

	message, err := json.Marshal(payload)
	if err != nil {
		return helpers.NewValidationError("cannot marshal publish payload: %v", err)
	}

	if token := a.client.Publish(topic, balanceTopicQoS, false, message); token.Wait() && token.Error() != nil {
		a.metrics.PublishFailures.Inc()
		return helpers.NewTransportError("publish failed", token.Error())
	}

	a.logger.Info("Telemetry message published to topic: %s", topic)
	return nil
}

// -----------------------------------------------------------------------------
// Certificates
// -----------------------------------------------------------------------------

// loadCertificates builds the mTLS config from the certificate directory
// (certificate.pem, private-key.pem, AmazonRootCA3.pem).
func (a *MQTTAdapter) loadCertificates() (*tls.Config, error) {
	certPath := filepath.Join(a.cfg.CertDir, "certificate.pem")
	keyPath := filepath.Join(a.cfg.CertDir, "private-key.pem")
	caPath := filepath.Join(a.cfg.CertDir, "AmazonRootCA3.pem")

	for _, p := range []string{certPath, keyPath, caPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("certificate file not found: %s", p)
		}
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("load key pair: %w", err)
	}

	caPEM, err := os.ReadFile(caPath)
	if err != nil {
		return nil, fmt.Errorf("read root CA: %w", err)
	}
	caPool := x509.NewCertPool()
	if !caPool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("root CA %s contains no usable certificates", caPath)
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      caPool,
	}, nil
}
